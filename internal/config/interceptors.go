package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/swagger2ts/internal/spec"
)

// Identity returns the schema unchanged.
func Identity(s *spec.Schema) *spec.Schema { return s }

// UnwrapEnvelope replaces a {code, data} envelope with its data schema. Any
// schema that does not declare both properties is returned unchanged.
func UnwrapEnvelope(s *spec.Schema) *spec.Schema {
	if s == nil {
		return nil
	}
	if _, ok := s.Properties.Get("code"); !ok {
		return s
	}
	data, ok := s.Properties.Get("data")
	if !ok {
		return s
	}
	if data == nil {
		return &spec.Schema{}
	}
	return data
}

var interceptors = map[string]ResponseInterceptor{
	"identity": Identity,
	"envelope": UnwrapEnvelope,
}

// InterceptorByName returns a built-in interceptor: "identity" or "envelope".
func InterceptorByName(name string) (ResponseInterceptor, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Identity, nil
	}
	if ic, ok := interceptors[name]; ok {
		return ic, nil
	}
	names := make([]string, 0, len(interceptors))
	for k := range interceptors {
		names = append(names, k)
	}
	sort.Strings(names)
	return nil, &Error{Field: "ResponseInterceptor", Reason: fmt.Sprintf("unknown interceptor %q (allowed: %s)", name, strings.Join(names, ", "))}
}
