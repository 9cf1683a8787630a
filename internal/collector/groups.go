package collector

import (
	"github.com/mark3labs/swagger2ts/internal/field"
	"github.com/mark3labs/swagger2ts/internal/naming"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// groupInput is what an extractor sees of one operation.
type groupInput struct {
	method        spec.HTTPMethod
	op            *spec.Operation
	params        []*spec.Parameter
	skipBodyOfGet bool
	intercept     func(*spec.Schema) *spec.Schema
	norm          *field.Normalizer
}

// extractor builds the root field of one group. ok=false means the group is
// absent for the operation.
type extractor func(in groupInput, name string) (f field.Field, ok bool)

var extractors = map[naming.InterfaceType]extractor{
	naming.Query:    paramsIn(spec.InQuery),
	naming.Path:     paramsIn(spec.InPath),
	naming.Body:     extractBody,
	naming.FormData: paramsIn(spec.InFormData),
	naming.Response: extractResponse,
}

func paramsIn(loc spec.ParameterLocation) extractor {
	return func(in groupInput, name string) (field.Field, bool) {
		var matched []*spec.Parameter
		for _, p := range in.params {
			if p.In == loc {
				matched = append(matched, p)
			}
		}
		if len(matched) == 0 {
			return nil, false
		}
		obj := in.norm.NormalizeParameters(matched, name)
		if len(obj.Properties) == 0 {
			return nil, false
		}
		return obj, true
	}
}

// extractBody uses the first body parameter only. A body parameter without a
// schema counts as no body.
func extractBody(in groupInput, name string) (field.Field, bool) {
	if in.method == spec.MethodGet && in.skipBodyOfGet {
		return nil, false
	}
	for _, p := range in.params {
		if p.In != spec.InBody {
			continue
		}
		if p.Schema == nil {
			return nil, false
		}
		return in.norm.Normalize(p.Schema, name)
	}
	return nil, false
}

func extractResponse(in groupInput, name string) (field.Field, bool) {
	r, ok := in.op.Responses.Get("200")
	if !ok || r == nil {
		return nil, false
	}
	if r.Ref != "" {
		in.norm.Logger.Warn("unsupported $ref response skipped", "status", "200", "ref", r.Ref)
		return nil, false
	}
	if r.Schema == nil {
		return nil, false
	}
	schema := in.intercept(r.Schema)
	if schema == nil {
		return nil, false
	}
	return in.norm.Normalize(schema, name)
}
