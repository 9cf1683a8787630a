// Package config resolves generator options into a validated, immutable
// configuration with every default filled in.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mark3labs/swagger2ts/internal/logging"
	"github.com/mark3labs/swagger2ts/internal/naming"
	"github.com/mark3labs/swagger2ts/internal/render"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// TagMapper maps a tag name to a class name. ok=false (or an empty name)
// falls back to the positional "tag{index}" name.
type TagMapper func(tag string) (name string, ok bool)

type APINameMapper func(path string, method spec.HTTPMethod) string

type InterfaceNameMapper func(apiName string, t naming.InterfaceType) string

// ResponseInterceptor rewrites the 200 response schema before it is
// normalized. It must not modify its argument.
type ResponseInterceptor func(*spec.Schema) *spec.Schema

// Options are the caller-facing settings. Every field is optional.
type Options struct {
	TagMapper           TagMapper
	APINameMapper       APINameMapper
	InterfaceNameMapper InterfaceNameMapper
	ResponseInterceptor ResponseInterceptor

	// SkipBodyOfGet drops body parameters of GET operations. Nil means true.
	SkipBodyOfGet *bool

	TemplateRoot string                 `validate:"omitempty,dir"`
	Templates    map[render.Kind]string `validate:"omitempty,dive,keys,oneof=header interface func class module body,endkeys,required,file"`

	// Out is the output file. Empty means the text is only returned.
	Out string

	Logger logging.Logger
	// Now stamps the header. Nil leaves the header undated so output stays
	// reproducible.
	Now func() time.Time

	IncludeTags  []string          `validate:"dive,required"`
	ExcludeTags  []string          `validate:"dive,required"`
	Methods      []spec.HTTPMethod `validate:"dive,oneof=get post put patch delete"`
	PathPatterns []string
	// DryRun skips writing Out.
	DryRun bool
}

// Resolved is the configuration after defaults are applied. It is built once
// per run and only read afterwards.
type Resolved struct {
	TagMapper           TagMapper
	APINameMapper       APINameMapper
	InterfaceNameMapper InterfaceNameMapper
	ResponseInterceptor ResponseInterceptor
	SkipBodyOfGet       bool
	Render              render.Options
	Out                 string
	Logger              logging.Logger
	Now                 func() time.Time
	IncludeTags         []string
	ExcludeTags         []string
	Methods             []spec.HTTPMethod
	PathPatterns        []*regexp.Regexp
	DryRun              bool
}

// ErrConfig matches every configuration error via errors.Is.
var ErrConfig = errors.New("invalid configuration")

// Error describes one invalid option.
type Error struct {
	Field  string
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *Error) Is(target error) bool { return target == ErrConfig }
func (e *Error) Unwrap() error        { return e.Cause }

var validate = validator.New(validator.WithRequiredStructEnabled())

// Resolve validates opts and fills every default.
func Resolve(opts Options) (Resolved, error) {
	if err := validate.Struct(opts); err != nil {
		return Resolved{}, fromValidationError(err)
	}
	if overlap := intersect(opts.IncludeTags, opts.ExcludeTags); len(overlap) > 0 {
		return Resolved{}, &Error{Field: "IncludeTags", Reason: "overlaps ExcludeTags: " + strings.Join(overlap, ", ")}
	}

	r := Resolved{
		TagMapper:           opts.TagMapper,
		APINameMapper:       opts.APINameMapper,
		InterfaceNameMapper: opts.InterfaceNameMapper,
		ResponseInterceptor: opts.ResponseInterceptor,
		SkipBodyOfGet:       true,
		Render:              render.Options{TemplateRoot: opts.TemplateRoot, Templates: copyTemplates(opts.Templates)},
		Out:                 strings.TrimSpace(opts.Out),
		Logger:              logging.OrNop(opts.Logger),
		Now:                 opts.Now,
		IncludeTags:         append([]string(nil), opts.IncludeTags...),
		ExcludeTags:         append([]string(nil), opts.ExcludeTags...),
		Methods:             append([]spec.HTTPMethod(nil), opts.Methods...),
		DryRun:              opts.DryRun,
	}
	if opts.SkipBodyOfGet != nil {
		r.SkipBodyOfGet = *opts.SkipBodyOfGet
	}
	if r.TagMapper == nil {
		r.TagMapper = NoTagMapper
	}
	if r.APINameMapper == nil {
		r.APINameMapper = DefaultAPINameMapper
	}
	if r.InterfaceNameMapper == nil {
		r.InterfaceNameMapper = naming.InterfaceName
	}
	if r.ResponseInterceptor == nil {
		r.ResponseInterceptor = Identity
	}
	for _, p := range opts.PathPatterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return Resolved{}, &Error{Field: "PathPatterns", Reason: fmt.Sprintf("invalid pattern %q", p), Cause: err}
		}
		r.PathPatterns = append(r.PathPatterns, re)
	}
	return r, nil
}

// Bool returns a pointer to b, for optional boolean options.
func Bool(b bool) *bool { return &b }

// NoTagMapper maps nothing, so every tag gets its positional name.
func NoTagMapper(string) (string, bool) { return "", false }

// StaticTagMapper maps tags through m.
func StaticTagMapper(m map[string]string) TagMapper {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return func(tag string) (string, bool) {
		name, ok := cp[tag]
		return name, ok && name != ""
	}
}

func DefaultAPINameMapper(path string, method spec.HTTPMethod) string {
	return naming.APIName(path, string(method))
}

func copyTemplates(in map[render.Kind]string) map[render.Kind]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[render.Kind]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func fromValidationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return &Error{Field: "Options", Reason: err.Error(), Cause: err}
	}
	fe := ves[0]
	field := strings.TrimPrefix(fe.Namespace(), "Options.")
	var reason string
	switch fe.Tag() {
	case "dir":
		reason = fmt.Sprintf("%v is not a directory", fe.Value())
	case "file":
		reason = fmt.Sprintf("%v is not a readable file", fe.Value())
	case "oneof":
		reason = fmt.Sprintf("%v must be one of [%s]", fe.Value(), fe.Param())
	case "required":
		reason = "must not be empty"
	default:
		reason = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return &Error{Field: field, Reason: reason, Cause: err}
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}
