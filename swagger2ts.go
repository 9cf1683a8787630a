// Package swagger2ts generates TypeScript API clients from Swagger 2.0
// documents.
//
// The output is a single module: request/response type declarations, one
// static method per operation and one class per tag.
//
//	res, err := swagger2ts.FromFile(ctx, "./swagger.json", swagger2ts.Options{
//		Out:       "./src/api.ts",
//		TagMapper: swagger2ts.StaticTagMapper(map[string]string{"pet": "PetApi"}),
//	})
package swagger2ts

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/swagger2ts/internal/config"
	"github.com/mark3labs/swagger2ts/internal/emitter"
	"github.com/mark3labs/swagger2ts/internal/naming"
	"github.com/mark3labs/swagger2ts/internal/render"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

type (
	// Options configures a conversion. Every field is optional.
	Options             = config.Options
	Result              = emitter.Result
	Document            = spec.Document
	Schema              = spec.Schema
	HTTPMethod          = spec.HTTPMethod
	InterfaceType       = naming.InterfaceType
	TemplateKind        = render.Kind
	TagMapper           = config.TagMapper
	APINameMapper       = config.APINameMapper
	InterfaceNameMapper = config.InterfaceNameMapper
	ResponseInterceptor = config.ResponseInterceptor
)

const (
	Query    = naming.Query
	Path     = naming.Path
	Body     = naming.Body
	FormData = naming.FormData
	Response = naming.Response
)

// ErrConfig matches every invalid option error.
var ErrConfig = config.ErrConfig

// Convert generates TypeScript for an already parsed document.
func Convert(ctx context.Context, doc *Document, opts Options) (*Result, error) {
	return emitter.Emit(ctx, doc, opts)
}

// Parse decodes a Swagger 2.0 or OpenAPI 3 document.
func Parse(ctx context.Context, raw []byte) (*Document, error) {
	doc, _, err := spec.Parse(ctx, raw, "")
	return doc, err
}

// FromFile loads the document at path and converts it.
func FromFile(ctx context.Context, path string, opts Options) (*Result, error) {
	src, err := spec.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return Convert(ctx, src.Doc, opts)
}

// FromHTTP fetches the document with a single GET, sending headers, and
// converts it. Any status other than 200 fails.
func FromHTTP(ctx context.Context, rawURL string, headers map[string]string, opts Options) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (!strings.EqualFold(u.Scheme, "http") && !strings.EqualFold(u.Scheme, "https")) {
		return nil, fmt.Errorf("swagger2ts: %q is not an http(s) URL", rawURL)
	}
	src, err := spec.Load(ctx, rawURL, spec.WithHeaders(headers))
	if err != nil {
		return nil, err
	}
	return Convert(ctx, src.Doc, opts)
}

// Bool returns a pointer to b, for Options.SkipBodyOfGet.
func Bool(b bool) *bool { return config.Bool(b) }

// StaticTagMapper names classes from a fixed tag → class table.
func StaticTagMapper(m map[string]string) TagMapper { return config.StaticTagMapper(m) }

// UnwrapEnvelope is a ResponseInterceptor that replaces a {code, data}
// envelope with its data schema.
func UnwrapEnvelope(s *Schema) *Schema { return config.UnwrapEnvelope(s) }
