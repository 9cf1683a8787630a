package spec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	openapi2 "github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	invopopyaml "github.com/invopop/yaml"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swagger2ts/internal/fsutil"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	NetworkError    ErrorCode = "NetworkError"
	ParseError      ErrorCode = "ParseError"
	ValidationError ErrorCode = "ValidationError"
	ConversionError ErrorCode = "ConversionError"
)

// SpecError is a structured error with optional location and JSON Pointer.
type SpecError struct {
	Code        ErrorCode
	Message     string
	Location    string // file path or URL
	JSONPointer string // e.g. "#/paths/~1pets/get"
	Cause       error
}

func (e *SpecError) Error() string { return e.Message }
func (e *SpecError) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
	// HTTPTimeout bounds the single fetch request. Zero means no client
	// timeout; the context still applies.
	HTTPTimeout time.Duration
	// Headers are sent with the fetch request.
	Headers map[string]string
	// Client overrides the HTTP client used for fetching.
	Client *http.Client
	// Validate runs kin-openapi validation before decoding.
	Validate bool
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithHTTPClient(c *http.Client) Option { return func(s *Settings) { s.Client = c } }
func WithValidation(enabled bool) Option { return func(s *Settings) { s.Validate = enabled } }

// WithHeaders adds request headers for remote documents.
func WithHeaders(h map[string]string) Option {
	return func(s *Settings) {
		if len(h) == 0 {
			return
		}
		if s.Headers == nil {
			s.Headers = make(map[string]string, len(h))
		}
		for k, v := range h {
			s.Headers[k] = v
		}
	}
}

// Source is a loaded document together with the bytes it was decoded from.
type Source struct {
	Location string
	Raw      []byte
	// Version is the major version of the input (2 or 3). Version 3 inputs
	// are down-converted, so Doc is always Swagger 2.0 shaped.
	Version int
	Doc     *Document
}

// Load reads input (a filesystem path or an http/https URL) and decodes it
// into a Document. OpenAPI 3 inputs are converted to Swagger 2.0 with
// kin-openapi; property order of converted schemas is alphabetical.
func Load(ctx context.Context, input string, opts ...Option) (*Source, error) {
	var settings Settings
	for _, opt := range opts {
		opt(&settings)
	}

	raw, location, err := read(ctx, input, settings)
	if err != nil {
		return nil, err
	}

	if settings.Validate {
		if err := Validate(ctx, raw, location); err != nil {
			return nil, err
		}
	}

	doc, version, err := Parse(ctx, raw, location)
	if err != nil {
		return nil, err
	}
	return &Source{Location: location, Raw: raw, Version: version, Doc: doc}, nil
}

// Parse decodes raw document bytes. location is only used in errors.
func Parse(ctx context.Context, raw []byte, location string) (*Document, int, error) {
	version, err := detectSpecVersion(raw)
	if err != nil {
		return nil, 0, &SpecError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
	}

	switch version {
	case 2:
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, 0, &SpecError{Code: ParseError, Message: fmt.Sprintf("decode swagger document: %v", err), Location: location, Cause: err}
		}
		return doc, 2, nil
	case 3:
		doc, err := convertV3ToV2(ctx, raw)
		if err != nil {
			var se *SpecError
			if errors.As(err, &se) {
				se.Location = location
				return nil, 0, se
			}
			return nil, 0, &SpecError{Code: ConversionError, Message: fmt.Sprintf("convert v3→v2: %v", err), Location: location, Cause: err}
		}
		return doc, 3, nil
	default:
		return nil, 0, &SpecError{Code: ParseError, Message: "spec: unknown or unsupported OpenAPI/Swagger version", Location: location}
	}
}

// Validate checks raw against the OpenAPI rules kin-openapi enforces. Swagger
// 2.0 documents are first rewritten for compatibility and converted to v3.
func Validate(ctx context.Context, raw []byte, location string) error {
	version, err := detectSpecVersion(raw)
	if err != nil {
		return &SpecError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
	}

	var doc *openapi3.T
	switch version {
	case 3:
		doc, err = openapi3.NewLoader().LoadFromData(raw)
		if err != nil {
			return mapValidateOrParseErr(err, location)
		}
	case 2:
		if fixed, changed, _ := preprocessV2ForCompatibility(raw); changed {
			raw = fixed
		}
		doc, err = convertV2ToV3(raw)
		if err != nil {
			return &SpecError{Code: ConversionError, Message: fmt.Sprintf("convert v2→v3: %v", err), Location: location, Cause: err}
		}
		if err := openapi3.NewLoader().ResolveRefsIn(doc, nil); err != nil && !canProceedDespiteValidation(err) {
			return mapValidateOrParseErr(err, location)
		}
	default:
		return &SpecError{Code: ParseError, Message: "spec: unknown or unsupported OpenAPI/Swagger version", Location: location}
	}

	if err := doc.Validate(ctx); err != nil && !canProceedDespiteValidation(err) {
		return mapValidateOrParseErr(err, location)
	}
	return nil
}

// Save writes the raw document to path.
func (s *Source) Save(path string) error {
	if err := fsutil.WriteFile(path, s.Raw, 0o644); err != nil {
		return fmt.Errorf("save spec: %w", err)
	}
	return nil
}

func read(ctx context.Context, input string, settings Settings) ([]byte, string, error) {
	if strings.TrimSpace(input) == "" {
		return nil, "", &SpecError{Code: InputError, Message: "spec: input is empty"}
	}

	// Classify input as URL or file path.
	u, uerr := url.Parse(input)
	isURL := uerr == nil && u.Scheme != "" && u.Host != ""

	if isURL {
		scheme := strings.ToLower(u.Scheme)
		if scheme == "file" {
			return nil, input, &SpecError{Code: InputError, Message: "spec: file:// URLs are blocked by default", Location: input}
		}
		if scheme != "http" && scheme != "https" {
			return nil, input, &SpecError{Code: InputError, Message: fmt.Sprintf("spec: unsupported URL scheme %q (only http/https allowed)", scheme), Location: input}
		}
		raw, err := fetch(ctx, input, settings)
		if err != nil {
			return nil, input, &SpecError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
		}
		return raw, input, nil
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, input, &SpecError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, abs, &SpecError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
	}
	return raw, abs, nil
}

// fetch performs exactly one GET. Any status other than 200 is an error.
func fetch(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := settings.Client
	if client == nil {
		client = &http.Client{Timeout: settings.HTTPTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range settings.Headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}

// detectSpecVersion returns 3 for OpenAPI v3, 2 for Swagger v2, else error.
func detectSpecVersion(data []byte) (int, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return 0, fmt.Errorf("parse spec: %w", err)
	}
	if v, ok := root["openapi"]; ok {
		if s, _ := v.(string); strings.HasPrefix(strings.TrimSpace(s), "3.") {
			return 3, nil
		}
	}
	if v, ok := root["swagger"]; ok {
		if s := fmt.Sprint(v); strings.HasPrefix(strings.TrimSpace(s), "2") {
			return 2, nil
		}
	}
	return 0, fmt.Errorf("spec: missing or unknown version (expected 'openapi: 3.x' or 'swagger: 2.0')")
}

func decodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func convertV2ToV3(data []byte) (*openapi3.T, error) {
	// openapi2.T only carries JSON tags, so go through JSON.
	js, err := invopopyaml.YAMLToJSON(data)
	if err != nil {
		return nil, err
	}
	var v2 openapi2.T
	if err := json.Unmarshal(js, &v2); err != nil {
		return nil, err
	}
	return openapi2conv.ToV3(&v2)
}

func convertV3ToV2(ctx context.Context, data []byte) (*Document, error) {
	loader := openapi3.NewLoader()
	doc3, err := loader.LoadFromData(data)
	if err != nil {
		return nil, mapValidateOrParseErr(err, "")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v2, err := openapi2conv.FromV3(doc3)
	if err != nil {
		return nil, err
	}
	js, err := json.Marshal(v2)
	if err != nil {
		return nil, err
	}
	return decodeDocument(js)
}

func mapValidateOrParseErr(err error, location string) error {
	pointer := extractJSONPointer(err)
	code := ValidationError
	// Heuristics: some loader errors are parse errors.
	if strings.Contains(strings.ToLower(err.Error()), "parse") || strings.Contains(strings.ToLower(err.Error()), "invalid character") {
		code = ParseError
	}
	return &SpecError{Code: code, Message: err.Error(), Location: location, JSONPointer: pointer, Cause: err}
}

var jsonPtrRe = regexp.MustCompile(`#/[^\s'\"]+`)

func extractJSONPointer(err error) string {
	if err == nil {
		return ""
	}
	// Unwrap MultiError and take the first for brevity.
	if me, ok := err.(openapi3.MultiError); ok {
		if len(me) > 0 {
			return extractJSONPointer(me[0])
		}
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if parts := se.JSONPointer(); len(parts) > 0 {
			return "#/" + strings.Join(parts, "/")
		}
		if se.SchemaField != "" {
			return se.SchemaField
		}
	}
	if m := jsonPtrRe.FindString(err.Error()); m != "" {
		return m
	}
	return ""
}

// canProceedDespiteValidation returns true for validation errors that do not
// prevent generation, such as unresolved $ref entries, which the generator
// skips anyway.
func canProceedDespiteValidation(err error) bool {
	if err == nil {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unresolved ref") || strings.Contains(s, "found unresolved ref")
}
