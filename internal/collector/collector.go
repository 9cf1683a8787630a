// Package collector walks a document's paths and turns every operation into
// a Function: its parameter groups, its 200 response and the declarations
// they need.
package collector

import (
	"strings"

	"github.com/mark3labs/swagger2ts/internal/config"
	"github.com/mark3labs/swagger2ts/internal/field"
	"github.com/mark3labs/swagger2ts/internal/logging"
	"github.com/mark3labs/swagger2ts/internal/naming"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// Declaration is a named type emitted for a group that did not simplify.
type Declaration struct {
	Type        naming.InterfaceType
	Name        string
	Description string
	Field       field.Field
}

// Function describes one generated client function. It is not modified after
// Collect returns and may be shared by several classes.
type Function struct {
	Name        string
	Description string
	URL         string
	Method      spec.HTTPMethod
	Tags        []string
	// Params maps each present group to an inline type or a declaration name.
	Params     map[naming.InterfaceType]string
	Interfaces []Declaration
}

// Param returns the type expression for t, or "" when the group is absent.
func (f *Function) Param(t naming.InterfaceType) string { return f.Params[t] }

// Result holds the collected functions in path and method declaration order.
type Result struct {
	Functions []*Function
	ByName    map[string]*Function
}

// Collect builds a Function for every operation that passes the configured
// filters. Two operations mapping to the same name are not told apart: the
// later one replaces the earlier in place.
func Collect(doc *spec.Document, cfg config.Resolved) *Result {
	res := &Result{ByName: make(map[string]*Function)}
	if doc == nil {
		return res
	}
	for _, ext := range doc.Paths.Extensions {
		cfg.Logger.Debug("vendor extension skipped", "key", ext)
	}
	position := make(map[string]int)
	for _, path := range doc.Paths.Keys() {
		item, _ := doc.Paths.Get(path)
		if item == nil || !allowByPath(path, cfg) {
			continue
		}
		for _, mo := range item.Operations {
			if mo.Operation == nil || !allowByMethod(mo.Method, cfg) {
				continue
			}
			tags := cleanTags(mo.Operation.Tags)
			if !allowByTags(tags, cfg) {
				continue
			}
			fn := collectOperation(path, mo.Method, item.Parameters, mo.Operation, tags, cfg)
			if i, dup := position[fn.Name]; dup {
				cfg.Logger.Warn("duplicate function name, later operation wins", "name", fn.Name, "path", path, "method", string(mo.Method))
				res.Functions[i] = fn
			} else {
				position[fn.Name] = len(res.Functions)
				res.Functions = append(res.Functions, fn)
			}
			res.ByName[fn.Name] = fn
		}
	}
	return res
}

func collectOperation(path string, method spec.HTTPMethod, shared []*spec.Parameter, op *spec.Operation, tags []string, cfg config.Resolved) *Function {
	logger := cfg.Logger.With("path", path, "method", string(method))
	for _, ext := range op.Responses.Extensions {
		logger.Debug("vendor extension skipped", "key", ext)
	}
	for _, code := range op.Responses.Keys() {
		if code != "200" {
			logger.Warn("response status ignored", "status", code)
		}
	}

	b := newFunctionBuilder(cfg.APINameMapper(path, method), path, method, tags, funcDescription(op))
	in := groupInput{
		method:        method,
		op:            op,
		params:        mergeParameters(shared, op.Parameters, logger),
		skipBodyOfGet: cfg.SkipBodyOfGet,
		intercept:     cfg.ResponseInterceptor,
		norm:          field.NewNormalizer(logger),
	}
	for _, t := range naming.InterfaceTypes {
		name := cfg.InterfaceNameMapper(b.name, t)
		f, ok := extractors[t](in, name)
		if !ok {
			continue
		}
		b.add(t, name, f)
	}
	return b.build()
}

// mergeParameters overlays operation parameters on path-level ones; an
// operation parameter replaces a shared one with the same location and name.
// $ref parameters are dropped with a warning.
func mergeParameters(shared, own []*spec.Parameter, logger logging.Logger) []*spec.Parameter {
	var out []*spec.Parameter
	index := make(map[string]int)
	add := func(p *spec.Parameter) {
		if p == nil {
			return
		}
		if p.Ref != "" {
			logger.Warn("unsupported $ref parameter skipped", "ref", p.Ref)
			return
		}
		key := string(p.In) + ":" + p.Name
		if i, ok := index[key]; ok {
			out[i] = p
			return
		}
		index[key] = len(out)
		out = append(out, p)
	}
	for _, p := range shared {
		add(p)
	}
	for _, p := range own {
		add(p)
	}
	return out
}

// funcDescription is the summary (or the tags when there is none) followed
// by the description.
func funcDescription(op *spec.Operation) string {
	head := op.Summary
	if head == "" {
		head = strings.Join(op.Tags, ",")
	}
	return strings.TrimSpace(head + " " + op.Description)
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func allowByTags(tags []string, cfg config.Resolved) bool {
	if len(cfg.IncludeTags) > 0 && !containsAny(cfg.IncludeTags, tags) {
		return false
	}
	return !containsAny(cfg.ExcludeTags, tags)
}

func allowByMethod(m spec.HTTPMethod, cfg config.Resolved) bool {
	if len(cfg.Methods) == 0 {
		return true
	}
	for _, allowed := range cfg.Methods {
		if allowed == m {
			return true
		}
	}
	return false
}

func allowByPath(path string, cfg config.Resolved) bool {
	if len(cfg.PathPatterns) == 0 {
		return true
	}
	for _, re := range cfg.PathPatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

func containsAny(set, items []string) bool {
	for _, s := range set {
		for _, it := range items {
			if s == it {
				return true
			}
		}
	}
	return false
}
