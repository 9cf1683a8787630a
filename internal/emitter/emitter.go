// Package emitter runs the whole generation pipeline for one document and
// produces the TypeScript text.
package emitter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/swagger2ts/internal/collector"
	"github.com/mark3labs/swagger2ts/internal/config"
	"github.com/mark3labs/swagger2ts/internal/fsutil"
	"github.com/mark3labs/swagger2ts/internal/grouping"
	"github.com/mark3labs/swagger2ts/internal/naming"
	"github.com/mark3labs/swagger2ts/internal/render"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// Result is the outcome of one run. Text is set whenever generation
// succeeded, even if writing Out failed.
type Result struct {
	Text       string
	Functions  int
	Classes    int
	Interfaces int
	// Written is the file that received Text, empty when nothing was written.
	Written string
}

// Emit resolves opts, generates the text for doc and writes it to opts.Out
// when set.
func Emit(ctx context.Context, doc *spec.Document, opts config.Options) (*Result, error) {
	cfg, err := config.Resolve(opts)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collected := collector.Collect(doc, cfg)
	module := grouping.Build(doc, collected.Functions, cfg)

	g := &generator{
		r:         render.New(cfg.Render),
		funcs:     make(map[*collector.Function]string),
		declared:  make(map[string]struct{}),
		basePath:  doc.BasePath,
		dateStamp: stamp(cfg.Now),
	}
	text, err := g.run(doc, module)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Text:       text,
		Functions:  len(collected.Functions),
		Classes:    g.classes,
		Interfaces: len(g.interfaces),
	}
	cfg.Logger.Debug("generated", "functions", res.Functions, "classes", res.Classes, "interfaces", res.Interfaces)

	if cfg.Out == "" || cfg.DryRun {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := fsutil.WriteFile(cfg.Out, []byte(text), 0o644); err != nil {
		return res, fmt.Errorf("write %s: %w", cfg.Out, err)
	}
	res.Written = cfg.Out
	return res, nil
}

type generator struct {
	r          *render.Renderer
	funcs      map[*collector.Function]string
	declared   map[string]struct{}
	interfaces []string
	classes    int
	basePath   string
	dateStamp  string
}

func (g *generator) run(doc *spec.Document, module *grouping.Module) (string, error) {
	header, err := g.r.Render(render.KindHeader, render.HeaderParams{
		Title:    doc.Info.Title,
		Version:  doc.Info.Version,
		BasePath: doc.BasePath,
		Date:     g.dateStamp,
	})
	if err != nil {
		return "", err
	}

	var classes []string
	for _, c := range module.Classes {
		if len(c.Methods) == 0 {
			continue
		}
		text, err := g.class(c)
		if err != nil {
			return "", err
		}
		classes = append(classes, text)
	}
	g.classes = len(classes)

	body, err := g.r.Render(render.KindModule, render.ModuleParams{
		BasePath:   g.basePath,
		Date:       g.dateStamp,
		Interfaces: g.interfaces,
		Classes:    classes,
	})
	if err != nil {
		return "", err
	}
	parts := []string{header, body}

	if summary := module.Summary(); len(summary) > 0 {
		tags, err := g.r.Render(render.KindBody, render.BodyParams{Tags: tagParams(summary)})
		if err != nil {
			return "", err
		}
		parts = append(parts, tags)
	}
	return collapseBlankLines(strings.Join(parts, "\n")), nil
}

func (g *generator) class(c *grouping.Class) (string, error) {
	methods := make([]string, 0, len(c.Methods))
	for _, fn := range c.Methods {
		text, err := g.function(fn)
		if err != nil {
			return "", err
		}
		methods = append(methods, text)
	}
	return g.r.Render(render.KindClass, render.ClassParams{
		Name:        c.Name,
		Description: c.Description,
		Methods:     methods,
	})
}

// function renders fn once and hoists its declarations to module level. A
// declaration name already emitted is not emitted again.
func (g *generator) function(fn *collector.Function) (string, error) {
	if text, ok := g.funcs[fn]; ok {
		return text, nil
	}
	var decls []string
	for _, d := range fn.Interfaces {
		text, err := g.r.Render(render.KindInterface, render.InterfaceParams{
			Name:        d.Name,
			Description: d.Description,
			Field:       d.Field,
		})
		if err != nil {
			return "", err
		}
		decls = append(decls, text)
		if _, dup := g.declared[d.Name]; dup {
			continue
		}
		g.declared[d.Name] = struct{}{}
		g.interfaces = append(g.interfaces, text)
	}
	p := funcParams(fn, decls)
	p.RootBase = g.basePath == "" || g.basePath == "/"
	text, err := g.r.Render(render.KindFunc, p)
	if err != nil {
		return "", err
	}
	g.funcs[fn] = text
	return text, nil
}

func funcParams(fn *collector.Function, decls []string) render.FuncParams {
	p := render.FuncParams{
		Name:        fn.Name,
		Description: fn.Description,
		URL:         fn.URL,
		Method:      string(fn.Method),
		Interfaces:  decls,
	}
	p.Query = fn.Param(naming.Query)
	p.Path = fn.Param(naming.Path)
	p.Body = fn.Param(naming.Body)
	p.FormData = fn.Param(naming.FormData)
	p.Response = fn.Param(naming.Response)
	return p
}

func tagParams(summary []grouping.TagSummary) []render.TagParams {
	out := make([]render.TagParams, 0, len(summary))
	for _, s := range summary {
		tp := render.TagParams{Key: s.Key, Name: s.Name, Description: s.Description, APIs: []render.APIParams{}}
		for _, api := range s.APIs {
			tp.APIs = append(tp.APIs, render.APIParams{Name: api.Name, Description: api.Description})
		}
		out = append(out, tp)
	}
	return out
}

func stamp(now func() time.Time) string {
	if now == nil {
		return ""
	}
	return now().UTC().Format(time.RFC3339)
}

// collapseBlankLines reduces every run of blank lines to one. Lines holding
// only whitespace count as blank and are written empty. Trailing blank lines
// are dropped and the result ends with a single newline.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n") + "\n"
}
