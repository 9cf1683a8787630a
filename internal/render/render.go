// Package render turns generator data into TypeScript text through
// text/template templates. Every template kind has an embedded default that
// callers can override by file.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Kind names a template.
type Kind string

const (
	KindHeader    Kind = "header"
	KindInterface Kind = "interface"
	KindFunc      Kind = "func"
	KindClass     Kind = "class"
	KindModule    Kind = "module"
	KindBody      Kind = "body"
)

// Kinds lists every template kind in rendering order.
var Kinds = []Kind{KindHeader, KindInterface, KindFunc, KindClass, KindModule, KindBody}

func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

// Ext is the file extension looked up under a template root.
const Ext = ".tmpl"

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// Options selects template sources. Templates[kind] wins over
// TemplateRoot/<kind>.tmpl, which wins over the embedded default.
type Options struct {
	TemplateRoot string
	Templates    map[Kind]string
}

// Renderer renders parameters with cached, parsed templates. It is not safe
// for concurrent use.
type Renderer struct {
	opts  Options
	cache map[Kind]*template.Template
}

func New(opts Options) *Renderer {
	return &Renderer{opts: opts, cache: make(map[Kind]*template.Template, len(Kinds))}
}

// Render executes the template for kind with params.
func (r *Renderer) Render(kind Kind, params any) (string, error) {
	tpl, err := r.template(kind)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", kind, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("render %s: %w", kind, err)
	}
	return buf.String(), nil
}

func (r *Renderer) template(kind Kind) (*template.Template, error) {
	if tpl, ok := r.cache[kind]; ok {
		return tpl, nil
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown template kind %q", kind)
	}
	src, err := r.source(kind)
	if err != nil {
		return nil, err
	}
	tpl, err := template.New(string(kind)).Funcs(FuncMap()).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	r.cache[kind] = tpl
	return tpl, nil
}

func (r *Renderer) source(kind Kind) ([]byte, error) {
	if p := r.opts.Templates[kind]; p != "" {
		return os.ReadFile(p)
	}
	if r.opts.TemplateRoot != "" {
		p := filepath.Join(r.opts.TemplateRoot, string(kind)+Ext)
		b, err := os.ReadFile(p)
		if err == nil {
			return b, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return defaultTemplates.ReadFile("templates/" + string(kind) + Ext)
}

// FuncMap is the function set available to templates: sprig plus the
// TypeScript helpers.
func FuncMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["tsType"] = TSType
	fm["jsdoc"] = JSDoc
	fm["propName"] = PropName
	return fm
}
