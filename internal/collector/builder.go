package collector

import (
	"github.com/mark3labs/swagger2ts/internal/field"
	"github.com/mark3labs/swagger2ts/internal/naming"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// functionBuilder accumulates the groups of one operation. build is called
// once, after every group has been added.
type functionBuilder struct {
	name        string
	description string
	url         string
	method      spec.HTTPMethod
	tags        []string
	params      map[naming.InterfaceType]string
	decls       []Declaration
}

func newFunctionBuilder(name, url string, method spec.HTTPMethod, tags []string, description string) *functionBuilder {
	return &functionBuilder{
		name:        name,
		description: description,
		url:         url,
		method:      method,
		tags:        tags,
		params:      make(map[naming.InterfaceType]string),
	}
}

// add records group t. A group that simplifies is used inline; otherwise a
// declaration named name is emitted and referenced.
func (b *functionBuilder) add(t naming.InterfaceType, name string, f field.Field) {
	if expr, ok := field.Simplify(f); ok {
		b.params[t] = expr
		return
	}
	b.params[t] = name
	b.decls = append(b.decls, Declaration{
		Type:        t,
		Name:        name,
		Description: b.description,
		Field:       f,
	})
}

func (b *functionBuilder) build() *Function {
	return &Function{
		Name:        b.name,
		Description: b.description,
		URL:         b.url,
		Method:      b.method,
		Tags:        b.tags,
		Params:      b.params,
		Interfaces:  b.decls,
	}
}
