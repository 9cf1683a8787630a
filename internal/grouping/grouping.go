// Package grouping assigns collected functions to classes by tag and builds
// the tag summary.
package grouping

import (
	"fmt"
	"strings"

	"github.com/mark3labs/swagger2ts/internal/collector"
	"github.com/mark3labs/swagger2ts/internal/config"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// Common names the class that holds untagged operations and operations
// whose tags are not declared. It always exists.
const Common = "common"

// Class is one output class. Methods are shared with every other class the
// function belongs to.
type Class struct {
	Name        string
	Description string
	Methods     []*collector.Function

	tags  []spec.Tag
	index map[*collector.Function]struct{}
}

func (c *Class) add(fn *collector.Function) {
	if _, ok := c.index[fn]; ok {
		return
	}
	c.index[fn] = struct{}{}
	c.Methods = append(c.Methods, fn)
}

// TagSummary describes the raw tags behind one class.
type TagSummary struct {
	Key         string
	Name        string
	Description string
	APIs        []API
}

type API struct {
	Name        string
	Description string
}

// Module is the grouping result: classes with Common first, then in the
// order their first tag was declared.
type Module struct {
	Classes []*Class
	// HasTags is false when the document declared no tags and the synthetic
	// common tag was used.
	HasTags bool

	byName  map[string]*Class
	records map[string]string
}

// Class returns the class named name.
func (m *Module) Class(name string) (*Class, bool) {
	c, ok := m.byName[name]
	return c, ok
}

// ClassFor returns the class name a raw tag resolves to.
func (m *Module) ClassFor(tag string) (string, bool) {
	name, ok := m.records[tag]
	return name, ok
}

// Build resolves the document tags into classes and assigns every function.
// A function with several resolved tags becomes a method of each class, at
// most once per class.
func Build(doc *spec.Document, functions []*collector.Function, cfg config.Resolved) *Module {
	m := &Module{
		byName:  make(map[string]*Class),
		records: map[string]string{Common: Common},
	}
	m.newClass(Common)

	var tags []spec.Tag
	if doc != nil {
		tags = doc.Tags
	}
	m.HasTags = len(tags) > 0
	if !m.HasTags {
		tags = []spec.Tag{{Name: Common}}
	}

	for i, tag := range tags {
		name, ok := m.records[tag.Name]
		if !ok {
			name, ok = cfg.TagMapper(tag.Name)
			if !ok || name == "" {
				name = fmt.Sprintf("tag%d", i)
			}
			m.records[tag.Name] = name
		}
		c, ok := m.byName[name]
		if !ok {
			c = m.newClass(name)
		}
		if m.HasTags {
			c.tags = append(c.tags, tag)
			c.Description = joinNonEmpty("\n", c.Description, strings.TrimSpace(tag.Name+" "+tag.Description))
		}
	}

	common := m.byName[Common]
	for _, fn := range functions {
		if len(fn.Tags) == 0 {
			common.add(fn)
			continue
		}
		for _, tag := range fn.Tags {
			name, ok := m.records[tag]
			if !ok {
				cfg.Logger.Debug("undeclared tag, using common", "tag", tag, "function", fn.Name)
				name = Common
			}
			m.byName[name].add(fn)
		}
	}
	return m
}

func (m *Module) newClass(name string) *Class {
	c := &Class{Name: name, index: make(map[*collector.Function]struct{})}
	m.byName[name] = c
	m.Classes = append(m.Classes, c)
	return c
}

// Summary lists every class with its raw tag names and descriptions joined by
// ", " and its methods, de-duplicated by name. It is empty when the document
// declared no tags.
func (m *Module) Summary() []TagSummary {
	if !m.HasTags {
		return nil
	}
	out := make([]TagSummary, 0, len(m.Classes))
	for _, c := range m.Classes {
		s := TagSummary{Key: c.Name}
		for _, t := range c.tags {
			s.Name = joinNonEmpty(", ", s.Name, t.Name)
			s.Description = joinNonEmpty(", ", s.Description, t.Description)
		}
		if s.Name == "" {
			s.Name = c.Name
		}
		seen := make(map[string]struct{}, len(c.Methods))
		for _, fn := range c.Methods {
			if _, dup := seen[fn.Name]; dup {
				continue
			}
			seen[fn.Name] = struct{}{}
			s.APIs = append(s.APIs, API{Name: fn.Name, Description: fn.Description})
		}
		out = append(out, s)
	}
	return out
}

func joinNonEmpty(sep, a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + sep + b
}
