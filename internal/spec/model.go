package spec

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the subset of a Swagger 2.0 document the generator reads.
// Maps that carry declaration order (paths, properties, responses) are
// decoded into OrderedMap so generation follows the source order. Vendor
// extensions under paths and responses are skipped.
type Document struct {
	Swagger     string                   `yaml:"swagger"`
	Info        Info                     `yaml:"info"`
	Host        string                   `yaml:"host,omitempty"`
	BasePath    string                   `yaml:"basePath,omitempty"`
	Tags        []Tag                    `yaml:"tags,omitempty"`
	Paths       ExtensibleMap[*PathItem] `yaml:"paths"`
	Definitions OrderedMap[*Schema]      `yaml:"definitions,omitempty"`
}

type Info struct {
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
}

// Tag is a global tag declaration.
type Tag struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// HTTPMethod is one of the operation keys the generator handles.
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "get"
	MethodPost   HTTPMethod = "post"
	MethodPut    HTTPMethod = "put"
	MethodPatch  HTTPMethod = "patch"
	MethodDelete HTTPMethod = "delete"
)

// ParseMethod reports whether s (any case) names a supported method.
func ParseMethod(s string) (HTTPMethod, bool) {
	switch m := HTTPMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return m, true
	}
	return "", false
}

// MethodOperation pairs an operation with the method key it was declared under.
type MethodOperation struct {
	Method    HTTPMethod
	Operation *Operation
}

// PathItem holds the operations of one path in declaration order plus the
// path-level parameters shared by all of them. Keys other than the supported
// methods and "parameters" (head, options, x-*) are ignored.
type PathItem struct {
	Parameters []*Parameter
	Operations []MethodOperation
}

// Operation returns the operation declared under m, if any.
func (p *PathItem) Operation(m HTTPMethod) *Operation {
	if p == nil {
		return nil
	}
	for _, mo := range p.Operations {
		if mo.Method == m {
			return mo.Operation
		}
	}
	return nil
}

func (p *PathItem) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: path item must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		if key == "parameters" {
			if err := value.Decode(&p.Parameters); err != nil {
				return err
			}
			continue
		}
		m, ok := ParseMethod(key)
		if !ok {
			continue
		}
		var op Operation
		if err := value.Decode(&op); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.Operations = append(p.Operations, MethodOperation{Method: m, Operation: &op})
	}
	return nil
}

type Operation struct {
	Tags        []string                 `yaml:"tags,omitempty"`
	Summary     string                   `yaml:"summary,omitempty"`
	Description string                   `yaml:"description,omitempty"`
	OperationID string                   `yaml:"operationId,omitempty"`
	Consumes    []string                 `yaml:"consumes,omitempty"`
	Parameters  []*Parameter             `yaml:"parameters,omitempty"`
	Responses   ExtensibleMap[*Response] `yaml:"responses,omitempty"`
	Deprecated  bool                     `yaml:"deprecated,omitempty"`
}

// ParameterLocation is the value of a parameter's "in" key.
type ParameterLocation string

const (
	InQuery    ParameterLocation = "query"
	InPath     ParameterLocation = "path"
	InBody     ParameterLocation = "body"
	InFormData ParameterLocation = "formData"
	InHeader   ParameterLocation = "header"
)

// Parameter is a Swagger 2.0 parameter. Non-body parameters carry their type
// inline (Type, Enum, Items); body parameters carry a Schema.
type Parameter struct {
	Ref         string            `yaml:"$ref,omitempty"`
	Name        string            `yaml:"name"`
	In          ParameterLocation `yaml:"in"`
	Description string            `yaml:"description,omitempty"`
	Required    bool              `yaml:"required,omitempty"`
	Type        string            `yaml:"type,omitempty"`
	Format      string            `yaml:"format,omitempty"`
	Enum        []any             `yaml:"enum,omitempty"`
	Items       *Items            `yaml:"items,omitempty"`
	Schema      *Schema           `yaml:"schema,omitempty"`
}

// AsSchema views a non-body parameter as a schema node.
func (p *Parameter) AsSchema() *Schema {
	return &Schema{
		Ref:         p.Ref,
		Type:        p.Type,
		Format:      p.Format,
		Description: p.Description,
		Enum:        p.Enum,
		Items:       p.Items,
	}
}

type Response struct {
	Ref         string  `yaml:"$ref,omitempty"`
	Description string  `yaml:"description"`
	Schema      *Schema `yaml:"schema,omitempty"`
}

// Schema is a Swagger 2.0 schema object, limited to what type generation
// uses. Composition keywords are not modeled.
type Schema struct {
	Ref         string              `yaml:"$ref,omitempty"`
	Type        string              `yaml:"type,omitempty"`
	Format      string              `yaml:"format,omitempty"`
	Description string              `yaml:"description,omitempty"`
	Enum        []any               `yaml:"enum,omitempty"`
	Items       *Items              `yaml:"items,omitempty"`
	Properties  OrderedMap[*Schema] `yaml:"properties,omitempty"`
	Required    []string            `yaml:"required,omitempty"`
}

// IsRequired reports whether name is listed in s.Required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Items is the "items" keyword. A sequence (tuple form) is recorded as Tuple
// with no single schema.
type Items struct {
	Schema *Schema
	Tuple  bool
}

// ItemsOf wraps s as a single-schema items value.
func ItemsOf(s *Schema) *Items { return &Items{Schema: s} }

func (it *Items) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		it.Tuple = true
		return nil
	}
	var s Schema
	if err := node.Decode(&s); err != nil {
		return err
	}
	it.Schema = &s
	return nil
}
