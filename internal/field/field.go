// Package field turns Swagger schemas into Field trees and Field trees into
// TypeScript type expressions.
package field

// Kind discriminates the Field variants.
type Kind int

const (
	KindPrimitive Kind = iota
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "unknown"
}

// Field is a normalized schema node. It is one of *Primitive, *Object or
// *Array; the set is closed.
type Field interface {
	Kind() Kind
	Meta() Common
	isField()
}

// Common carries what every variant has.
type Common struct {
	// Name is the property name, or the group name at the root.
	Name string
	// Type is an output type expression for primitives, "object" or "array"
	// otherwise.
	Type        string
	Description string
	Required    bool
}

// Primitive is a leaf: string, number, boolean, Blob, unknown or a literal union.
type Primitive struct {
	Common
}

// Object holds its properties in declaration order. Names are unique.
type Object struct {
	Common
	Properties []Field
}

// Array holds a single element field.
type Array struct {
	Common
	Items Field
}

func (*Primitive) Kind() Kind { return KindPrimitive }
func (*Object) Kind() Kind    { return KindObject }
func (*Array) Kind() Kind     { return KindArray }

func (p *Primitive) Meta() Common { return p.Common }
func (o *Object) Meta() Common    { return o.Common }
func (a *Array) Meta() Common     { return a.Common }

func (*Primitive) isField() {}
func (*Object) isField()    {}
func (*Array) isField()     {}

// Output type names.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeBlob    = "Blob"
	TypeUnknown = "unknown"
	TypeObject  = "object"
	TypeArray   = "array"
)
