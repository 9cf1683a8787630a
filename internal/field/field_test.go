package field

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swagger2ts/internal/logging"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

func schemaFromYAML(t *testing.T, src string) *spec.Schema {
	t.Helper()
	var s spec.Schema
	require.NoError(t, yaml.Unmarshal([]byte(src), &s))
	return &s
}

func TestNormalize_PrimitiveMapping(t *testing.T) {
	n := NewNormalizer(nil)
	cases := map[string]string{
		"string":  TypeString,
		"integer": TypeNumber,
		"number":  TypeNumber,
		"boolean": TypeBoolean,
		"file":    TypeBlob,
		"":        TypeUnknown,
		"null":    TypeUnknown,
	}
	for in, want := range cases {
		f, ok := n.Normalize(&spec.Schema{Type: in, Description: "d"}, "")
		require.True(t, ok, in)
		p, isPrim := f.(*Primitive)
		require.True(t, isPrim, in)
		assert.Equal(t, want, p.Type, in)
		assert.Equal(t, RootName, p.Name)
		assert.Equal(t, "d", p.Description)
	}
}

func TestNormalize_EnumUnions(t *testing.T) {
	n := NewNormalizer(nil)
	cases := []struct {
		src  string
		want string
	}{
		{`{type: string, enum: [a, b, a]}`, `"a"|"b"`},
		{`{type: integer, enum: [3, 1, 3, 2]}`, `3|1|2`},
		{`{type: number, enum: [1.5, 2]}`, `1.5|2`},
		{`{type: boolean, enum: [true, false, true]}`, `true|false`},
		{`{type: boolean, enum: [1, 0, ""]}`, `true|false`},
		{`{enum: [x, y]}`, `x|y`},
		{`{type: string, enum: [say "hi"]}`, `"say \"hi\""`},
	}
	for _, tc := range cases {
		f, ok := n.Normalize(schemaFromYAML(t, tc.src), "e")
		require.True(t, ok)
		assert.Equal(t, tc.want, f.Meta().Type, tc.src)
	}
}

func TestNormalize_ObjectOrderAndRequired(t *testing.T) {
	n := NewNormalizer(nil)
	s := schemaFromYAML(t, `
type: object
required: [zeta]
properties:
  zeta: { type: string, description: last letter }
  alpha:
    type: array
    items: { type: integer }
  nested:
    type: object
`)
	f, ok := n.Normalize(s, "")
	require.True(t, ok)
	obj, isObj := f.(*Object)
	require.True(t, isObj)
	require.Len(t, obj.Properties, 3)

	assert.Equal(t, "zeta", obj.Properties[0].Meta().Name)
	assert.True(t, obj.Properties[0].Meta().Required)
	assert.Equal(t, "last letter", obj.Properties[0].Meta().Description)

	arr, isArr := obj.Properties[1].(*Array)
	require.True(t, isArr)
	assert.False(t, arr.Required)
	assert.Equal(t, TypeNumber, arr.Items.Meta().Type)

	empty, isObj := obj.Properties[2].(*Object)
	require.True(t, isObj)
	assert.Empty(t, empty.Properties)
}

func TestNormalize_RefSkipsContainingField(t *testing.T) {
	var buf bytes.Buffer
	n := NewNormalizer(logging.NewText(&buf, false))
	s := schemaFromYAML(t, `
type: object
properties:
  owner: { $ref: '#/definitions/User' }
  tags:
    type: array
    items: { $ref: '#/definitions/Tag' }
  name: { type: string }
`)
	f, ok := n.Normalize(s, "")
	require.True(t, ok)
	obj := f.(*Object)
	require.Len(t, obj.Properties, 1)
	assert.Equal(t, "name", obj.Properties[0].Meta().Name)
	assert.Contains(t, buf.String(), "root.owner")
	assert.Contains(t, buf.String(), "root.tags[]")

	_, ok = n.Normalize(&spec.Schema{Ref: "#/definitions/User"}, "")
	assert.False(t, ok)
}

func TestNormalize_ArrayItemsEdgeCases(t *testing.T) {
	var buf bytes.Buffer
	n := NewNormalizer(logging.NewText(&buf, false))

	f, ok := n.Normalize(schemaFromYAML(t, `{type: array, items: [{type: string}, {type: integer}]}`), "")
	require.True(t, ok)
	assert.Equal(t, TypeUnknown, f.(*Array).Items.Meta().Type)
	assert.Contains(t, buf.String(), "tuple items")

	f, ok = n.Normalize(&spec.Schema{Type: "array"}, "")
	require.True(t, ok)
	assert.Equal(t, TypeUnknown, f.(*Array).Items.Meta().Type)
}

func TestNormalizeParameters(t *testing.T) {
	n := NewNormalizer(nil)
	params := []*spec.Parameter{
		{Name: "id", In: spec.InPath, Type: "string", Required: true},
		{Ref: "#/parameters/Shared"},
		{Name: "kind", In: spec.InQuery, Type: "string", Enum: []any{"a", "b"}},
		{Name: "file", In: spec.InFormData, Type: "file"},
	}
	obj := n.NormalizeParameters(params, "root")
	require.Len(t, obj.Properties, 3)
	assert.Equal(t, TypeString, obj.Properties[0].Meta().Type)
	assert.True(t, obj.Properties[0].Meta().Required)
	assert.Equal(t, `"a"|"b"`, obj.Properties[1].Meta().Type)
	assert.Equal(t, TypeBlob, obj.Properties[2].Meta().Type)
}

func TestSimplify(t *testing.T) {
	str := &Primitive{Common{Name: "id", Type: TypeString}}
	single := &Object{Common: Common{Name: "root", Type: TypeObject}, Properties: []Field{str}}
	two := &Object{Common: Common{Name: "root", Type: TypeObject}, Properties: []Field{str, str}}

	cases := []struct {
		name string
		in   Field
		want string
		ok   bool
	}{
		{"primitive", str, "string", true},
		{"empty object", &Object{Common: Common{Type: TypeObject}}, "{}", true},
		{"single property", single, "{id: string}", true},
		{"two properties", two, "", false},
		{"array of primitive", &Array{Common: Common{Type: TypeArray}, Items: str}, "Array<string>", true},
		{"array of object", &Array{Common: Common{Type: TypeArray}, Items: single}, "", false},
		{"nested array", &Array{Items: &Array{Items: str}}, "Array<Array<string>>", true},
		{"object wrapping object", &Object{Properties: []Field{single}}, "", false},
		{"object wrapping array", &Object{Properties: []Field{&Array{Common: Common{Name: "ids"}, Items: str}}}, "{ids: Array<string>}", true},
		{"non-identifier key", &Object{Properties: []Field{&Primitive{Common{Name: "page-size", Type: TypeNumber}}}}, `{"page-size": number}`, true},
	}
	for _, tc := range cases {
		got, ok := Simplify(tc.in)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestQuoteKey(t *testing.T) {
	assert.Equal(t, "id", QuoteKey("id"))
	assert.Equal(t, "$ref_1", QuoteKey("$ref_1"))
	assert.Equal(t, `"page-size"`, QuoteKey("page-size"))
	assert.Equal(t, `"1st"`, QuoteKey("1st"))
	assert.Equal(t, `""`, QuoteKey(""))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "primitive", KindPrimitive.String())
	assert.Equal(t, "object", (&Object{}).Kind().String())
	assert.Equal(t, "array", (&Array{}).Kind().String())
}
