package field

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/swagger2ts/internal/logging"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// RootName names the root field when the caller has no better name.
const RootName = "root"

// Normalizer converts schemas into Field trees. Unsupported constructs are
// reported through Logger and skipped.
type Normalizer struct {
	Logger logging.Logger
}

// NewNormalizer returns a Normalizer logging to l (nil discards).
func NewNormalizer(l logging.Logger) *Normalizer {
	return &Normalizer{Logger: logging.OrNop(l)}
}

// Normalize converts schema into a Field named name ("root" when empty).
// ok is false when the schema itself is a $ref; the caller must skip it.
// References deeper in the tree drop only the field that contains them.
func (n *Normalizer) Normalize(schema *spec.Schema, name string) (Field, bool) {
	if name == "" {
		name = RootName
	}
	if schema == nil {
		return &Primitive{Common{Name: name, Type: TypeUnknown}}, true
	}
	return n.normalize(schema, name, name, false)
}

// NormalizeParameters builds an object field from non-body parameters, each
// viewed as a schema node. Parameters carrying a $ref are skipped.
func (n *Normalizer) NormalizeParameters(params []*spec.Parameter, name string) *Object {
	root := &Object{Common: Common{Name: name, Type: TypeObject}}
	for _, p := range params {
		if p.Ref != "" {
			n.logger().Warn("unsupported $ref parameter skipped", "ref", p.Ref)
			continue
		}
		f, ok := n.normalize(p.AsSchema(), p.Name, name+"."+p.Name, p.Required)
		if !ok {
			continue
		}
		root.Properties = append(root.Properties, f)
	}
	return root
}

func (n *Normalizer) normalize(s *spec.Schema, name, path string, required bool) (Field, bool) {
	if s.Ref != "" {
		n.logger().Warn("unsupported $ref skipped", "field", path, "ref", s.Ref)
		return nil, false
	}
	common := Common{Name: name, Description: s.Description, Required: required}

	switch s.Type {
	case "object":
		common.Type = TypeObject
		obj := &Object{Common: common}
		for _, key := range s.Properties.Keys() {
			child, _ := s.Properties.Get(key)
			if child == nil {
				child = &spec.Schema{}
			}
			f, ok := n.normalize(child, key, path+"."+key, s.IsRequired(key))
			if !ok {
				continue
			}
			obj.Properties = append(obj.Properties, f)
		}
		return obj, true
	case "array":
		common.Type = TypeArray
		itemPath := path + "[]"
		var items Field
		switch {
		case s.Items == nil || s.Items.Schema == nil:
			if s.Items != nil && s.Items.Tuple {
				n.logger().Warn("tuple items unsupported, treated as unknown", "field", path)
			}
			items = &Primitive{Common{Name: "items", Type: TypeUnknown}}
		default:
			f, ok := n.normalize(s.Items.Schema, "items", itemPath, false)
			if !ok {
				return nil, false
			}
			items = f
		}
		return &Array{Common: common, Items: items}, true
	}

	if len(s.Enum) > 0 {
		common.Type = enumType(s.Type, s.Enum)
		return &Primitive{common}, true
	}
	common.Type = primitiveType(s.Type)
	return &Primitive{common}, true
}

func (n *Normalizer) logger() logging.Logger { return logging.OrNop(n.Logger) }

func primitiveType(t string) string {
	switch t {
	case "string":
		return TypeString
	case "integer", "number":
		return TypeNumber
	case "boolean":
		return TypeBoolean
	case "file":
		return TypeBlob
	}
	return TypeUnknown
}

// enumType renders values as a literal union, de-duplicated by rendered
// literal and kept in first-occurrence order.
func enumType(t string, values []any) string {
	seen := make(map[string]struct{}, len(values))
	parts := make([]string, 0, len(values))
	for _, v := range values {
		lit := enumLiteral(t, v)
		if _, dup := seen[lit]; dup {
			continue
		}
		seen[lit] = struct{}{}
		parts = append(parts, lit)
	}
	return strings.Join(parts, "|")
}

func enumLiteral(t string, v any) string {
	if v == nil {
		return "null"
	}
	switch t {
	case "string":
		return strconv.Quote(fmt.Sprint(v))
	case "integer", "number":
		return numberLiteral(v)
	case "boolean":
		if truthy(v) {
			return "true"
		}
		return "false"
	}
	return fmt.Sprint(v)
}

func numberLiteral(v any) string {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return strings.TrimSpace(x)
	}
	return fmt.Sprint(v)
}

// truthy follows the target language's truthiness for enum members declared
// under a boolean type.
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case uint64:
		return x != 0
	case float64:
		return x != 0
	}
	return true
}
