package field

import (
	"fmt"
	"regexp"
	"strconv"
)

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Simplify renders f as an inline type expression when it is small enough.
// Primitives always simplify; arrays simplify when their items do; objects
// simplify only at the top level and only with zero or one property. Objects
// inside an object or an array never simplify.
func Simplify(f Field) (string, bool) {
	return simplify(f, false)
}

func simplify(f Field, nested bool) (string, bool) {
	switch v := f.(type) {
	case *Primitive:
		return v.Type, true
	case *Array:
		inner, ok := simplify(v.Items, true)
		if !ok {
			return "", false
		}
		return "Array<" + inner + ">", true
	case *Object:
		if nested {
			return "", false
		}
		switch len(v.Properties) {
		case 0:
			return "{}", true
		case 1:
			prop := v.Properties[0]
			inner, ok := simplify(prop, true)
			if !ok {
				return "", false
			}
			return fmt.Sprintf("{%s: %s}", QuoteKey(prop.Meta().Name), inner), true
		}
		return "", false
	}
	return "", false
}

// QuoteKey returns name as an object literal key, quoted unless it is a plain
// identifier.
func QuoteKey(name string) string {
	if identRe.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}
