package render

import (
	"strings"

	"github.com/mark3labs/swagger2ts/internal/field"
)

const indentUnit = "  "

// TSType prints f as a TypeScript type. Objects print as multi-line literal
// types; nested lines are indented relative to the opening brace.
func TSType(f field.Field) string {
	var b strings.Builder
	writeType(&b, f, 0)
	return b.String()
}

func writeType(b *strings.Builder, f field.Field, depth int) {
	switch v := f.(type) {
	case *field.Primitive:
		b.WriteString(v.Type)
	case *field.Array:
		b.WriteString("Array<")
		writeType(b, v.Items, depth)
		b.WriteString(">")
	case *field.Object:
		if len(v.Properties) == 0 {
			b.WriteString("{}")
			return
		}
		pad := strings.Repeat(indentUnit, depth+1)
		b.WriteString("{\n")
		for _, p := range v.Properties {
			meta := p.Meta()
			if doc := JSDoc(meta.Description); doc != "" {
				b.WriteString(indentLines(doc, pad))
				b.WriteString("\n")
			}
			b.WriteString(pad)
			b.WriteString(PropName(meta.Name))
			if !meta.Required {
				b.WriteString("?")
			}
			b.WriteString(": ")
			writeType(b, p, depth+1)
			b.WriteString(";\n")
		}
		b.WriteString(strings.Repeat(indentUnit, depth))
		b.WriteString("}")
	default:
		b.WriteString(field.TypeUnknown)
	}
}

// PropName quotes name unless it is a plain identifier.
func PropName(name string) string { return field.QuoteKey(name) }

// JSDoc formats text as a doc comment. Empty text yields "".
func JSDoc(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "*/", "*\\/")
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return "/** " + lines[0] + " */"
	}
	var b strings.Builder
	b.WriteString("/**\n")
	for _, l := range lines {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			b.WriteString(" *\n")
			continue
		}
		b.WriteString(" * ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString(" */")
	return b.String()
}

func indentLines(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
