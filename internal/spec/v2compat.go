package spec

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// preprocessV2ForCompatibility rewrites Swagger 2.0 operations that
// kin-openapi cannot convert to v3:
//   - several body parameters are merged into one body parameter whose schema
//     is an object with a property per original parameter;
//   - body parameters mixed with formData parameters become formData
//     parameters and the operation consumes multipart/form-data.
//
// The rewrite works on the YAML node tree so key order survives. On any error
// the input is returned unchanged with modified=false.
func preprocessV2ForCompatibility(data []byte) ([]byte, bool, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return data, false, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return data, false, nil
	}
	paths := mappingValue(root.Content[0], "paths")
	if paths == nil || paths.Kind != yaml.MappingNode {
		return data, false, nil
	}

	modified := false
	for i := 1; i < len(paths.Content); i += 2 {
		item := paths.Content[i]
		if item.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j+1 < len(item.Content); j += 2 {
			switch strings.ToLower(item.Content[j].Value) {
			case "get", "post", "put", "delete", "patch", "options", "head":
			default:
				continue
			}
			if rewriteOperation(item.Content[j+1]) {
				modified = true
			}
		}
	}

	if !modified {
		return data, false, nil
	}
	out, err := yaml.Marshal(&root)
	if err != nil {
		return data, false, err
	}
	return out, true, nil
}

func rewriteOperation(op *yaml.Node) bool {
	if op.Kind != yaml.MappingNode {
		return false
	}
	params := mappingValue(op, "parameters")
	if params == nil || params.Kind != yaml.SequenceNode {
		return false
	}

	bodyCount := 0
	hasFormData := false
	for _, p := range params.Content {
		switch strings.ToLower(scalarValue(p, "in")) {
		case "body":
			bodyCount++
		case "formdata":
			hasFormData = true
		}
	}
	if bodyCount == 0 {
		return false
	}

	if hasFormData {
		for i, p := range params.Content {
			if strings.EqualFold(scalarValue(p, "in"), "body") {
				params.Content[i] = formDataFromBodyParam(p)
			}
		}
		consumes := mappingValue(op, "consumes")
		if consumes == nil {
			consumes = &yaml.Node{Kind: yaml.SequenceNode}
			setMappingValue(op, "consumes", consumes)
		}
		if !sequenceContains(consumes, "multipart/form-data") {
			consumes.Content = append(consumes.Content, stringNode("multipart/form-data"))
		}
		return true
	}

	if bodyCount < 2 {
		return false
	}

	props := &yaml.Node{Kind: yaml.MappingNode}
	required := &yaml.Node{Kind: yaml.SequenceNode}
	rest := make([]*yaml.Node, 0, len(params.Content))
	for _, p := range params.Content {
		if !strings.EqualFold(scalarValue(p, "in"), "body") {
			rest = append(rest, p)
			continue
		}
		name := scalarValue(p, "name")
		if name == "" {
			name = "field"
		}
		schema := schemaFromParam(p)
		if schema == nil {
			schema = mappingNode("type", stringNode("string"))
		}
		props.Content = append(props.Content, stringNode(name), schema)
		if scalarValue(p, "required") == "true" {
			required.Content = append(required.Content, stringNode(name))
		}
	}
	bodySchema := mappingNode("type", stringNode("object"), "properties", props)
	if len(required.Content) > 0 {
		setMappingValue(bodySchema, "required", required)
	}
	merged := mappingNode("in", stringNode("body"), "name", stringNode("body"), "schema", bodySchema)
	params.Content = append([]*yaml.Node{merged}, rest...)
	return true
}

func schemaFromParam(p *yaml.Node) *yaml.Node {
	if s := mappingValue(p, "schema"); s != nil && s.Kind == yaml.MappingNode {
		return s
	}
	t := scalarValue(p, "type")
	if t == "" {
		return nil
	}
	out := mappingNode("type", stringNode(t))
	if items := mappingValue(p, "items"); items != nil {
		setMappingValue(out, "items", items)
	}
	if f := scalarValue(p, "format"); f != "" {
		setMappingValue(out, "format", stringNode(f))
	}
	return out
}

func formDataFromBodyParam(p *yaml.Node) *yaml.Node {
	name := scalarValue(p, "name")
	if name == "" {
		name = "field"
	}
	out := mappingNode("in", stringNode("formData"), "name", stringNode(name))
	if desc := scalarValue(p, "description"); desc != "" {
		setMappingValue(out, "description", stringNode(desc))
	}
	if req := mappingValue(p, "required"); req != nil {
		setMappingValue(out, "required", req)
	}

	// formData cannot carry a schema; lift its type, falling back to string.
	src := p
	if s := mappingValue(p, "schema"); s != nil && s.Kind == yaml.MappingNode {
		src = s
	}
	typ := scalarValue(src, "type")
	if typ == "" {
		typ = "string"
	}
	setMappingValue(out, "type", stringNode(typ))
	if items := mappingValue(src, "items"); items != nil {
		setMappingValue(out, "items", items)
	}
	if f := scalarValue(src, "format"); f != "" {
		setMappingValue(out, "format", stringNode(f))
	}
	return out
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func setMappingValue(m *yaml.Node, key string, v *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = v
			return
		}
	}
	m.Content = append(m.Content, stringNode(key), v)
}

func scalarValue(m *yaml.Node, key string) string {
	v := mappingValue(m, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return ""
	}
	return v.Value
}

func sequenceContains(seq *yaml.Node, want string) bool {
	for _, n := range seq.Content {
		if n.Kind == yaml.ScalarNode && n.Value == want {
			return true
		}
	}
	return false
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// mappingNode builds a mapping from alternating key, *yaml.Node arguments.
func mappingNode(kv ...any) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(kv); i += 2 {
		m.Content = append(m.Content, stringNode(kv[i].(string)), kv[i+1].(*yaml.Node))
	}
	return m
}
