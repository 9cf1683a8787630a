package spec

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// OrderedMap is a string-keyed map that remembers insertion order. It decodes
// from a YAML/JSON mapping keeping the document's key order.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// Set stores v under k. Re-setting an existing key keeps its position.
func (m *OrderedMap[V]) Set(k string, v V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *OrderedMap[V]) Get(k string) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (m *OrderedMap[V]) Keys() []string { return m.keys }

func (m *OrderedMap[V]) Len() int { return len(m.keys) }

func (m *OrderedMap[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var v V
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		m.Set(key, v)
	}
	return nil
}

// ExtensibleMap is an OrderedMap for objects that also allow "x-" vendor
// extensions next to their entries (paths, responses). Extension keys are
// not decoded; their names are kept in Extensions.
type ExtensibleMap[V any] struct {
	OrderedMap[V]
	Extensions []string
}

func (m *ExtensibleMap[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return m.OrderedMap.UnmarshalYAML(node)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if strings.HasPrefix(key, "x-") {
			m.Extensions = append(m.Extensions, key)
			continue
		}
		var v V
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		m.Set(key, v)
	}
	return nil
}
