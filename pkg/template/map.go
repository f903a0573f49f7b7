package template

import (
	"bytes"
	"encoding/json"
	"iter"

	"gopkg.in/yaml.v3"
)

// Map is a string-keyed map that remembers insertion order. Templates use it
// for object templates and the engine returns it for rendered objects, so
// output properties keep the order of the template keys.
//
// The zero value is an empty map ready to use. A Map is not safe for
// concurrent writes.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{}
}

// Set stores v under key and returns m so calls can be chained. Setting an
// existing key replaces its value and keeps its position.
func (m *Map) Set(key string, v any) *Map {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key. It reports whether the key was present.
func (m *Map) Delete(key string) bool {
	if !m.Has(key) {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// ToPlain converts m and any nested maps and slices into map[string]any
// and []any values. Order is lost.
func (m *Map) ToPlain() map[string]any {
	out := make(map[string]any, m.Len())
	for k, v := range m.All() {
		out[k] = Plain(v)
	}
	return out
}

// Plain converts a rendered value like ToPlain does. Values other than
// *Map and []any are returned unchanged.
func Plain(v any) any {
	switch v := v.(type) {
	case *Map:
		return v.ToPlain()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Plain(e)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (m *Map) UnmarshalJSON(data []byte) error {
	return m.decodeFrom(data)
}

// MarshalYAML encodes the map as a YAML mapping in insertion order.
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range m.All() {
		var key, val yaml.Node
		if err := key.Encode(k); err != nil {
			return nil, err
		}
		if err := val.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &val)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, keeping key order.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeNode(node, 0)
	if err != nil {
		return err
	}
	return m.assign(v)
}

func (m *Map) decodeFrom(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	return m.assign(v)
}

func (m *Map) assign(v any) error {
	src, ok := v.(*Map)
	if !ok {
		return &DecodeError{Reason: "expected an object"}
	}
	*m = *src
	return nil
}
