package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTemplate is matched by every template decoding failure.
var ErrInvalidTemplate = errors.New("invalid template")

// maxDecodeDepth bounds nesting while decoding, including through YAML
// aliases.
const maxDecodeDepth = 256

// DecodeError describes why a template document could not be decoded.
type DecodeError struct {
	Line   int
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid template at line %d: %s", e.Line, e.Reason)
	}
	return "invalid template: " + e.Reason
}

// Unwrap returns the underlying parser error, if any.
func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidTemplate, e.Err}
	}
	return []error{ErrInvalidTemplate}
}

// Decode parses a JSON or YAML document into a template. Objects become
// *Map values in document order, arrays []any, and scalars their natural
// Go types (integers, float64, bool, string, nil).
func Decode(data []byte) (any, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		v, err := decodeJSON(trimmed)
		if err == nil {
			return v, nil
		}
		// YAML flow collections also start with a bracket
		if v, yerr := decodeYAML(data); yerr == nil {
			return v, nil
		}
		return nil, err
	}
	return decodeYAML(data)
}

func decodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Reason: err.Error(), Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, &DecodeError{Reason: "empty document"}
	}
	return decodeNode(&doc, 0)
}

// DecodeFile reads and decodes a template file.
func DecodeFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	v, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func decodeNode(n *yaml.Node, depth int) (any, error) {
	if depth > maxDecodeDepth {
		return nil, &DecodeError{Line: n.Line, Reason: "document nested too deeply"}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return decodeNode(n.Content[0], depth+1)

	case yaml.AliasNode:
		return decodeNode(n.Alias, depth+1)

	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, &DecodeError{Line: k.Line, Reason: "object keys must be scalars"}
			}
			v, err := decodeNode(n.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			m.Set(k.Value, v)
		}
		return m, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeNode(c, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, &DecodeError{Line: n.Line, Reason: err.Error(), Err: err}
		}
		return v, nil
	}
	return nil, &DecodeError{Line: n.Line, Reason: fmt.Sprintf("unsupported node kind %d", n.Kind)}
}

// decodeJSON streams JSON tokens so object order survives. Integral numbers
// become int64, all others float64.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec, 0)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &DecodeError{Reason: "trailing data after JSON value"}
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder, depth int) (any, error) {
	if depth > maxDecodeDepth {
		return nil, &DecodeError{Reason: "document nested too deeply"}
	}
	tok, err := dec.Token()
	if err != nil {
		return nil, jsonError(dec, err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, jsonError(dec, err)
				}
				key, ok := kt.(string)
				if !ok {
					return nil, &DecodeError{Reason: "object keys must be strings"}
				}
				v, err := decodeJSONValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, jsonError(dec, err)
			}
			return m, nil
		case '[':
			out := []any{}
			for dec.More() {
				v, err := decodeJSONValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, jsonError(dec, err)
			}
			return out, nil
		}
		return nil, &DecodeError{Reason: fmt.Sprintf("unexpected %q", t)}
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, &DecodeError{Reason: err.Error(), Err: err}
		}
		return f, nil
	default:
		// string, bool or nil
		return t, nil
	}
}

func jsonError(dec *json.Decoder, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return &DecodeError{Reason: fmt.Sprintf("%v (offset %d)", err, dec.InputOffset()), Err: err}
}
