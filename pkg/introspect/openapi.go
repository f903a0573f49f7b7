package introspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/mockgen/pkg/template"
)

// OpenAPI derives a template from a component schema of an OpenAPI 3
// document. Schemas may carry the x-mock-placeholder and x-mock-rule
// extensions.
type OpenAPI struct {
	// Component names the schema under components.schemas.
	Component string
}

// ErrComponentNotFound is returned when the document has no schema with
// the requested name.
var ErrComponentNotFound = errors.New("component schema not found")

// Template derives a template from source, an OpenAPI document given as
// []byte, string or io.Reader, or an already loaded *openapi3.T.
func (o OpenAPI) Template(source any, cfg Config) (any, error) {
	cfg, err := cfg.prepare()
	if err != nil {
		return nil, err
	}
	doc, err := loadOpenAPI(source)
	if err != nil {
		return nil, err
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, o.Component)
	}
	ref, ok := doc.Components.Schemas[o.Component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, o.Component)
	}
	w := &openAPIWalker{cfg: cfg, visiting: make(map[*openapi3.Schema]bool)}
	_, v, _, err := w.value(ref.Value, "", "", 0, true)
	return v, err
}

// ComponentNames lists the schema names of an OpenAPI document.
func ComponentNames(source any) ([]string, error) {
	doc, err := loadOpenAPI(source)
	if err != nil {
		return nil, err
	}
	if doc.Components == nil {
		return nil, nil
	}
	names := make([]string, 0, len(doc.Components.Schemas))
	for n := range doc.Components.Schemas {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func loadOpenAPI(source any) (*openapi3.T, error) {
	var data []byte
	switch s := source.(type) {
	case *openapi3.T:
		return s, nil
	case []byte:
		data = s
	case string:
		data = []byte(s)
	case io.Reader:
		b, err := io.ReadAll(s)
		if err != nil {
			return nil, fmt.Errorf("read OpenAPI document: %w", err)
		}
		data = b
	default:
		return nil, fmt.Errorf("introspect: unsupported OpenAPI source %T", source)
	}

	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	return doc, nil
}

type openAPIWalker struct {
	cfg      Config
	visiting map[*openapi3.Schema]bool
}

func (w *openAPIWalker) value(s *openapi3.Schema, name, path string, depth int, elem bool) (string, any, bool, error) {
	if s == nil {
		return name, nil, true, nil
	}
	if w.visiting[s] {
		return "", nil, false, nil
	}
	w.visiting[s] = true
	defer delete(w.visiting, s)

	h := hints{
		placeholder: extensionString(s.Extensions, KeywordPlaceholder),
		rule:        extensionString(s.Extensions, KeywordRule),
	}

	if len(s.Enum) > 0 {
		l := h.apply(newLeaf(kindString))
		l.enum = s.Enum
		return l.place(name, path, elem)
	}

	switch openAPIType(s) {
	case "object":
		if h.placeholder != "" {
			return h.apply(newLeaf(kindString)).place(name, path, elem)
		}
		if depth > 0 && depth >= w.cfg.MaxDepth {
			return "", nil, false, nil
		}
		obj, err := w.object(s, path, depth)
		if err != nil {
			return "", nil, false, err
		}
		return name, obj, true, nil

	case "array":
		return w.array(s, h, name, path, depth)

	case "integer":
		l := h.apply(newLeaf(kindInt))
		l.min, l.max = s.Min, s.Max
		return l.place(name, path, elem)

	case "number":
		l := h.apply(newLeaf(kindFloat))
		l.min, l.max = s.Min, s.Max
		return l.place(name, path, elem)

	case "boolean":
		return h.apply(newLeaf(kindBool)).place(name, path, elem)

	case "null":
		return name, nil, true, nil
	}

	l := h.apply(newLeaf(kindString))
	l.format = s.Format
	l.pattern = s.Pattern
	if s.MinLength > 0 {
		l.minLen = int(s.MinLength)
	}
	if s.MaxLength != nil {
		l.maxLen = int(*s.MaxLength)
	}
	return l.place(name, path, elem)
}

func (w *openAPIWalker) object(s *openapi3.Schema, path string, depth int) (*template.Map, error) {
	props := make(map[string]*openapi3.Schema)
	collectOpenAPIProperties(s, props, 0)

	names := make([]string, 0, len(props))
	for n := range props {
		names = append(names, n)
	}
	sort.Strings(names)

	out := template.NewMap()
	for _, n := range names {
		key, v, ok, err := w.value(props[n], n, joinPath(path, n), depth+1, false)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Set(key, v)
		}
	}
	return out, nil
}

func (w *openAPIWalker) array(s *openapi3.Schema, h hints, name, path string, depth int) (string, any, bool, error) {
	var elem any = "@WORD"
	if s.Items != nil && s.Items.Value != nil {
		_, v, ok, err := w.value(s.Items.Value, name, path+"[]", depth, true)
		if err != nil {
			return "", nil, false, err
		}
		if !ok {
			return "", nil, false, nil
		}
		elem = v
	}
	if h.placeholder != "" {
		elem = h.placeholder
	}

	suffix := h.rule
	if suffix == "" {
		hi := -1
		if s.MaxItems != nil {
			hi = int(*s.MaxItems)
		}
		lo := -1
		if s.MinItems > 0 {
			lo = int(s.MinItems)
		}
		suffix = itemCount(lo, hi, w.cfg.ArrayCount)
	}
	r, err := parseRule(suffix)
	if err != nil {
		return "", nil, false, &FieldError{Path: path, Err: err}
	}
	return template.Key(name, r), []any{elem}, true, nil
}

func collectOpenAPIProperties(s *openapi3.Schema, into map[string]*openapi3.Schema, depth int) {
	if s == nil || depth > 16 {
		return
	}
	for _, sub := range s.AllOf {
		if sub != nil {
			collectOpenAPIProperties(sub.Value, into, depth+1)
		}
	}
	for n, p := range s.Properties {
		if p != nil && p.Value != nil {
			into[n] = p.Value
		}
	}
}

func openAPIType(s *openapi3.Schema) string {
	if s.Type != nil {
		for _, t := range s.Type.Slice() {
			if t != "null" {
				return t
			}
		}
	}
	switch {
	case len(s.Properties) > 0 || len(s.AllOf) > 0:
		return "object"
	case s.Items != nil:
		return "array"
	case s.Min != nil || s.Max != nil:
		return "number"
	}
	for _, alt := range append(append(openapi3.SchemaRefs(nil), s.OneOf...), s.AnyOf...) {
		if alt != nil && alt.Value != nil {
			return openAPIType(alt.Value)
		}
	}
	return "string"
}

// extensionString reads a string extension value, which the loader keeps
// either decoded or as raw JSON.
func extensionString(ext map[string]any, name string) string {
	switch v := ext[name].(type) {
	case string:
		return v
	case json.RawMessage:
		var s string
		if json.Unmarshal(v, &s) == nil {
			return s
		}
	}
	return ""
}
