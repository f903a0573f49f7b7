package introspect

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockgen/pkg/template"
)

// Schema keywords carrying explicit mock metadata.
const (
	KeywordPlaceholder = "x-mock-placeholder"
	KeywordRule        = "x-mock-rule"
)

const schemaResource = "schema.json"

// JSONSchema derives templates from JSON Schema documents (draft 4 to
// 2020-12). Objects list their properties sorted by name. The
// x-mock-placeholder and x-mock-rule keywords set a property's
// placeholder and rule.
type JSONSchema struct {
	// Pointer selects a sub-schema such as "#/$defs/User". Empty means the
	// root schema.
	Pointer string
}

// Template derives a template from source, a JSON or YAML document given as
// []byte, string or io.Reader, or any value that encodes to a JSON Schema.
func (j JSONSchema) Template(source any, cfg Config) (any, error) {
	cfg, err := cfg.prepare()
	if err != nil {
		return nil, err
	}
	data, err := schemaBytes(source)
	if err != nil {
		return nil, err
	}
	schema, err := compileSchema(data, j.Pointer)
	if err != nil {
		return nil, err
	}
	w := &schemaWalker{cfg: cfg, visiting: make(map[*jsonschema.Schema]bool)}
	_, v, _, err := w.value(schema, "", "", 0, true)
	return v, err
}

func schemaBytes(source any) ([]byte, error) {
	var data []byte
	switch s := source.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	case io.Reader:
		b, err := io.ReadAll(s)
		if err != nil {
			return nil, fmt.Errorf("read schema: %w", err)
		}
		data = b
	case nil:
		return nil, errors.New("introspect: nil schema")
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("encode schema: %w", err)
		}
		return b, nil
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return data, nil
	}
	// YAML documents are converted to JSON for the compiler
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return json.Marshal(doc)
}

var mockKeywordsMeta = jsonschema.MustCompileString("mock-keywords.json", `{
	"properties": {
		"x-mock-placeholder": {"type": "string"},
		"x-mock-rule": {"type": "string"}
	}
}`)

func compileSchema(data []byte, pointer string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.RegisterExtension("x-mock", mockKeywordsMeta, mockKeywordsCompiler{})

	if err := compiler.AddResource(schemaResource, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	url := schemaResource
	if pointer != "" {
		if !strings.HasPrefix(pointer, "#") {
			pointer = "#" + pointer
		}
		url += pointer
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

type mockKeywordsCompiler struct{}

func (mockKeywordsCompiler) Compile(_ jsonschema.CompilerContext, m map[string]interface{}) (jsonschema.ExtSchema, error) {
	placeholder, _ := m[KeywordPlaceholder].(string)
	suffix, _ := m[KeywordRule].(string)
	if placeholder == "" && suffix == "" {
		return nil, nil
	}
	return mockKeywords{placeholder: placeholder, rule: suffix}, nil
}

// mockKeywords is the compiled form of the x-mock keywords. It never
// fails validation.
type mockKeywords hints

func (mockKeywords) Validate(jsonschema.ValidationContext, interface{}) error { return nil }

type schemaWalker struct {
	cfg      Config
	visiting map[*jsonschema.Schema]bool
}

// value maps schema s. With elem set the result stands alone and the
// returned key is meaningless.
func (w *schemaWalker) value(s *jsonschema.Schema, name, path string, depth int, elem bool) (string, any, bool, error) {
	s = resolveRef(s)
	if s == nil {
		return name, nil, true, nil
	}
	if w.visiting[s] {
		return "", nil, false, nil
	}
	w.visiting[s] = true
	defer delete(w.visiting, s)

	var h hints
	if ext, ok := s.Extensions["x-mock"].(mockKeywords); ok {
		h = hints(ext)
	}

	if h.placeholder == "" && len(s.Constant) > 0 {
		return name, literal(s.Constant[0]), true, nil
	}
	if len(s.Enum) > 0 {
		l := h.apply(newLeaf(kindString))
		l.enum = s.Enum
		return l.place(name, path, elem)
	}

	switch schemaType(s) {
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
		l.min, l.max = numericBounds(s, 1)
		return l.place(name, path, elem)

	case "number":
		l := h.apply(newLeaf(kindFloat))
		l.min, l.max = numericBounds(s, 0.01)
		return l.place(name, path, elem)

	case "boolean":
		return h.apply(newLeaf(kindBool)).place(name, path, elem)

	case "null":
		return name, nil, true, nil
	}

	l := h.apply(newLeaf(kindString))
	l.format = s.Format
	if s.Pattern != nil {
		l.pattern = s.Pattern.String()
	}
	l.minLen, l.maxLen = s.MinLength, s.MaxLength
	return l.place(name, path, elem)
}

func (w *schemaWalker) object(s *jsonschema.Schema, path string, depth int) (*template.Map, error) {
	props := make(map[string]*jsonschema.Schema)
	collectProperties(s, props, 0)

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

func (w *schemaWalker) array(s *jsonschema.Schema, h hints, name, path string, depth int) (string, any, bool, error) {
	var elem any = "@WORD"
	if items := itemSchema(s); items != nil {
		_, v, ok, err := w.value(items, name, path+"[]", depth, true)
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
		suffix = itemCount(s.MinItems, s.MaxItems, w.cfg.ArrayCount)
	}
	r, err := parseRule(suffix)
	if err != nil {
		return "", nil, false, &FieldError{Path: path, Err: err}
	}
	return template.Key(name, r), []any{elem}, true, nil
}

// itemCount turns minItems/maxItems (negative when absent) into a count
// suffix.
func itemCount(lo, hi int, def string) string {
	switch {
	case lo < 0 && hi < 0:
		return def
	case hi < 0:
		hi = lo + 2
	case lo < 0:
		lo = min(1, hi)
	}
	if lo == hi {
		return fmt.Sprint(lo)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}

func itemSchema(s *jsonschema.Schema) *jsonschema.Schema {
	if s.Items2020 != nil {
		return s.Items2020
	}
	switch items := s.Items.(type) {
	case *jsonschema.Schema:
		return items
	case []*jsonschema.Schema:
		if len(items) > 0 {
			return items[0]
		}
	}
	if len(s.PrefixItems) > 0 {
		return s.PrefixItems[0]
	}
	return nil
}

// collectProperties gathers the properties of s and its allOf members.
func collectProperties(s *jsonschema.Schema, into map[string]*jsonschema.Schema, depth int) {
	s = resolveRef(s)
	if s == nil || depth > 16 {
		return
	}
	for _, sub := range s.AllOf {
		collectProperties(sub, into, depth+1)
	}
	for n, p := range s.Properties {
		into[n] = p
	}
}

// resolveRef follows $ref chains to the referenced schema.
func resolveRef(s *jsonschema.Schema) *jsonschema.Schema {
	for i := 0; s != nil && s.Ref != nil && i < 32; i++ {
		if len(s.Types) > 0 || len(s.Properties) > 0 {
			break
		}
		s = s.Ref
	}
	return s
}

// schemaType returns the first non-null type of s, inferring one from the
// keywords present when the schema names none.
func schemaType(s *jsonschema.Schema) string {
	for _, t := range s.Types {
		if t != "null" {
			return t
		}
	}
	if len(s.Types) > 0 {
		return "null"
	}
	switch {
	case len(s.Properties) > 0 || len(s.AllOf) > 0:
		return "object"
	case s.Items != nil || s.Items2020 != nil || len(s.PrefixItems) > 0:
		return "array"
	case s.Minimum != nil || s.Maximum != nil:
		return "number"
	}
	for _, alt := range append(append([]*jsonschema.Schema(nil), s.OneOf...), s.AnyOf...) {
		if t := schemaType(resolveRef(alt)); t != "" {
			return t
		}
	}
	return "string"
}

// numericBounds returns the inclusive bounds of s. Exclusive bounds are
// moved inward by step.
func numericBounds(s *jsonschema.Schema, step float64) (lo, hi *float64) {
	lo = ratPtr(s.Minimum, 0)
	if s.ExclusiveMinimum != nil {
		lo = ratPtr(s.ExclusiveMinimum, step)
	}
	hi = ratPtr(s.Maximum, 0)
	if s.ExclusiveMaximum != nil {
		hi = ratPtr(s.ExclusiveMaximum, -step)
	}
	return lo, hi
}

func ratPtr(r *big.Rat, offset float64) *float64 {
	if r == nil {
		return nil
	}
	f, _ := r.Float64()
	f += offset
	return &f
}

// literal converts a decoded JSON constant into a template value. Strings
// have their '@' escaped so they are not read as placeholders.
func literal(v any) any {
	switch v := v.(type) {
	case string:
		return strings.ReplaceAll(v, "@", `\@`)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = literal(e)
		}
		return out
	case map[string]any:
		m := template.NewMap()
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Set(template.Key(k, nil), literal(v[k]))
		}
		return m
	}
	return v
}
