package introspect

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/getmockd/mockgen/pkg/template"
)

// MockDirective declares the @mock field directive. It is added to
// schemas that do not declare it themselves.
const MockDirective = `directive @mock(rule: String, placeholder: String) on FIELD_DEFINITION | INPUT_FIELD_DEFINITION`

// ErrTypeNotFound is returned when a GraphQL schema has no usable type with
// the requested name.
var ErrTypeNotFound = errors.New("type not found")

// GraphQL derives a template from an object, interface or input type of a
// GraphQL SDL schema. Fields keep their declaration order, and the @mock
// directive sets a field's rule and placeholder:
//
//	type User {
//	  id: ID! @mock(rule: "+1")
//	  tags: [String!]! @mock(rule: "2-4", placeholder: "@WORD")
//	}
type GraphQL struct {
	// Type names the type to derive.
	Type string
}

// Template derives a template from source, SDL given as []byte, string or
// io.Reader, or an already loaded *ast.Schema.
func (g GraphQL) Template(source any, cfg Config) (any, error) {
	cfg, err := cfg.prepare()
	if err != nil {
		return nil, err
	}
	schema, err := loadGraphQL(source)
	if err != nil {
		return nil, err
	}
	def := schema.Types[g.Type]
	if def == nil || !isObjectKind(def.Kind) {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, g.Type)
	}
	w := &graphQLWalker{schema: schema, cfg: cfg, visiting: make(map[string]bool)}
	return w.object(def, "", 0)
}

func loadGraphQL(source any) (*ast.Schema, error) {
	var sdl string
	switch s := source.(type) {
	case *ast.Schema:
		return s, nil
	case []byte:
		sdl = string(s)
	case string:
		sdl = s
	case io.Reader:
		b, err := io.ReadAll(s)
		if err != nil {
			return nil, fmt.Errorf("read GraphQL schema: %w", err)
		}
		sdl = string(b)
	default:
		return nil, fmt.Errorf("introspect: unsupported GraphQL source %T", source)
	}

	sources := []*ast.Source{{Name: "schema.graphql", Input: sdl}}
	if !strings.Contains(sdl, "directive @mock") {
		sources = append([]*ast.Source{{Name: "mock.graphql", Input: MockDirective, BuiltIn: true}}, sources...)
	}
	schema, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}
	return schema, nil
}

func isObjectKind(k ast.DefinitionKind) bool {
	return k == ast.Object || k == ast.Interface || k == ast.InputObject
}

type graphQLWalker struct {
	schema   *ast.Schema
	cfg      Config
	visiting map[string]bool
}

func (w *graphQLWalker) object(def *ast.Definition, path string, depth int) (*template.Map, error) {
	w.visiting[def.Name] = true
	defer delete(w.visiting, def.Name)

	out := template.NewMap()
	for _, f := range def.Fields {
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		h := directiveHints(f.Directives)
		fieldPath := joinPath(path, f.Name)
		key, v, ok, err := w.value(f.Type, f.Name, h, fieldPath, depth, false)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Set(key, v)
		}
	}
	return out, nil
}

func (w *graphQLWalker) value(t *ast.Type, name string, h hints, path string, depth int, elem bool) (string, any, bool, error) {
	if t.Elem != nil {
		return w.list(t, name, h, path, depth)
	}

	switch t.NamedType {
	case "Int":
		return h.apply(newLeaf(kindInt)).place(name, path, elem)
	case "Float":
		return h.apply(newLeaf(kindFloat)).place(name, path, elem)
	case "Boolean":
		return h.apply(newLeaf(kindBool)).place(name, path, elem)
	case "String":
		return h.apply(newLeaf(kindString)).place(name, path, elem)
	case "ID":
		l := h.apply(newLeaf(kindString))
		l.format = "uuid"
		return l.place(name, path, elem)
	}

	def := w.schema.Types[t.NamedType]
	if def == nil {
		return h.apply(newLeaf(kindString)).place(name, path, elem)
	}
	switch def.Kind {
	case ast.Enum:
		l := h.apply(newLeaf(kindString))
		for _, v := range def.EnumValues {
			l.enum = append(l.enum, v.Name)
		}
		return l.place(name, path, elem)

	case ast.Scalar:
		l := h.apply(newLeaf(kindString))
		switch strings.ToLower(def.Name) {
		case "datetime", "timestamp", "time":
			l.kind = kindTime
		case "date":
			l.format = "date"
		default:
			l.format = strings.ToLower(def.Name)
		}
		return l.place(name, path, elem)

	case ast.Union:
		if len(def.Types) == 0 {
			return "", nil, false, nil
		}
		def = w.schema.Types[def.Types[0]]
		if def == nil {
			return "", nil, false, nil
		}
	}

	if h.placeholder != "" {
		return h.apply(newLeaf(kindString)).place(name, path, elem)
	}
	if w.visiting[def.Name] || depth+1 >= w.cfg.MaxDepth {
		return "", nil, false, nil
	}
	obj, err := w.object(def, path, depth+1)
	if err != nil {
		return "", nil, false, err
	}
	return name, obj, true, nil
}

func (w *graphQLWalker) list(t *ast.Type, name string, h hints, path string, depth int) (string, any, bool, error) {
	_, v, ok, err := w.value(t.Elem, name, hints{placeholder: h.placeholder}, path+"[]", depth, true)
	if err != nil || !ok {
		return "", nil, false, err
	}
	suffix := h.rule
	if suffix == "" {
		suffix = w.cfg.ArrayCount
	}
	r, err := parseRule(suffix)
	if err != nil {
		return "", nil, false, &FieldError{Path: path, Err: err}
	}
	return template.Key(name, r), []any{v}, true, nil
}

func directiveHints(dirs ast.DirectiveList) hints {
	d := dirs.ForName("mock")
	if d == nil {
		return hints{}
	}
	var h hints
	if a := d.Arguments.ForName("rule"); a != nil && a.Value != nil {
		h.rule = a.Value.Raw
	}
	if a := d.Arguments.ForName("placeholder"); a != nil && a.Value != nil {
		h.placeholder = a.Value.Raw
	}
	return h
}
