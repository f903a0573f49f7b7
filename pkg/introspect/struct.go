package introspect

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/getmockd/mockgen/pkg/template"
)

// Struct derives templates from Go struct types by reflection.
//
// The property name comes from the json tag, else the field name. A mock
// tag adds metadata as ';'-separated options:
//
//	type User struct {
//		ID    int      `json:"id" mock:"rule=+1"`
//		Email string   `json:"email" mock:"placeholder=@EMAIL"`
//		Tags  []string `json:"tags" mock:"rule=2-4;placeholder=@WORD"`
//		Note  string   `mock:"-"`
//	}
//
// Options are rule=<suffix>, placeholder=<text> and enabled=false; "-"
// skips the field. On slices the placeholder applies to the elements.
type Struct struct{}

var (
	timeType          = reflect.TypeFor[time.Time]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Template derives a template from source, which may be a struct value, a
// pointer to one, or a reflect.Type.
func (Struct) Template(source any, cfg Config) (any, error) {
	cfg, err := cfg.prepare()
	if err != nil {
		return nil, err
	}
	t, ok := source.(reflect.Type)
	if !ok {
		if source == nil {
			return nil, errors.New("introspect: nil source")
		}
		t = reflect.TypeOf(source)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("introspect: %s is not a struct type", t)
	}
	s := &structWalker{cfg: cfg}
	return s.object(t, "", 0)
}

type structWalker struct {
	cfg Config
}

func (s *structWalker) object(t reflect.Type, path string, depth int) (*template.Map, error) {
	out := template.NewMap()
	if err := s.fields(out, t, path, depth); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *structWalker) fields(out *template.Map, t reflect.Type, path string, depth int) error {
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() && !s.cfg.IncludePrivate {
			continue
		}
		name, skip := fieldName(f)
		if skip {
			continue
		}
		h, enabled, err := parseMockTag(f.Tag.Get("mock"))
		if err != nil {
			return &FieldError{Path: joinPath(path, name), Err: err}
		}
		if !enabled {
			continue
		}

		// embedded structs without a json name are flattened like
		// encoding/json does
		if f.Anonymous && f.Tag.Get("json") == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && ft != timeType {
				if err := s.fields(out, ft, path, depth); err != nil {
					return err
				}
				continue
			}
		}

		fieldPath := joinPath(path, name)
		key, value, ok, err := s.entry(f.Type, name, h, fieldPath, depth, false)
		if err != nil {
			return err
		}
		if ok {
			out.Set(key, value)
		}
	}
	return nil
}

// entry maps one field. It reports false when the field is omitted. With
// elem set the value stands alone as an array element or map value, so
// rules are carried by placeholders instead of the key.
func (s *structWalker) entry(t reflect.Type, name string, h hints, path string, depth int, elem bool) (string, any, bool, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch {
	case t == timeType:
		return h.apply(newLeaf(kindTime)).place(name, path, elem)

	case t.Kind() == reflect.Struct:
		if h.placeholder != "" || reflect.PointerTo(t).Implements(textMarshalerType) {
			return h.apply(newLeaf(kindString)).place(name, path, elem)
		}
		if h.rule != "" && !elem {
			return "", nil, false, &FieldError{Path: path, Err: errors.New("objects take no rule")}
		}
		if depth+1 >= s.cfg.MaxDepth {
			return "", nil, false, nil
		}
		obj, err := s.object(t, path, depth+1)
		if err != nil {
			return "", nil, false, err
		}
		return name, obj, true, nil

	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			// []byte encodes as a string
			return h.apply(newLeaf(kindString)).place(name, path, elem)
		}
		return s.arrayEntry(t, name, h, path, depth)

	case t.Kind() == reflect.Map:
		if t.Key().Kind() != reflect.String {
			return "", nil, false, nil
		}
		_, v, ok, err := s.entry(t.Elem(), name, hints{placeholder: h.placeholder}, path+".key", depth, true)
		if err != nil || !ok {
			return "", nil, false, err
		}
		return name, template.NewMap().Set("key", v), true, nil
	}

	l, ok := scalarLeaf(t)
	if !ok {
		return "", nil, false, nil
	}
	return h.apply(l).place(name, path, elem)
}

func (s *structWalker) arrayEntry(t reflect.Type, name string, h hints, path string, depth int) (string, any, bool, error) {
	_, v, ok, err := s.entry(t.Elem(), name, hints{placeholder: h.placeholder}, path+"[]", depth, true)
	if err != nil || !ok {
		return "", nil, false, err
	}
	suffix := h.rule
	if suffix == "" {
		suffix = s.cfg.ArrayCount
		if t.Kind() == reflect.Array {
			suffix = fmt.Sprint(t.Len())
		}
	}
	r, err := parseRule(suffix)
	if err != nil {
		return "", nil, false, &FieldError{Path: path, Err: err}
	}
	return template.Key(name, r), []any{v}, true, nil
}

func scalarLeaf(t reflect.Type) (leaf, bool) {
	switch t.Kind() {
	case reflect.String:
		return newLeaf(kindString), true
	case reflect.Bool:
		return newLeaf(kindBool), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return newLeaf(kindInt), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		l := newLeaf(kindInt)
		zero := 0.0
		l.min = &zero
		return l, true
	case reflect.Float32, reflect.Float64:
		return newLeaf(kindFloat), true
	case reflect.Interface:
		return newLeaf(kindAny), true
	}
	if t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType) {
		return newLeaf(kindString), true
	}
	return leaf{}, false
}

// fieldName returns the property name of f and whether the json tag
// excludes it.
func fieldName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, false
	}
	return f.Name, false
}

func parseMockTag(tag string) (hints, bool, error) {
	var h hints
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return h, true, nil
	}
	if tag == "-" {
		return h, false, nil
	}
	for _, opt := range strings.Split(tag, ";") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		key, value, ok := strings.Cut(opt, "=")
		if !ok {
			return h, false, fmt.Errorf("mock tag option %q has no value", opt)
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "rule":
			h.rule = value
		case "placeholder":
			h.placeholder = value
		case "enabled":
			switch strings.ToLower(value) {
			case "true":
			case "false":
				return h, false, nil
			default:
				return h, false, fmt.Errorf("mock tag enabled=%q is not a boolean", value)
			}
		default:
			return h, false, fmt.Errorf("unknown mock tag option %q", key)
		}
	}
	return h, true, nil
}
