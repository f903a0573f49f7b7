package template

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/getmockd/mockgen/pkg/counter"
	"github.com/getmockd/mockgen/pkg/logging"
	"github.com/getmockd/mockgen/pkg/placeholder"
	"github.com/getmockd/mockgen/pkg/rule"
)

// DefaultMaxDepth is the default nesting limit of a template.
const DefaultMaxDepth = 64

// Resolver expands placeholder strings. *placeholder.Resolver implements it.
type Resolver interface {
	Evaluate(text string, env placeholder.Env) (any, error)
}

// Engine renders templates into values. It holds no per-call state and is
// safe for concurrent use.
type Engine struct {
	resolver Resolver
	maxDepth int
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMaxDepth sets the nesting limit. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// New creates an engine that resolves placeholders with r. A nil r uses a
// resolver over the embedded locale data.
func New(r Resolver, opts ...Option) *Engine {
	if r == nil {
		r = placeholder.New(nil)
	}
	e := &Engine{
		resolver: r,
		maxDepth: DefaultMaxDepth,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render renders tmpl. Objects render to *Map, arrays to []any, and
// scalars to int64, float64, bool, string or nil; placeholders may yield
// other values (for example []any from @RANGE).
//
// The first error aborts the render. When rc.Counters is nil Render uses a
// store of its own for the duration of the call.
func (e *Engine) Render(tmpl any, rc *RenderContext) (any, error) {
	if rc == nil {
		rc = &RenderContext{}
	}
	if rc.Counters == nil {
		store := counter.Open()
		defer store.Close()
		scoped := *rc
		scoped.Counters = store
		rc = &scoped
	}
	return e.render(tmpl, rule.None{}, rc, frame{})
}

// render renders v under rule r, which has not yet been specialized for
// v's shape.
func (e *Engine) render(v any, r rule.Rule, rc *RenderContext, f frame) (any, error) {
	if f.depth > e.maxDepth {
		return nil, &RecursionLimitError{Path: f.path, Limit: e.maxDepth}
	}

	v, shape, ok := classify(v)
	if !ok {
		return nil, fmt.Errorf("%s: %w: unsupported value of type %T", displayPath(f.path), ErrInvalidTemplate, v)
	}
	spec, ok := rule.ForShape(r, shape)
	if !ok {
		return nil, &RuleTypeMismatchError{Path: f.path, Rule: r, Shape: shape}
	}
	if _, none := spec.(rule.None); !none {
		e.log.Debug("applying rule", "path", f.path, "rule", spec.Kind().String(), "suffix", spec.String(), "shape", shape.String())
	}

	switch shape {
	case rule.ShapeObject:
		return e.renderObject(v, rc, f)
	case rule.ShapeArray:
		return e.renderArray(v.([]any), spec, rc, f)
	case rule.ShapePlaceholder:
		return e.renderPlaceholder(v.(string), spec, rc, f)
	case rule.ShapeString:
		return renderString(unescapeLiteral(v.(string)), spec, rc), nil
	case rule.ShapeNumber:
		return e.renderNumber(v, spec, rc, f)
	case rule.ShapeBool:
		if p, ok := spec.(rule.Probability); ok {
			return rc.Rand.Chance(p.Percent), nil
		}
		return v, nil
	}
	return v, nil
}

func (e *Engine) renderObject(v any, rc *RenderContext, f frame) (any, error) {
	out := NewMap()
	var err error
	each := func(rawKey string, child any) bool {
		var name string
		var r rule.Rule
		name, r, err = rule.Parse(rawKey)
		if err != nil {
			err = fmt.Errorf("%s: %w", displayPath(f.child(name).path), err)
			return false
		}
		if out.Has(name) {
			e.log.Debug("duplicate property after rule stripping; last key wins", "path", f.path, "key", rawKey, "name", name)
		}
		var rendered any
		rendered, err = e.render(child, r, rc, f.child(name))
		if err != nil {
			return false
		}
		out.Set(name, rendered)
		return true
	}

	switch m := v.(type) {
	case *Map:
		for k, child := range m.All() {
			if !each(k, child) {
				return nil, err
			}
		}
	case map[string]any:
		for _, k := range sortedKeys(m) {
			if !each(k, m[k]) {
				return nil, err
			}
		}
	}
	return out, nil
}

func (e *Engine) renderArray(elems []any, r rule.Rule, rc *RenderContext, f frame) (any, error) {
	c, counted := r.(rule.Count)
	if !counted {
		out := make([]any, len(elems))
		for i, el := range elems {
			v, err := e.render(el, rule.None{}, rc, f.index(i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	if len(elems) == 0 {
		return nil, &RuleTypeMismatchError{Path: f.path, Rule: r, Shape: rule.ShapeArray, Reason: "array has no example element"}
	}
	n := rc.Rand.IntBetween(c.Min, c.Max)
	out := make([]any, n)
	for i := range out {
		v, err := e.render(elems[i%len(elems)], rule.None{}, rc, f.index(i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Engine) renderPlaceholder(text string, r rule.Rule, rc *RenderContext, f frame) (any, error) {
	v, err := e.resolver.Evaluate(text, placeholder.Env{Locale: rc.Locale, Rand: rc.Rand})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayPath(f.path), err)
	}
	if rep, ok := r.(rule.Repeat); ok {
		return strings.Repeat(placeholder.Format(v), rc.Rand.IntBetween(rep.Min, rep.Max)), nil
	}
	return v, nil
}

func renderString(s string, r rule.Rule, rc *RenderContext) any {
	if rep, ok := r.(rule.Repeat); ok {
		return strings.Repeat(s, rc.Rand.IntBetween(rep.Min, rep.Max))
	}
	return s
}

func (e *Engine) renderNumber(v any, r rule.Rule, rc *RenderContext, f frame) (any, error) {
	switch r := r.(type) {
	case rule.Range:
		switch {
		case r.Decimals != nil:
			places := rc.Rand.IntBetween(r.Decimals.Min, r.Decimals.Max)
			return rc.Rand.Decimal(r.Min, r.Max, places), nil
		case r.Integer:
			return rc.Rand.Between(r.Lo, r.Hi), nil
		default:
			return rc.Rand.FloatBetween(r.Min, r.Max), nil
		}

	case rule.Increment:
		initial, ok := integral(v)
		if !ok {
			return nil, &RuleTypeMismatchError{Path: f.path, Rule: r, Shape: rule.ShapeNumber, Reason: "increment needs an integer start value"}
		}
		return rc.Counters.Next(f.key, initial, r.Step), nil
	}
	return v, nil
}

// classify normalizes v and reports its shape. Slices and arrays of any
// element type become []any; string-keyed maps other than *Map become
// map[string]any; integer kinds become int64 and float kinds float64. It
// reports false for values a template cannot hold, such as structs.
func classify(v any) (any, rule.Shape, bool) {
	switch t := v.(type) {
	case nil:
		return nil, rule.ShapeNull, true
	case *Map:
		if t == nil {
			return nil, rule.ShapeNull, true
		}
		return t, rule.ShapeObject, true
	case map[string]any:
		return t, rule.ShapeObject, true
	case []any:
		return t, rule.ShapeArray, true
	case string:
		if placeholder.Contains(t) {
			return t, rule.ShapePlaceholder, true
		}
		return t, rule.ShapeString, true
	case bool:
		return t, rule.ShapeBool, true
	case int64:
		return t, rule.ShapeNumber, true
	case float64:
		return t, rule.ShapeNumber, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), rule.ShapeNumber, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u), rule.ShapeNumber, true
		}
		return int64(u), rule.ShapeNumber, true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), rule.ShapeNumber, true
	case reflect.Bool:
		return rv.Bool(), rule.ShapeBool, true
	case reflect.String:
		return classify(rv.String())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, rule.ShapeNull, true
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, rule.ShapeArray, true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return nil, rule.ShapeNull, true
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, rule.ShapeObject, true
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, rule.ShapeNull, true
		}
		return classify(rv.Elem().Interface())
	}
	return v, rule.ShapeNull, false
}

// integral returns v as an int64 when it holds a whole number.
func integral(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

// unescapeLiteral turns "\@" into "@" in strings without placeholders.
func unescapeLiteral(s string) string {
	if strings.Contains(s, `\@`) {
		return strings.ReplaceAll(s, `\@`, "@")
	}
	return s
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
