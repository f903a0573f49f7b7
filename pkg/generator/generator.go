package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/getmockd/mockgen/internal/rng"
	"github.com/getmockd/mockgen/pkg/counter"
	"github.com/getmockd/mockgen/pkg/introspect"
	"github.com/getmockd/mockgen/pkg/locale"
	"github.com/getmockd/mockgen/pkg/logging"
	"github.com/getmockd/mockgen/pkg/placeholder"
	"github.com/getmockd/mockgen/pkg/template"
)

// Generator renders templates into mock data. It is safe for concurrent
// use.
type Generator struct {
	locales  *locale.Manager
	resolver template.Resolver
	engine   *template.Engine
	rand     *rng.Rand
	maxDepth int
	log      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLocaleManager sets the manager whose current locale Generate uses.
func WithLocaleManager(m *locale.Manager) Option {
	return func(g *Generator) {
		if m != nil {
			g.locales = m
		}
	}
}

// WithPool uses pool for placeholder data and locale support. It gives the
// generator a locale manager of its own over pool; the default resolver
// draws from the same pool.
func WithPool(pool locale.DataPool) Option {
	return func(g *Generator) {
		if pool != nil {
			g.locales = locale.NewManager(pool)
		}
	}
}

// WithResolver sets the placeholder resolver.
func WithResolver(r template.Resolver) Option {
	return func(g *Generator) {
		if r != nil {
			g.resolver = r
		}
	}
}

// WithLogger sets the logger. Calls are logged at debug level.
func WithLogger(log *slog.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// WithSeed makes generation deterministic for a given sequence of calls.
// Output for a seed may change between versions.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rand = rng.New(seed)
	}
}

// WithMaxDepth sets the template nesting limit.
func WithMaxDepth(n int) Option {
	return func(g *Generator) {
		g.maxDepth = n
	}
}

// New creates a generator. Without options it uses the default locale
// manager and a resolver over the embedded locale data.
func New(opts ...Option) *Generator {
	g := &Generator{
		locales: locale.Default,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.resolver == nil {
		g.resolver = placeholder.New(g.locales.Pool(), placeholder.WithLogger(g.log))
	}
	g.engine = template.New(g.resolver,
		template.WithLogger(g.log),
		template.WithMaxDepth(g.maxDepth),
	)
	return g
}

// Locales returns the generator's locale manager.
func (g *Generator) Locales() *locale.Manager {
	return g.locales
}

// Resolver returns the placeholder resolver.
func (g *Generator) Resolver() template.Resolver {
	return g.resolver
}

// Generate renders tmpl with the manager's current locale.
func (g *Generator) Generate(tmpl any) (any, error) {
	return g.GenerateWithLocale(tmpl, g.locales.Current())
}

// GenerateWithLocale renders tmpl with loc, leaving the manager untouched.
func (g *Generator) GenerateWithLocale(tmpl any, loc locale.Locale) (any, error) {
	store := counter.Open()
	defer store.Close()

	start := time.Now()
	g.log.Debug("generate started", "locale", loc.String())

	out, err := g.engine.Render(tmpl, &template.RenderContext{
		Locale:   loc,
		Counters: store,
		Rand:     g.rand,
	})
	if err != nil {
		g.log.Debug("generate failed", "locale", loc.String(), "error", err)
		return nil, err
	}
	g.log.Debug("generate finished",
		"locale", loc.String(),
		"counters", store.Len(),
		"duration", time.Since(start),
	)
	return out, nil
}

// GenerateJSON decodes a JSON or YAML template, renders it and encodes the
// result as JSON with the template's key order.
func (g *Generator) GenerateJSON(data []byte) ([]byte, error) {
	tmpl, err := template.Decode(data)
	if err != nil {
		return nil, err
	}
	out, err := g.Generate(tmpl)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return b, nil
}

// GenerateN renders tmpl n times. Each render is an independent call with
// its own counters.
func (g *Generator) GenerateN(tmpl any, n int) ([]any, error) {
	if n < 0 {
		return nil, errors.New("generator: negative count")
	}
	loc := g.locales.Current()
	out := make([]any, 0, n)
	for i := range n {
		v, err := g.GenerateWithLocale(tmpl, loc)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// FromType derives a template from the struct type of v and renders it.
// The result is the rendered tree; Fill and Into return typed values.
func (g *Generator) FromType(v any, cfg introspect.Config) (any, error) {
	tmpl, err := introspect.Struct{}.Template(v, cfg)
	if err != nil {
		return nil, err
	}
	return g.Generate(tmpl)
}

// Fill renders a template derived from the type ptr points to and stores
// the result in *ptr. Properties land on fields by json tag or field name,
// the same names the template was derived with; skipped fields keep their
// values.
func (g *Generator) Fill(ptr any, cfg introspect.Config) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("generator: Fill needs a non-nil pointer, got %T", ptr)
	}
	t := rv.Type().Elem()
	out, err := g.FromType(t, cfg)
	if err != nil {
		return err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := json.Unmarshal(b, ptr); err != nil {
		return fmt.Errorf("decode into %s: %w", t, err)
	}
	return nil
}

// Into returns a T populated with generated data. T is a struct type or a
// pointer to one.
//
//	user, err := generator.Into[User](gen, introspect.DefaultConfig())
func Into[T any](g *Generator, cfg introspect.Config) (T, error) {
	var v T
	err := g.Fill(&v, cfg)
	return v, err
}

// Default is the generator behind the package-level functions.
var Default = New()

// Generate renders tmpl with the Default generator.
func Generate(tmpl any) (any, error) {
	return Default.Generate(tmpl)
}

// GenerateJSON renders a JSON or YAML template with the Default generator.
func GenerateJSON(data []byte) ([]byte, error) {
	return Default.GenerateJSON(data)
}
