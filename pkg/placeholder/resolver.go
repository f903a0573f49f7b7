package placeholder

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/getmockd/mockgen/internal/rng"
	"github.com/getmockd/mockgen/pkg/locale"
	"github.com/getmockd/mockgen/pkg/logging"
)

// maxNesting bounds placeholders that expand into placeholders.
const maxNesting = 32

// Func generates the value of a placeholder.
type Func func(c *Call) (any, error)

// Env carries the per-call state a resolution runs with.
type Env struct {
	Locale locale.Locale
	// Rand is the random source. Nil uses the global source.
	Rand *rng.Rand
}

// Resolver expands @Name(args) placeholders.
//
// Names are matched case-insensitively and looked up in order: generators
// added with Register, built-in generators, then data categories of the
// pool, from which a random candidate is picked. It is safe for concurrent
// use.
type Resolver struct {
	pool     locale.DataPool
	builtins map[string]Func
	now      func() time.Time
	log      *slog.Logger

	mu     sync.RWMutex
	custom map[string]Func
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClock overrides the clock used by @NOW and the date generators.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a resolver backed by pool. A nil pool uses the embedded
// locale data.
func New(pool locale.DataPool, opts ...Option) *Resolver {
	if pool == nil {
		pool = locale.Embedded()
	}
	r := &Resolver{
		pool:     pool,
		builtins: builtins(),
		now:      time.Now,
		log:      logging.Nop(),
		custom:   make(map[string]Func),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Pool returns the data pool the resolver draws from.
func (r *Resolver) Pool() locale.DataPool {
	return r.pool
}

// Resolve expands every placeholder in text for loc and returns the
// resulting string. Escapes are part of the placeholder syntax, so "\@"
// becomes a literal '@' even in text with no placeholders; any other text
// without placeholders is returned unchanged.
func (r *Resolver) Resolve(text string, loc locale.Locale) (string, error) {
	return r.Expand(text, Env{Locale: loc})
}

// ResolveValue is like Resolve, except that when text consists of exactly
// one placeholder the generator's value is returned with its native type
// (int64 for @NATURAL, bool for @BOOLEAN, and so on). Escapes are undone
// as in Resolve.
func (r *Resolver) ResolveValue(text string, loc locale.Locale) (any, error) {
	return r.Evaluate(text, Env{Locale: loc})
}

// Expand is Resolve with an explicit environment.
func (r *Resolver) Expand(text string, env Env) (string, error) {
	return r.expand(text, env, 0)
}

// Evaluate is ResolveValue with an explicit environment.
func (r *Resolver) Evaluate(text string, env Env) (any, error) {
	return r.evaluate(text, env, 0)
}

func (r *Resolver) evaluate(text string, env Env, depth int) (any, error) {
	if !Contains(text) {
		return unescape(text), nil
	}
	segs, err := scan(text)
	if err != nil {
		return nil, err
	}
	if len(segs) == 1 && segs[0].call != nil {
		return r.invoke(segs[0].call, env, depth)
	}
	return r.join(segs, env, depth)
}

func (r *Resolver) expand(text string, env Env, depth int) (string, error) {
	if !Contains(text) {
		return unescape(text), nil
	}
	segs, err := scan(text)
	if err != nil {
		return "", err
	}
	return r.join(segs, env, depth)
}

func (r *Resolver) join(segs []segment, env Env, depth int) (string, error) {
	var b strings.Builder
	for _, seg := range segs {
		if seg.call == nil {
			b.WriteString(seg.literal)
			continue
		}
		v, err := r.invoke(seg.call, env, depth)
		if err != nil {
			return "", err
		}
		b.WriteString(Format(v))
	}
	return b.String(), nil
}

// invoke resolves the call's arguments depth-first, then runs the
// generator.
func (r *Resolver) invoke(ce *callExpr, env Env, depth int) (any, error) {
	if depth >= maxNesting {
		return nil, &ArgumentError{Name: ce.name, Index: -1, Reason: "placeholders nested too deeply"}
	}

	args := make([]string, len(ce.args))
	for i, a := range ce.args {
		if a.quoted {
			args[i] = a.text
			continue
		}
		s, err := r.expand(a.text, env, depth+1)
		if err != nil {
			return nil, err
		}
		args[i] = s
	}

	return r.call(ce.name, args, env, depth)
}

// Call invokes a placeholder by name with already resolved arguments.
func (r *Resolver) Call(name string, args []string, env Env) (any, error) {
	return r.call(name, args, env, 0)
}

func (r *Resolver) call(name string, args []string, env Env, depth int) (any, error) {
	if depth >= maxNesting {
		return nil, &ArgumentError{Name: name, Index: -1, Reason: "placeholders nested too deeply"}
	}
	key := strings.ToUpper(name)
	c := &Call{
		Name:   key,
		Args:   args,
		Locale: env.Locale,
		Rand:   env.Rand,
		Now:    r.now(),
		r:      r,
		depth:  depth,
	}

	r.mu.RLock()
	fn, ok := r.custom[key]
	r.mu.RUnlock()
	if !ok {
		fn, ok = r.builtins[key]
	}
	if ok {
		return fn(c)
	}

	candidates, err := r.pool.Get(env.Locale, strings.ToLower(name), args...)
	if err != nil {
		if errors.Is(err, locale.ErrUnknownCategory) {
			return nil, &UnknownPlaceholderError{Name: name, Locale: env.Locale.String()}
		}
		return nil, err
	}
	return env.Rand.Pick(candidates), nil
}

// Register adds a custom generator. Custom generators take precedence over
// built-ins and data categories of the same name.
func (r *Resolver) Register(name string, fn Func) error {
	if !validName(name) {
		return &ArgumentError{Name: name, Index: -1, Reason: "invalid placeholder name"}
	}
	if fn == nil {
		return &ArgumentError{Name: name, Index: -1, Reason: "nil generator"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom[strings.ToUpper(name)] = fn
	r.log.Debug("registered placeholder", "name", strings.ToUpper(name))
	return nil
}

// Unregister removes a custom generator. It reports whether one existed.
func (r *Resolver) Unregister(name string) bool {
	key := strings.ToUpper(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.custom[key]
	delete(r.custom, key)
	return ok
}

// Names lists the custom and built-in placeholder names, sorted.
func (r *Resolver) Names() []string {
	seen := make(map[string]struct{}, len(r.builtins))
	for name := range r.builtins {
		seen[name] = struct{}{}
	}
	r.mu.RLock()
	for name := range r.custom {
		seen[name] = struct{}{}
	}
	r.mu.RUnlock()

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CustomNames lists the names added with Register, sorted.
func (r *Resolver) CustomNames() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.custom))
	for name := range r.custom {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

func validName(name string) bool {
	if name == "" || !isLetter(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentChar(name[i]) {
			return false
		}
	}
	return true
}

// unescape replaces "\@" with "@" in text without placeholders.
func unescape(text string) string {
	if !strings.Contains(text, `\@`) {
		return text
	}
	return strings.ReplaceAll(text, `\@`, "@")
}

// Format renders a generated value for concatenation into a string.
func Format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
