package placeholder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/getmockd/mockgen/internal/rng"
	"github.com/getmockd/mockgen/pkg/locale"
)

// Call is the invocation a generator receives.
type Call struct {
	// Name is the upper-cased placeholder name.
	Name string
	// Args are the resolved arguments.
	Args   []string
	Locale locale.Locale
	Rand   *rng.Rand
	Now    time.Time

	r     *Resolver
	depth int
}

// Arg returns argument i, or "" when absent.
func (c *Call) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// HasArg reports whether argument i is present and non-empty.
func (c *Call) HasArg(i int) bool {
	return i < len(c.Args) && strings.TrimSpace(c.Args[i]) != ""
}

// Int returns argument i as an int, or def when absent.
func (c *Call) Int(i, def int) (int, error) {
	if !c.HasArg(i) {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(c.Args[i]))
	if err != nil {
		return 0, c.argError(i, "not an integer")
	}
	return n, nil
}

// Int64 returns argument i as an int64, or def when absent.
func (c *Call) Int64(i int, def int64) (int64, error) {
	if !c.HasArg(i) {
		return def, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(c.Args[i]), 10, 64)
	if err != nil {
		return 0, c.argError(i, "not an integer")
	}
	return n, nil
}

// Float returns argument i as a float64, or def when absent.
func (c *Call) Float(i int, def float64) (float64, error) {
	if !c.HasArg(i) {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(c.Args[i]), 64)
	if err != nil {
		return 0, c.argError(i, "not a number")
	}
	return f, nil
}

// IntRange reads an optional [min, max] pair starting at argument i. A
// single argument is an exact value.
func (c *Call) IntRange(i, defMin, defMax int) (int, int, error) {
	if !c.HasArg(i) {
		return defMin, defMax, nil
	}
	lo, err := c.Int(i, defMin)
	if err != nil {
		return 0, 0, err
	}
	hi, err := c.Int(i+1, lo)
	if err != nil {
		return 0, 0, err
	}
	if lo > hi {
		return 0, 0, c.argError(i+1, fmt.Sprintf("must not be less than %d", lo))
	}
	return lo, hi, nil
}

// Data returns the candidates for a data category of the call's locale.
func (c *Call) Data(category string, qualifiers ...string) ([]string, error) {
	values, err := c.r.pool.Get(c.Locale, category, qualifiers...)
	if err != nil {
		return nil, fmt.Errorf("@%s: %w", c.Name, err)
	}
	return values, nil
}

// Pick returns a random candidate of a data category.
func (c *Call) Pick(category string, qualifiers ...string) (string, error) {
	values, err := c.Data(category, qualifiers...)
	if err != nil {
		return "", err
	}
	return c.Rand.Pick(values), nil
}

// PickOr returns a random candidate of a data category, or def when the
// category is unknown.
func (c *Call) PickOr(def, category string, qualifiers ...string) string {
	values, err := c.r.pool.Get(c.Locale, category, qualifiers...)
	if err != nil || len(values) == 0 {
		return def
	}
	return c.Rand.Pick(values)
}

// Resolve expands placeholders in text with the call's environment.
func (c *Call) Resolve(text string) (string, error) {
	return c.r.expand(text, c.env(), c.depth+1)
}

// Invoke runs another placeholder with the call's environment.
func (c *Call) Invoke(name string, args ...string) (any, error) {
	return c.r.call(name, args, c.env(), c.depth+1)
}

// InvokeString is Invoke formatted as a string.
func (c *Call) InvokeString(name string, args ...string) (string, error) {
	v, err := c.Invoke(name, args...)
	if err != nil {
		return "", err
	}
	return Format(v), nil
}

func (c *Call) env() Env {
	return Env{Locale: c.Locale, Rand: c.Rand}
}

func (c *Call) argError(i int, reason string) error {
	return &ArgumentError{Name: c.Name, Index: i, Value: c.Arg(i), Reason: reason}
}
