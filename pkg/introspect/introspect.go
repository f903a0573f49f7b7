package introspect

import (
	"fmt"

	"github.com/getmockd/mockgen/pkg/rule"
)

// Default configuration values.
const (
	DefaultMaxDepth   = 3
	DefaultArrayCount = "1-3"
)

// Introspector derives a template from a source type description.
type Introspector interface {
	Template(source any, cfg Config) (any, error)
}

// Config controls template derivation.
type Config struct {
	// IncludePrivate includes unexported struct fields.
	IncludePrivate bool `json:"includePrivate,omitempty" yaml:"includePrivate,omitempty"`

	// MaxDepth is how many levels of nested objects are derived. Zero
	// means DefaultMaxDepth.
	MaxDepth int `json:"maxDepth,omitempty" yaml:"maxDepth,omitempty"`

	// ArrayCount is the count rule given to arrays without explicit
	// bounds. Empty means DefaultArrayCount.
	ArrayCount string `json:"arrayCount,omitempty" yaml:"arrayCount,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{MaxDepth: DefaultMaxDepth, ArrayCount: DefaultArrayCount}
}

// prepare fills in defaults and checks that ArrayCount is a count rule.
func (c Config) prepare() (Config, error) {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.ArrayCount == "" {
		c.ArrayCount = DefaultArrayCount
	}
	r, err := rule.ParseSuffix(c.ArrayCount)
	if err != nil {
		return c, fmt.Errorf("array count: %w", err)
	}
	if _, ok := rule.ForShape(r, rule.ShapeArray); !ok {
		return c, fmt.Errorf("array count %q is not a count", c.ArrayCount)
	}
	return c, nil
}

// FieldError reports a property whose metadata could not be used.
type FieldError struct {
	Path string
	Err  error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
