package locale

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/text/language"
)

// UnsupportedLocaleError is returned when setting a locale no pack serves.
type UnsupportedLocaleError struct {
	Locale    string
	Supported []Locale
	Err       error
}

func (e *UnsupportedLocaleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported locale %q: %v", e.Locale, e.Err)
	}
	return fmt.Sprintf("unsupported locale %q", e.Locale)
}

func (e *UnsupportedLocaleError) Unwrap() error { return e.Err }

// Hint returns a user-friendly suggestion for resolving this error.
func (e *UnsupportedLocaleError) Hint() string {
	names := make([]string, len(e.Supported))
	for i, l := range e.Supported {
		names[i] = l.String()
	}
	return "Supported locales: " + strings.Join(names, ", ")
}

// Manager holds the ambient locale. It is safe for concurrent use; reads
// are lock-free.
type Manager struct {
	pool    DataPool
	current atomic.Pointer[Locale]
}

// NewManager creates a manager whose supported locales are those pool has
// packs for. The initial locale is Fallback when supported, otherwise the
// first supported locale.
func NewManager(pool DataPool) *Manager {
	m := &Manager{pool: pool}
	initial := Fallback
	if supported := pool.Locales(); len(supported) > 0 && !m.IsSupported(initial) {
		initial = supported[0]
	}
	m.current.Store(&initial)
	return m
}

// Pool returns the pool the manager validates against.
func (m *Manager) Pool() DataPool {
	return m.pool
}

// Current returns the ambient locale.
func (m *Manager) Current() Locale {
	return *m.current.Load()
}

// Set changes the ambient locale.
func (m *Manager) Set(loc Locale) error {
	if !m.IsSupported(loc) {
		return &UnsupportedLocaleError{Locale: loc.String(), Supported: m.Supported()}
	}
	m.current.Store(&loc)
	return nil
}

// SetString parses a BCP 47 tag such as "en", "zh-CN" or "de_AT" and sets it.
func (m *Manager) SetString(s string) error {
	loc, err := ParseLocale(s)
	if err != nil {
		return &UnsupportedLocaleError{Locale: s, Supported: m.Supported(), Err: err}
	}
	return m.Set(loc)
}

// IsSupported reports whether a pack serves loc's language.
func (m *Manager) IsSupported(loc Locale) bool {
	if loc == language.Und {
		return false
	}
	base, conf := loc.Base()
	if conf == language.No {
		return false
	}
	for _, l := range m.pool.Locales() {
		if b, _ := l.Base(); b == base {
			return true
		}
	}
	return false
}

// Supported returns the supported locales sorted by tag.
func (m *Manager) Supported() []Locale {
	return m.pool.Locales()
}

// ParseLocale parses a locale name, accepting '_' as a separator.
func ParseLocale(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.Und, errors.New("empty locale")
	}
	return language.Parse(strings.ReplaceAll(s, "_", "-"))
}

// Default is the process-wide manager backed by the embedded packs.
var Default = NewManager(Embedded())

// SetLocale sets the locale of the Default manager.
func SetLocale(loc Locale) error {
	return Default.Set(loc)
}

// CurrentLocale returns the locale of the Default manager.
func CurrentLocale() Locale {
	return Default.Current()
}

// IsSupported reports whether the Default manager supports loc.
func IsSupported(loc Locale) bool {
	return Default.IsSupported(loc)
}

// SupportedLocales returns the locales of the Default manager.
func SupportedLocales() []Locale {
	return Default.Supported()
}
