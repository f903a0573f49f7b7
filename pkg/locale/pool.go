package locale

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Locale selects the data pack placeholders draw from.
type Locale = language.Tag

// Fallback is the locale used when nothing better matches.
var Fallback = language.English

// ErrUnknownCategory is returned when no pack provides a category.
var ErrUnknownCategory = errors.New("unknown data category")

// DataPool provides candidate values per locale and category.
type DataPool interface {
	// Get returns the candidates for category. The first arg, when given,
	// qualifies the category: Get(loc, "prefix", "mobile") reads
	// "prefix.mobile" and falls back to "prefix".
	Get(loc Locale, category string, args ...string) ([]string, error)
	// Categories lists the category names available for loc.
	Categories(loc Locale) []string
	// Locales lists the locales the pool has packs for.
	Locales() []Locale
}

//go:embed data/*.yaml
var embeddedPacks embed.FS

type pack map[string][]string

// Pool is a DataPool backed by YAML packs. Packs are parsed on first use
// and cached.
type Pool struct {
	locales []Locale
	matcher language.Matcher
	load    func(Locale) (pack, error)

	mu    sync.RWMutex
	packs map[Locale]pack
}

var (
	embeddedOnce sync.Once
	embeddedPool *Pool
)

// Embedded returns the pool backed by the packs compiled into the binary.
func Embedded() *Pool {
	embeddedOnce.Do(func() {
		entries, err := embeddedPacks.ReadDir("data")
		if err != nil {
			panic(fmt.Sprintf("locale: read embedded packs: %v", err))
		}
		var locales []Locale
		for _, e := range entries {
			name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
			tag, err := language.Parse(name)
			if err != nil {
				panic(fmt.Sprintf("locale: embedded pack %q: %v", e.Name(), err))
			}
			locales = append(locales, tag)
		}
		embeddedPool = newPool(locales, func(loc Locale) (pack, error) {
			data, err := embeddedPacks.ReadFile("data/" + loc.String() + ".yaml")
			if err != nil {
				return nil, err
			}
			return parsePack(data)
		})
	})
	return embeddedPool
}

// LoadFile reads a pool from a YAML file keyed by locale:
//
//	en:
//	  petname: [Rex, Bella]
//	de:
//	  petname: [Bello, Mieze]
func LoadFile(filePath string) (*Pool, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read data pack %s: %w", filePath, err)
	}
	pool, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return pool, nil
}

// Parse reads a pool from YAML keyed by locale. See LoadFile.
func Parse(data []byte) (*Pool, error) {
	var raw map[string]pack
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid data pack: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("invalid data pack: no locales")
	}

	packs := make(map[Locale]pack, len(raw))
	locales := make([]Locale, 0, len(raw))
	for name, p := range raw {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("invalid data pack locale %q: %w", name, err)
		}
		packs[tag] = normalizePack(p)
		locales = append(locales, tag)
	}

	return newPool(locales, func(loc Locale) (pack, error) {
		return packs[loc], nil
	}), nil
}

func newPool(locales []Locale, load func(Locale) (pack, error)) *Pool {
	sortLocales(locales)
	return &Pool{
		locales: locales,
		matcher: language.NewMatcher(locales),
		load:    load,
		packs:   make(map[Locale]pack),
	}
}

func parsePack(data []byte) (pack, error) {
	var p pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid data pack: %w", err)
	}
	return normalizePack(p), nil
}

func normalizePack(p pack) pack {
	out := make(pack, len(p))
	for k, v := range p {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Locales returns the locales with a pack, sorted by tag.
func (p *Pool) Locales() []Locale {
	out := make([]Locale, len(p.locales))
	copy(out, p.locales)
	return out
}

// Resolve maps loc onto the locale of the pack that serves it.
func (p *Pool) Resolve(loc Locale) Locale {
	if len(p.locales) == 0 {
		return Fallback
	}
	base, _ := loc.Base()
	for _, l := range p.locales {
		if b, _ := l.Base(); b == base {
			return l
		}
	}
	if _, idx, conf := p.matcher.Match(loc); conf != language.No {
		return p.locales[idx]
	}
	for _, l := range p.locales {
		if l == Fallback {
			return l
		}
	}
	return p.locales[0]
}

// Get implements DataPool.
func (p *Pool) Get(loc Locale, category string, args ...string) ([]string, error) {
	keys := categoryKeys(category, args)

	resolved := p.Resolve(loc)
	chain := []Locale{resolved}
	if resolved != Fallback {
		chain = append(chain, Fallback)
	}

	for _, l := range chain {
		pk, err := p.pack(l)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if values, ok := pk[k]; ok && len(values) > 0 {
				return values, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, keys[0])
}

// Categories implements DataPool.
func (p *Pool) Categories(loc Locale) []string {
	seen := make(map[string]struct{})
	for _, l := range []Locale{p.Resolve(loc), Fallback} {
		pk, err := p.pack(l)
		if err != nil {
			continue
		}
		for k := range pk {
			seen[k] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func (p *Pool) pack(loc Locale) (pack, error) {
	p.mu.RLock()
	pk, ok := p.packs[loc]
	p.mu.RUnlock()
	if ok {
		return pk, nil
	}

	if !p.has(loc) {
		return nil, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pk, ok := p.packs[loc]; ok {
		return pk, nil
	}
	pk, err := p.load(loc)
	if err != nil {
		return nil, fmt.Errorf("load %s data pack: %w", loc, err)
	}
	p.packs[loc] = pk
	return pk, nil
}

func (p *Pool) has(loc Locale) bool {
	for _, l := range p.locales {
		if l == loc {
			return true
		}
	}
	return false
}

// categoryKeys returns the lookup keys for a category, most specific first.
func categoryKeys(category string, args []string) []string {
	category = strings.ToLower(category)
	if len(args) > 0 {
		if q := strings.ToLower(strings.TrimSpace(args[0])); q != "" {
			return []string{category + "." + q, category}
		}
	}
	return []string{category}
}

// Layered returns a DataPool that asks each pool in turn and uses the first
// that knows the category.
func Layered(pools ...DataPool) DataPool {
	return layered(pools)
}

type layered []DataPool

func (l layered) Get(loc Locale, category string, args ...string) ([]string, error) {
	for _, p := range l {
		values, err := p.Get(loc, category, args...)
		if err == nil {
			return values, nil
		}
		if !errors.Is(err, ErrUnknownCategory) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, categoryKeys(category, args)[0])
}

func (l layered) Categories(loc Locale) []string {
	seen := make(map[string]struct{})
	for _, p := range l {
		for _, c := range p.Categories(loc) {
			seen[c] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func (l layered) Locales() []Locale {
	seen := make(map[Locale]struct{})
	var out []Locale
	for _, p := range l {
		for _, loc := range p.Locales() {
			if _, ok := seen[loc]; !ok {
				seen[loc] = struct{}{}
				out = append(out, loc)
			}
		}
	}
	sortLocales(out)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortLocales(locales []Locale) {
	sort.Slice(locales, func(i, j int) bool {
		return locales[i].String() < locales[j].String()
	})
}
