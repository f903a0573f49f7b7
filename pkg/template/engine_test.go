package template

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/getmockd/mockgen/internal/rng"
	"github.com/getmockd/mockgen/pkg/counter"
	"github.com/getmockd/mockgen/pkg/locale"
	"github.com/getmockd/mockgen/pkg/placeholder"
	"github.com/getmockd/mockgen/pkg/rule"
)

func mustDecode(t *testing.T, src string) any {
	t.Helper()
	v, err := Decode([]byte(src))
	require.NoError(t, err)
	return v
}

func render(t *testing.T, src string) any {
	t.Helper()
	out, err := New(nil).Render(mustDecode(t, src), nil)
	require.NoError(t, err)
	return out
}

func field(t *testing.T, v any, key string) any {
	t.Helper()
	m, ok := v.(*Map)
	require.True(t, ok, "expected *Map, got %T", v)
	got, ok := m.Get(key)
	require.True(t, ok, "missing key %q in %v", key, m.Keys())
	return got
}

func TestRenderScalarsWithoutRules(t *testing.T) {
	out := render(t, `{"s": "plain", "n": 3, "f": 1.5, "b": true, "z": null, "a": [1, "x"]}`)
	assert.Equal(t, "plain", field(t, out, "s"))
	assert.Equal(t, int64(3), field(t, out, "n"))
	assert.Equal(t, 1.5, field(t, out, "f"))
	assert.Equal(t, true, field(t, out, "b"))
	assert.Nil(t, field(t, out, "z"))
	assert.Equal(t, []any{int64(1), "x"}, field(t, out, "a"))
}

func TestRenderKeepsKeyOrder(t *testing.T) {
	out := render(t, `{"c": 1, "a|1-3": 2, "b": {"z": 1, "y": 2}}`)
	m := out.(*Map)
	assert.Equal(t, []string{"c", "a", "b"}, m.Keys())
	assert.Equal(t, []string{"z", "y"}, field(t, out, "b").(*Map).Keys())
}

func TestRenderPlainMapSortsKeys(t *testing.T) {
	out, err := New(nil).Render(map[string]any{"b": 1, "a": 2, "c|+1": 7}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, out.(*Map).Keys())
	assert.Equal(t, int64(7), field(t, out, "c"))
}

func TestRenderRange(t *testing.T) {
	e := New(nil)
	tmpl := mustDecode(t, `{"n|1-3": 0}`)
	seen := map[int64]bool{}
	for range 1000 {
		out, err := e.Render(tmpl, nil)
		require.NoError(t, err)
		n, ok := field(t, out, "n").(int64)
		require.True(t, ok)
		require.GreaterOrEqual(t, n, int64(1))
		require.LessOrEqual(t, n, int64(3))
		seen[n] = true
	}
	assert.Len(t, seen, 3, "both bounds are reachable")
}

func TestRenderExactNumber(t *testing.T) {
	out := render(t, `{"n|7": 0}`)
	assert.Equal(t, int64(7), field(t, out, "n"))
}

func TestRenderDecimalRange(t *testing.T) {
	e := New(nil)
	tmpl := mustDecode(t, `{"price|1-10.2": 0, "ratio|0-1.1-3": 0}`)
	for range 500 {
		out, err := e.Render(tmpl, nil)
		require.NoError(t, err)

		price := field(t, out, "price").(float64)
		assert.GreaterOrEqual(t, price, 1.0)
		assert.LessOrEqual(t, price, 10.0)
		assert.LessOrEqual(t, decimals(price), 2)

		ratio := field(t, out, "ratio").(float64)
		assert.GreaterOrEqual(t, ratio, 0.0)
		assert.LessOrEqual(t, ratio, 1.0)
		assert.LessOrEqual(t, decimals(ratio), 3)
	}
}

func decimals(f float64) int {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func TestRenderCount(t *testing.T) {
	e := New(nil)
	tmpl := mustDecode(t, `{"tags|2-5": ["@word"], "fixed|3": ["a", "b"]}`)
	for range 200 {
		out, err := e.Render(tmpl, nil)
		require.NoError(t, err)

		tags := field(t, out, "tags").([]any)
		require.GreaterOrEqual(t, len(tags), 2)
		require.LessOrEqual(t, len(tags), 5)
		for _, w := range tags {
			s, ok := w.(string)
			require.True(t, ok)
			assert.NotEmpty(t, s)
			assert.NotContains(t, s, "@")
		}

		assert.Equal(t, []any{"a", "b", "a"}, field(t, out, "fixed"), "examples are cycled")
	}
}

func TestRenderIncrementAcrossElements(t *testing.T) {
	out := render(t, `[{"id|+1": 100}, {"id|+1": 100}, {"id|+1": 100}]`)
	var ids []any
	for _, el := range out.([]any) {
		ids = append(ids, field(t, el, "id"))
	}
	assert.Equal(t, []any{int64(100), int64(101), int64(102)}, ids)
}

func TestRenderIncrementAcrossCount(t *testing.T) {
	out := render(t, `{"users|4": [{"id|+5": 10}]}`)
	var ids []any
	for _, u := range field(t, out, "users").([]any) {
		ids = append(ids, field(t, u, "id"))
	}
	assert.Equal(t, []any{int64(10), int64(15), int64(20), int64(25)}, ids)
}

func TestRenderIncrementIsolatedPerCall(t *testing.T) {
	e := New(nil)
	tmpl := mustDecode(t, `{"id|+1": 100}`)
	for range 3 {
		out, err := e.Render(tmpl, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(100), field(t, out, "id"))
	}
}

func TestRenderIncrementKeysIndependent(t *testing.T) {
	e := New(nil)
	rc := &RenderContext{Counters: counter.Open()}
	defer rc.Counters.Close()

	a := mustDecode(t, `{"id1|+1": 100}`)
	b := mustDecode(t, `{"id2|+1": 200}`)
	var got []any
	for range 3 {
		out, err := e.Render(a, rc)
		require.NoError(t, err)
		got = append(got, field(t, out, "id1"))
		out, err = e.Render(b, rc)
		require.NoError(t, err)
		got = append(got, field(t, out, "id2"))
	}
	assert.Equal(t, []any{int64(100), int64(200), int64(101), int64(201), int64(102), int64(202)}, got)
}

func TestRenderIncrementSeparatePaths(t *testing.T) {
	out := render(t, `{"a": {"id|+1": 1}, "b": {"id|+1": 1}}`)
	assert.Equal(t, int64(1), field(t, field(t, out, "a"), "id"))
	assert.Equal(t, int64(1), field(t, field(t, out, "b"), "id"))
}

func TestRenderIncrementSeparatorNames(t *testing.T) {
	tests := []struct {
		name  string
		tmpl  string
		paths [][]string
	}{
		{
			name:  "dotted name and nested object",
			tmpl:  `{"a.b": {"id|+1": 1}, "a": {"b": {"id|+1": 1}}}`,
			paths: [][]string{{"a.b", "id"}, {"a", "b", "id"}},
		},
		{
			name:  "bracketed name and array",
			tmpl:  `{"a[]": {"id|+1": 1}, "a": [{"id|+1": 1}]}`,
			paths: [][]string{{"a[]", "id"}},
		},
		{
			name:  "quoted name",
			tmpl:  `{"[\"x\"]": {"id|+1": 1}, "x": {"id|+1": 1}}`,
			paths: [][]string{{`["x"]`, "id"}, {"x", "id"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, tt.tmpl)
			for _, path := range tt.paths {
				v := out
				for _, key := range path {
					v = field(t, v, key)
				}
				assert.Equal(t, int64(1), v, "path %v", path)
			}
		})
	}
}

func TestFrameSegments(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{[]string{"users", "id"}, "users.id"},
		{[]string{"a.b", "id"}, `["a.b"].id`},
		{[]string{"a", "b", "id"}, "a.b.id"},
		{[]string{"a", "x]"}, `a["x]"]`},
		{[]string{"", "id"}, `[""].id`},
	}
	for _, tt := range tests {
		var f frame
		for _, name := range tt.names {
			f = f.child(name)
		}
		assert.Equal(t, tt.want, f.key, "names %q", tt.names)
	}
	assert.Equal(t, `["a.b"][].id`, frame{}.child("a.b").index(3).child("id").key)
}

func TestRenderRangeInt64Edges(t *testing.T) {
	e := New(nil)
	tests := []struct {
		tmpl   string
		lo, hi int64
	}{
		{`{"n|9223372036854775000-9223372036854775807": 1}`, 9223372036854775000, math.MaxInt64},
		{`{"n|-9223372036854775808-9223372036854775807": 1}`, math.MinInt64, math.MaxInt64},
		{`{"n|9223372036854775807-9223372036854775807": 1}`, math.MaxInt64, math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			tmpl := mustDecode(t, tt.tmpl)
			for range 200 {
				out, err := e.Render(tmpl, nil)
				require.NoError(t, err)
				n, ok := field(t, out, "n").(int64)
				require.True(t, ok)
				require.GreaterOrEqual(t, n, tt.lo)
				require.LessOrEqual(t, n, tt.hi)
			}
		})
	}
}

func TestRenderRangeBoundOutOfRange(t *testing.T) {
	_, err := New(nil).Render(mustDecode(t, `{"n|0-99999999999999999999": 1}`), nil)
	var mre *rule.MalformedRuleError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, "bound out of range", mre.Reason)
}

func TestRenderProbability(t *testing.T) {
	e := New(nil)
	tmpl := mustDecode(t, `{"always|100": false, "never|0-1": true, "coin|1": true}`)
	heads := 0
	for range 1000 {
		out, err := e.Render(tmpl, nil)
		require.NoError(t, err)
		assert.Equal(t, true, field(t, out, "always"))
		assert.Equal(t, false, field(t, out, "never"))
		if field(t, out, "coin").(bool) {
			heads++
		}
	}
	assert.Greater(t, heads, 350)
	assert.Less(t, heads, 650)
}

func TestRenderRepeat(t *testing.T) {
	e := New(nil)
	tmpl := mustDecode(t, `{"stars|1-5": "*", "ab|2": "ab", "names|2": "@FIRST;"}`)
	for range 100 {
		out, err := e.Render(tmpl, nil)
		require.NoError(t, err)

		stars := field(t, out, "stars").(string)
		assert.Regexp(t, `^\*{1,5}$`, stars)
		assert.Equal(t, "abab", field(t, out, "ab"))
		names := field(t, out, "names").(string)
		assert.Equal(t, 2, strings.Count(names, ";"))
	}
}

func TestRenderPlaceholders(t *testing.T) {
	pool := locale.Embedded()
	firsts, err := pool.Get(language.English, "first")
	require.NoError(t, err)
	lasts, err := pool.Get(language.English, "last")
	require.NoError(t, err)

	out, err := New(nil).Render("@FIRST @LAST", &RenderContext{Locale: language.English})
	require.NoError(t, err)
	parts := strings.Split(out.(string), " ")
	require.Len(t, parts, 2)
	assert.Contains(t, firsts, parts[0])
	assert.Contains(t, lasts, parts[1])
}

func TestRenderPlaceholderLocale(t *testing.T) {
	pool := locale.Embedded()
	firsts, err := pool.Get(language.German, "first")
	require.NoError(t, err)

	for range 20 {
		out, err := New(nil).Render(NewMap().Set("name", "@FIRST"), &RenderContext{Locale: language.German})
		require.NoError(t, err)
		assert.Contains(t, firsts, field(t, out, "name"))
	}
}

func TestRenderPlaceholderNativeValue(t *testing.T) {
	out := render(t, `{"n": "@NATURAL(5,5)", "s": "n=@NATURAL(5,5)"}`)
	assert.Equal(t, int64(5), field(t, out, "n"))
	assert.Equal(t, "n=5", field(t, out, "s"))
}

func TestRenderEscapedAt(t *testing.T) {
	out := render(t, `{"email": "me\\@example.com"}`)
	assert.Equal(t, "me@example.com", field(t, out, "email"))
}

func TestRenderDuplicateNames(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tmpl := NewMap().Set("a|3", 1).Set("b", 2).Set("a", 9)
	out, err := New(nil, WithLogger(log)).Render(tmpl, nil)
	require.NoError(t, err)
	m := out.(*Map)
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, int64(9), field(t, out, "a"))
	assert.Contains(t, buf.String(), "duplicate property")
}

func TestRenderEscapedPipeKey(t *testing.T) {
	out := render(t, `{"a\\|b": 1, "c\\\\|2": 0}`)
	assert.Equal(t, []string{"a|b", `c\`}, out.(*Map).Keys())
	assert.Equal(t, int64(2), field(t, out, `c\`))
}

func TestRenderGoValues(t *testing.T) {
	type label string
	tmpl := map[string]any{
		"ints|2":  []int{7},
		"u":       uint8(4),
		"f":       float32(0.5),
		"label":   label("x"),
		"nested":  map[string]string{"k": "v"},
		"nothing": []string(nil),
	}
	out, err := New(nil).Render(tmpl, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(7), int64(7)}, field(t, out, "ints"))
	assert.Equal(t, int64(4), field(t, out, "u"))
	assert.Equal(t, 0.5, field(t, out, "f"))
	assert.Equal(t, "x", field(t, out, "label"))
	assert.Equal(t, "v", field(t, field(t, out, "nested"), "k"))
	assert.Nil(t, field(t, out, "nothing"))
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name  string
		tmpl  string
		path  string
		shape rule.Shape
	}{
		{"count on object", `{"user|2": {"a": 1}}`, "user", rule.ShapeObject},
		{"count on empty array", `{"list|2-3": []}`, "list", rule.ShapeArray},
		{"increment on fraction", `{"id|+1": 1.5}`, "id", rule.ShapeNumber},
		{"increment on string", `{"id|+1": "x"}`, "id", rule.ShapeString},
		{"increment on array", `{"id|+1": [1]}`, "id", rule.ShapeArray},
		{"fraction on string", `{"s|1.5-2": "x"}`, "s", rule.ShapeString},
		{"rule on null", `{"z|2": null}`, "z", rule.ShapeNull},
		{"nested path", `{"a": [{"b": {"c|+1": "x"}}]}`, "a[0].b.c", rule.ShapeString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).Render(mustDecode(t, tt.tmpl), nil)
			var mismatch *RuleTypeMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tt.path, mismatch.Path)
			assert.Equal(t, tt.shape, mismatch.Shape)
			assert.NotEmpty(t, mismatch.Hint())
		})
	}
}

func TestRenderMalformedRule(t *testing.T) {
	_, err := New(nil).Render(mustDecode(t, `{"ok": 1, "bad|x-y": 1}`), nil)
	var malformed *rule.MalformedRuleError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, err.Error(), "bad")
}

func TestRenderUnknownPlaceholder(t *testing.T) {
	_, err := New(nil).Render(mustDecode(t, `{"a": {"b": "@NOPE_NOT_A_THING"}}`), nil)
	var unknown *placeholder.UnknownPlaceholderError
	require.ErrorAs(t, err, &unknown)
	assert.True(t, strings.HasPrefix(err.Error(), "a.b: "), err.Error())
}

func TestRenderUnsupportedValue(t *testing.T) {
	_, err := New(nil).Render(map[string]any{"x": struct{}{}}, nil)
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestRenderRecursionLimit(t *testing.T) {
	var tmpl any = "leaf"
	for range 10 {
		tmpl = []any{tmpl}
	}
	_, err := New(nil, WithMaxDepth(5)).Render(tmpl, nil)
	var limit *RecursionLimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, 5, limit.Limit)

	_, err = New(nil, WithMaxDepth(10)).Render(tmpl, nil)
	assert.NoError(t, err)
}

func TestRenderFailsWhole(t *testing.T) {
	rc := &RenderContext{Counters: counter.Open()}
	defer rc.Counters.Close()
	_, err := New(nil).Render(mustDecode(t, `{"id|+1": 1, "bad|2": {}}`), rc)
	require.Error(t, err)
	assert.Equal(t, 1, rc.Counters.Len(), "counters advanced before the failure stay in the caller's store")
}

func TestRenderSeeded(t *testing.T) {
	tmpl := mustDecode(t, `{"users|3-6": [{"name": "@FIRST", "age|18-90": 0, "ok|1": true}]}`)
	first, err := New(nil).Render(tmpl, &RenderContext{Rand: rng.New(42)})
	require.NoError(t, err)
	second, err := New(nil).Render(tmpl, &RenderContext{Rand: rng.New(42)})
	require.NoError(t, err)
	assert.Equal(t, first.(*Map).ToPlain(), second.(*Map).ToPlain())
}

func TestRenderConcurrent(t *testing.T) {
	e := New(nil)
	tmpl := mustDecode(t, `{"items|20": [{"id|+1": 1, "name": "@WORD"}]}`)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := e.Render(tmpl, nil)
			if err != nil {
				errs <- err
				return
			}
			items, _ := out.(*Map).Get("items")
			for i, it := range items.([]any) {
				id, _ := it.(*Map).Get("id")
				if id != int64(i+1) {
					errs <- errors.New("counter leaked between calls")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

type stubResolver struct{ calls int }

func (s *stubResolver) Evaluate(text string, env placeholder.Env) (any, error) {
	s.calls++
	return strings.ToUpper(text) + "/" + env.Locale.String(), nil
}

func TestRenderCustomResolver(t *testing.T) {
	stub := &stubResolver{}
	out, err := New(stub).Render([]any{"@x", "y"}, &RenderContext{Locale: language.French})
	require.NoError(t, err)
	assert.Equal(t, []any{"@X/fr", "y"}, out)
	assert.Equal(t, 1, stub.calls)
}
