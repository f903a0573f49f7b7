package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/getmockd/mockgen/pkg/introspect"
	"github.com/getmockd/mockgen/pkg/locale"
	"github.com/getmockd/mockgen/pkg/placeholder"
	"github.com/getmockd/mockgen/pkg/rule"
	"github.com/getmockd/mockgen/pkg/template"
)

func field(t *testing.T, v any, key string) any {
	t.Helper()
	m, ok := v.(*template.Map)
	require.True(t, ok, "expected *template.Map, got %T", v)
	got, ok := m.Get(key)
	require.True(t, ok, "missing key %q", key)
	return got
}

func usersTemplate() any {
	return map[string]any{
		"users|3": []any{map[string]any{"id|+1": 1, "name": "@FIRST"}},
	}
}

func ids(t *testing.T, out any) []any {
	t.Helper()
	var got []any
	for _, u := range field(t, out, "users").([]any) {
		got = append(got, field(t, u, "id"))
	}
	return got
}

func TestGenerateCountersPerCall(t *testing.T) {
	g := New()
	for range 3 {
		out, err := g.Generate(usersTemplate())
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2), int64(3)}, ids(t, out))
	}
}

func TestGenerateConcurrent(t *testing.T) {
	g := New()
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for range 32 {
		wg.Go(func() {
			out, err := g.Generate(usersTemplate())
			if err != nil {
				errs <- err
				return
			}
			users := out.(*template.Map)
			list, _ := users.Get("users")
			for i, u := range list.([]any) {
				id, _ := u.(*template.Map).Get("id")
				if id != int64(i+1) {
					errs <- errors.New("counter leaked between calls")
					return
				}
			}
		})
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestGenerateLocale(t *testing.T) {
	pool, err := locale.Parse([]byte(`
en:
  first: [Alice]
de:
  first: [Jürgen]
`))
	require.NoError(t, err)

	g := New(WithPool(pool))
	tmpl := map[string]any{"name": "@FIRST"}

	out, err := g.Generate(tmpl)
	require.NoError(t, err)
	assert.Equal(t, "Alice", field(t, out, "name"))

	out, err = g.GenerateWithLocale(tmpl, language.German)
	require.NoError(t, err)
	assert.Equal(t, "Jürgen", field(t, out, "name"))
	assert.Equal(t, language.English, g.Locales().Current(), "per-call locale leaves the manager alone")

	require.NoError(t, g.Locales().Set(language.German))
	out, err = g.Generate(tmpl)
	require.NoError(t, err)
	assert.Equal(t, "Jürgen", field(t, out, "name"))

	var unsupported *locale.UnsupportedLocaleError
	assert.ErrorAs(t, g.Locales().Set(language.Japanese), &unsupported)
}

func TestGenerateLocaleManagerIsolation(t *testing.T) {
	m := locale.NewManager(locale.Embedded())
	g := New(WithLocaleManager(m))
	require.NoError(t, m.SetString("de"))
	assert.Equal(t, language.German, g.Locales().Current())
	assert.Equal(t, language.English, locale.CurrentLocale(), "default manager untouched")
}

func TestGenerateErrorsReleaseCounters(t *testing.T) {
	g := New()
	tests := []struct {
		name  string
		tmpl  any
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown placeholder",
			tmpl: map[string]any{"id|+1": 1, "x": "@NOPE"},
			check: func(t *testing.T, err error) {
				var target *placeholder.UnknownPlaceholderError
				assert.ErrorAs(t, err, &target)
			},
		},
		{
			name: "malformed rule",
			tmpl: map[string]any{"id|+1": 1, "x|a-b": 1},
			check: func(t *testing.T, err error) {
				var target *rule.MalformedRuleError
				assert.ErrorAs(t, err, &target)
			},
		},
		{
			name: "mismatched rule",
			tmpl: map[string]any{"id|+1": 1, "x|2": map[string]any{}},
			check: func(t *testing.T, err error) {
				var target *template.RuleTypeMismatchError
				assert.ErrorAs(t, err, &target)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(tt.tmpl)
			require.Error(t, err)
			tt.check(t, err)

			out, err := g.Generate(map[string]any{"id|+1": 1})
			require.NoError(t, err)
			assert.Equal(t, int64(1), field(t, out, "id"))
		})
	}
}

func TestGenerateJSONKeepsOrder(t *testing.T) {
	got, err := New().GenerateJSON([]byte(`{"z|+1": 5, "a": "x", "m|2": ["@BOOLEAN"]}`))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(got, &decoded))
	assert.EqualValues(t, 5, decoded["z"])
	assert.Equal(t, "x", decoded["a"])
	assert.Len(t, decoded["m"], 2)

	s := string(got)
	assert.Less(t, strings.Index(s, `"z"`), strings.Index(s, `"a"`))
	assert.Less(t, strings.Index(s, `"a"`), strings.Index(s, `"m"`))

	_, err = New().GenerateJSON([]byte(`{"a":`))
	assert.ErrorIs(t, err, template.ErrInvalidTemplate)
}

func TestGenerateN(t *testing.T) {
	out, err := New().GenerateN(map[string]any{"n|+1": 7}, 4)
	require.NoError(t, err)
	require.Len(t, out, 4)
	for _, v := range out {
		assert.Equal(t, int64(7), field(t, v, "n"))
	}

	out, err = New().GenerateN(map[string]any{"n": 1}, 0)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = New().GenerateN(map[string]any{"n": 1}, -1)
	assert.Error(t, err)
}

func TestWithSeed(t *testing.T) {
	tmpl := map[string]any{"n|1-1000": 0, "w": "@WORD", "f|1-10.2": 0}
	a, err := New(WithSeed(7)).Generate(tmpl)
	require.NoError(t, err)
	b, err := New(WithSeed(7)).Generate(tmpl)
	require.NoError(t, err)
	assert.Equal(t, a.(*template.Map).ToPlain(), b.(*template.Map).ToPlain())
}

func TestWithMaxDepth(t *testing.T) {
	var tmpl any = "leaf"
	for range 6 {
		tmpl = []any{tmpl}
	}
	_, err := New(WithMaxDepth(3)).Generate(tmpl)
	var limit *template.RecursionLimitError
	assert.ErrorAs(t, err, &limit)

	_, err = New().Generate(tmpl)
	assert.NoError(t, err)
}

func TestWithResolver(t *testing.T) {
	r := placeholder.New(nil)
	require.NoError(t, r.Register("TEAM", func(*placeholder.Call) (any, error) {
		return "platform", nil
	}))
	g := New(WithResolver(r))
	out, err := g.Generate(map[string]any{"team": "@TEAM"})
	require.NoError(t, err)
	assert.Equal(t, "platform", field(t, out, "team"))
	assert.Same(t, r, g.Resolver())
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := New(WithLogger(log)).Generate(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "generate finished")
	assert.Contains(t, buf.String(), "locale=en")
}

func TestFromType(t *testing.T) {
	type order struct {
		ID    int      `json:"id" mock:"rule=+1"`
		Items []string `json:"items" mock:"rule=2;placeholder=@WORD"`
		Total float64  `json:"total"`
	}
	out, err := New().FromType(order{}, introspect.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(1), field(t, out, "id"))
	assert.Len(t, field(t, out, "items"), 2)
	total := field(t, out, "total").(float64)
	assert.GreaterOrEqual(t, total, 1.0)
	assert.LessOrEqual(t, total, 100.0)

	_, err = New().FromType(42, introspect.Config{})
	assert.Error(t, err)
}

type address struct {
	City string `json:"city" mock:"placeholder=@CITY"`
	Zip  string `json:"zip" mock:"placeholder=@STRING(number,5,5)"`
}

type account struct {
	ID      int               `json:"id" mock:"rule=+7"`
	Name    string            `json:"name" mock:"placeholder=@FIRST"`
	Tags    []string          `json:"tags" mock:"rule=3;placeholder=@WORD"`
	Score   float64           `json:"score"`
	Visits  uint16            `json:"visits"`
	Active  bool              `json:"active"`
	Created time.Time         `json:"created"`
	Home    address           `json:"home"`
	Backup  *address          `json:"backup"`
	Labels  map[string]string `json:"labels"`
	Secret  string            `json:"-"`
	Note    string            `mock:"-"`
}

func TestInto(t *testing.T) {
	acc, err := Into[account](New(WithSeed(3)), introspect.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, acc.ID)
	assert.NotEmpty(t, acc.Name)
	assert.Len(t, acc.Tags, 3)
	for _, tag := range acc.Tags {
		assert.NotEmpty(t, tag)
	}
	assert.GreaterOrEqual(t, acc.Score, 1.0)
	assert.LessOrEqual(t, acc.Score, 100.0)
	assert.LessOrEqual(t, acc.Visits, uint16(99))
	assert.False(t, acc.Created.IsZero())
	assert.NotEmpty(t, acc.Home.City)
	assert.Len(t, acc.Home.Zip, 5)
	require.NotNil(t, acc.Backup)
	assert.NotEmpty(t, acc.Backup.City)
	assert.Len(t, acc.Labels, 1)
	assert.Empty(t, acc.Secret)
	assert.Empty(t, acc.Note)
}

func TestIntoPointer(t *testing.T) {
	acc, err := Into[*account](New(), introspect.DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, 1, acc.ID)
}

func TestFill(t *testing.T) {
	acc := account{Note: "kept"}
	require.NoError(t, New().Fill(&acc, introspect.DefaultConfig()))
	assert.Equal(t, 1, acc.ID)
	assert.Equal(t, "kept", acc.Note)

	assert.Error(t, New().Fill(acc, introspect.DefaultConfig()))
	assert.Error(t, New().Fill((*account)(nil), introspect.DefaultConfig()))

	n := 0
	assert.Error(t, New().Fill(&n, introspect.DefaultConfig()))
}

func TestPackageLevel(t *testing.T) {
	out, err := Generate(map[string]any{"ok|1": true})
	require.NoError(t, err)
	assert.IsType(t, true, field(t, out, "ok"))

	b, err := GenerateJSON([]byte("a: 1\n"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b))
}
