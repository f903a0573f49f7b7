package placeholder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprEnv is the environment custom expression placeholders run against.
type exprEnv struct {
	Args   []string `expr:"args"`
	Locale string   `expr:"locale"`

	Natural func(lo, hi any) (int64, error)             `expr:"natural"`
	Float   func(lo, hi any) (float64, error)           `expr:"float"`
	Pick    func(list any) (any, error)                 `expr:"pick"`
	Bool    func(pct any) (bool, error)                 `expr:"bool"`
	Word    func() (string, error)                      `expr:"word"`
	Call    func(name string, args ...any) (any, error) `expr:"call"`
}

// RegisterExpr compiles an expr-lang expression and registers it as a
// custom placeholder. The expression sees the placeholder arguments as
// args, the locale tag as locale, and the helpers natural(min, max),
// float(min, max), pick(list), bool(pct), word() and call(name, args...).
//
//	r.RegisterExpr("DICE", `natural(1, 6) + natural(1, 6)`)
//	r.RegisterExpr("GREETING", `pick(["hi", "hello"]) + ", " + call("FIRST")`)
func (r *Resolver) RegisterExpr(name, source string) error {
	program, err := expr.Compile(source, expr.Env(exprEnv{}), expr.DisableBuiltin("float"))
	if err != nil {
		return &ArgumentError{Name: name, Index: -1, Value: source, Reason: fmt.Sprintf("compile expression: %v", err)}
	}
	return r.Register(name, exprFunc(program))
}

func exprFunc(program *vm.Program) Func {
	return func(c *Call) (any, error) {
		out, err := expr.Run(program, newExprEnv(c))
		if err != nil {
			return nil, fmt.Errorf("@%s: %w", c.Name, err)
		}
		if n, ok := out.(int); ok {
			return int64(n), nil
		}
		return out, nil
	}
}

func newExprEnv(c *Call) exprEnv {
	return exprEnv{
		Args:   c.Args,
		Locale: c.Locale.String(),
		Natural: func(lo, hi any) (int64, error) {
			a, err := toInt64(lo)
			if err != nil {
				return 0, err
			}
			b, err := toInt64(hi)
			if err != nil {
				return 0, err
			}
			return c.Rand.Between(a, b), nil
		},
		Float: func(lo, hi any) (float64, error) {
			a, err := toFloat64(lo)
			if err != nil {
				return 0, err
			}
			b, err := toFloat64(hi)
			if err != nil {
				return 0, err
			}
			return c.Rand.FloatBetween(a, b), nil
		},
		Pick: func(list any) (any, error) {
			v := reflect.ValueOf(list)
			if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
				return nil, fmt.Errorf("pick: expected a list, got %T", list)
			}
			if v.Len() == 0 {
				return nil, nil
			}
			return v.Index(c.Rand.IntN(v.Len())).Interface(), nil
		},
		Bool: func(pct any) (bool, error) {
			p, err := toFloat64(pct)
			if err != nil {
				return false, err
			}
			return c.Rand.Chance(p), nil
		},
		Word: func() (string, error) {
			return c.Pick("word")
		},
		Call: func(name string, args ...any) (any, error) {
			strs := make([]string, len(args))
			for i, a := range args {
				strs[i] = Format(a)
			}
			return c.Invoke(name, strs...)
		},
	}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	}
	return 0, fmt.Errorf("expected an integer, got %T", v)
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}
