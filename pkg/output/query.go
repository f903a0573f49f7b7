package output

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// Query evaluates a JSONPath expression such as "$.users[*].email"
// against v. A single match is returned as is; several matches, or a path
// with wildcards or filters, return a []any. No match returns nil.
//
// Matched objects are plain maps, so their keys encode sorted.
func Query(v any, path string) (any, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", path, err)
	}
	results := expr.Get(toPlain(v))
	switch {
	case len(results) == 0:
		return nil, nil
	case len(results) == 1 && !multiple(expr):
		return results[0], nil
	}
	return results, nil
}

// multiple reports whether expr can select more than one value.
func multiple(expr jp.Expr) bool {
	for _, frag := range expr {
		switch frag.(type) {
		case jp.Wildcard, jp.Descent, jp.Union, jp.Slice, *jp.Filter:
			return true
		}
	}
	return false
}
