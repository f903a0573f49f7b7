package template

import (
	"strings"

	"github.com/getmockd/mockgen/pkg/rule"
)

var keyEscaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`)

// Key builds a ruled key from a property name and a parsed rule, escaping
// '|' and '\' in the name:
//
//	template.NewMap().
//		Set(template.Key("id", rule.Increment{Step: 1}), 100).
//		Set(template.Key("tags", rule.Count{Min: 2, Max: 5}), []any{"@WORD"})
//
// Rules are written in their suffix form, so only the forms rule.Parse
// produces (None, Count, Range, Increment) round-trip.
func Key(name string, r rule.Rule) string {
	escaped := name
	if strings.ContainsAny(name, `|\`) {
		escaped = keyEscaper.Replace(name)
	}
	if r == nil {
		return escaped
	}
	if _, ok := r.(rule.None); ok {
		return escaped
	}
	return escaped + "|" + r.String()
}
