package template

import (
	"fmt"

	"github.com/getmockd/mockgen/pkg/rule"
)

// RuleTypeMismatchError is returned when a rule cannot apply to the shape
// of the value it governs, such as a count on an object or an increment on
// a string.
type RuleTypeMismatchError struct {
	Path   string
	Rule   rule.Rule
	Shape  rule.Shape
	Reason string
}

func (e *RuleTypeMismatchError) Error() string {
	msg := fmt.Sprintf("%s: %s rule %q cannot apply to %s", displayPath(e.Path), e.Rule.Kind(), e.Rule.String(), e.Shape)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *RuleTypeMismatchError) Hint() string {
	switch e.Shape {
	case rule.ShapeObject, rule.ShapeNull:
		return "Objects and nulls take no rule; move the rule to an array or scalar key."
	case rule.ShapeArray:
		return "Arrays take a count such as |3 or |1-5, and need at least one example element."
	case rule.ShapeBool:
		return "Booleans take |1 (50/50), |n (n percent) or |a-b (a in a+b)."
	case rule.ShapeString, rule.ShapePlaceholder:
		return "Strings take a repeat count such as |3 or |1-3."
	}
	return "Numbers take |min-max, |min-max.d or |+step with an integer start value."
}

// RecursionLimitError is returned when a template nests deeper than the
// engine's limit.
type RecursionLimitError struct {
	Path  string
	Limit int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("%s: template nested deeper than %d levels", displayPath(e.Path), e.Limit)
}

func displayPath(p string) string {
	if p == "" {
		return "$"
	}
	return p
}
