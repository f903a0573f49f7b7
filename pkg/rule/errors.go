package rule

import "fmt"

// MalformedRuleError is returned when a key suffix matches none of the
// recognized rule forms, or matches one but carries invalid bounds.
type MalformedRuleError struct {
	Suffix string
	Reason string
}

func (e *MalformedRuleError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed rule %q: %s", e.Suffix, e.Reason)
	}
	return fmt.Sprintf("malformed rule %q", e.Suffix)
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *MalformedRuleError) Hint() string {
	return "Valid rule forms are +step, min-max, n, min-max.d and min-max.d1-d2 (e.g. \"tags|2-5\", \"id|+1\", \"score|1-100.2\")."
}
