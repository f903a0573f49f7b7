package placeholder

import "fmt"

// UnknownPlaceholderError is returned when a placeholder name matches no
// custom generator, no built-in, and no data category of the active locale.
type UnknownPlaceholderError struct {
	Name   string
	Locale string
}

func (e *UnknownPlaceholderError) Error() string {
	if e.Locale != "" {
		return fmt.Sprintf("unknown placeholder @%s for locale %q", e.Name, e.Locale)
	}
	return fmt.Sprintf("unknown placeholder @%s", e.Name)
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *UnknownPlaceholderError) Hint() string {
	return "Run 'mockgen placeholders' to list known names, or write \\@ for a literal '@'."
}

// ArgumentError is returned when a placeholder rejects its arguments, or
// when its argument list cannot be parsed.
type ArgumentError struct {
	Name   string
	Index  int // -1 when the error concerns the whole argument list
	Value  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("@%s: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("@%s: argument %d (%q): %s", e.Name, e.Index+1, e.Value, e.Reason)
}
