package placeholder

import (
	"errors"
	"strings"
)

// segment is either literal text or a placeholder call.
type segment struct {
	literal string
	call    *callExpr
}

// callExpr is a parsed @Name(args) occurrence.
type callExpr struct {
	name string // as written
	args []argExpr
	raw  string
}

// argExpr is one argument. Quoted arguments are literal; unquoted ones may
// contain nested placeholders.
type argExpr struct {
	text   string
	quoted bool
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// Contains reports whether text holds at least one placeholder.
func Contains(text string) bool {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			if i+1 < len(text) && text[i+1] == '@' {
				i++
			}
		case '@':
			if i+1 < len(text) && isLetter(text[i+1]) {
				return true
			}
		}
	}
	return false
}

// scan splits text into literal and placeholder segments. "\@" is a literal
// '@', and an '@' not followed by a letter is literal text.
func scan(text string) ([]segment, error) {
	var segs []segment
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); {
		c := text[i]
		if c == '\\' && i+1 < len(text) && text[i+1] == '@' {
			lit.WriteByte('@')
			i += 2
			continue
		}
		if c != '@' || i+1 >= len(text) || !isLetter(text[i+1]) {
			lit.WriteByte(c)
			i++
			continue
		}

		start := i
		j := i + 1
		for j < len(text) && isIdentChar(text[j]) {
			j++
		}
		call := &callExpr{name: text[i+1 : j]}

		if j < len(text) && text[j] == '(' {
			end, err := matchParen(text, j)
			if err != nil {
				return nil, &ArgumentError{Name: call.name, Index: -1, Reason: err.Error()}
			}
			call.args = splitArgs(text[j+1 : end])
			j = end + 1
		}
		call.raw = text[start:j]

		flush()
		segs = append(segs, segment{call: call})
		i = j
	}
	flush()
	return segs, nil
}

// matchParen returns the index of the ')' closing the '(' at open,
// skipping quoted sections and nested parentheses.
func matchParen(text string, open int) (int, error) {
	depth := 0
	var quote byte
	for i := open; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(text) {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	if quote != 0 {
		return 0, errors.New("unterminated quoted argument")
	}
	return 0, errors.New("missing closing parenthesis")
}

// splitArgs splits an argument list on top-level commas, respecting quotes
// and nested parentheses.
func splitArgs(s string) []argExpr {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var args []argExpr
	var current strings.Builder
	depth := 0
	var quote byte

	emit := func() {
		args = append(args, parseArg(current.String()))
		current.Reset()
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(s) {
				current.WriteByte(c)
				i++
				c = s[i]
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			emit()
			continue
		}
		current.WriteByte(c)
	}
	emit()
	return args
}

// parseArg trims an argument and strips matching quotes. Inside quotes a
// backslash escapes a quote or another backslash; other backslash
// sequences such as \d are kept as written.
func parseArg(s string) argExpr {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		inner := s[1 : len(s)-1]
		if !strings.Contains(inner, `\`) {
			return argExpr{text: inner, quoted: true}
		}
		var b strings.Builder
		for i := 0; i < len(inner); i++ {
			if inner[i] == '\\' && i+1 < len(inner) && strings.IndexByte(`\'"`, inner[i+1]) >= 0 {
				i++
			}
			b.WriteByte(inner[i])
		}
		return argExpr{text: b.String(), quoted: true}
	}
	return argExpr{text: s}
}
