package placeholder

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// =============================================================================
// Text
// =============================================================================

func genWord(c *Call) (any, error) {
	words, err := c.Data("word")
	if err != nil {
		return nil, err
	}
	if !c.HasArg(0) {
		return c.Rand.Pick(words), nil
	}

	lo, hi, err := c.IntRange(0, 3, 10)
	if err != nil {
		return nil, err
	}
	if lo < 1 {
		return nil, c.argError(0, "length must be positive")
	}
	return wordOfLength(c, words, c.Rand.IntBetween(lo, hi)), nil
}

// wordOfLength concatenates random words until n runes are available and
// cuts the result to exactly n runes.
func wordOfLength(c *Call, words []string, n int) string {
	var b strings.Builder
	count := 0
	for count < n {
		w := c.Rand.Pick(words)
		b.WriteString(w)
		count += utf8.RuneCountInString(w)
	}
	runes := []rune(b.String())
	return string(runes[:n])
}

// words returns n random words joined with the locale's separator.
func words(c *Call, n int) (string, error) {
	pool, err := c.Data("word")
	if err != nil {
		return "", err
	}
	sep := c.PickOr(" ", "sentence.separator")
	parts := make([]string, n)
	for i := range parts {
		parts[i] = c.Rand.Pick(pool)
	}
	return strings.Join(parts, sep), nil
}

func genWords(c *Call) (any, error) {
	lo, hi, err := c.IntRange(0, 3, 3)
	if err != nil {
		return nil, err
	}
	if lo < 0 {
		return nil, c.argError(0, "count must not be negative")
	}
	return words(c, c.Rand.IntBetween(lo, hi))
}

func sentence(c *Call, lo, hi int) (string, error) {
	s, err := words(c, c.Rand.IntBetween(lo, hi))
	if err != nil {
		return "", err
	}
	return capitalize(c, s) + c.PickOr(".", "sentence.end"), nil
}

func genSentence(c *Call) (any, error) {
	lo, hi, err := c.IntRange(0, 12, 18)
	if err != nil {
		return nil, err
	}
	if lo < 1 {
		return nil, c.argError(0, "word count must be positive")
	}
	return sentence(c, lo, hi)
}

func genParagraph(c *Call) (any, error) {
	lo, hi, err := c.IntRange(0, 3, 7)
	if err != nil {
		return nil, err
	}
	if lo < 1 {
		return nil, c.argError(0, "sentence count must be positive")
	}
	sep := c.PickOr(" ", "sentence.separator")
	n := c.Rand.IntBetween(lo, hi)
	parts := make([]string, n)
	for i := range parts {
		if parts[i], err = sentence(c, 12, 18); err != nil {
			return nil, err
		}
	}
	return strings.Join(parts, sep), nil
}

func genTitle(c *Call) (any, error) {
	lo, hi, err := c.IntRange(0, 3, 7)
	if err != nil {
		return nil, err
	}
	if lo < 1 {
		return nil, c.argError(0, "word count must be positive")
	}
	s, err := words(c, c.Rand.IntBetween(lo, hi))
	if err != nil {
		return nil, err
	}
	return cases.Title(c.Locale).String(s), nil
}

// capitalize upper-cases the first rune of s using the call's locale.
func capitalize(c *Call, s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(c.Locale).String(string(r)) + s[size:]
}

func genCapitalize(c *Call) (any, error) {
	return capitalize(c, c.Arg(0)), nil
}

func genUpper(c *Call) (any, error) {
	return cases.Upper(c.Locale).String(c.Arg(0)), nil
}

func genLower(c *Call) (any, error) {
	return cases.Lower(c.Locale).String(c.Arg(0)), nil
}

// =============================================================================
// Person
// =============================================================================

func genFirst(c *Call) (any, error) {
	return c.Pick("first")
}

func genLast(c *Call) (any, error) {
	return c.Pick("last")
}

// genName formats a full name with the locale's name format, e.g.
// "{first} {last}" for en and "{last}{first}" for zh.
func genName(c *Call) (any, error) {
	first, err := c.Pick("first")
	if err != nil {
		return nil, err
	}
	last, err := c.Pick("last")
	if err != nil {
		return nil, err
	}
	format := c.PickOr("{first} {last}", "nameformat")
	return strings.NewReplacer("{first}", first, "{last}", last).Replace(format), nil
}

func genJobTitle(c *Call) (any, error) {
	if !isEnglish(c) {
		return c.Pick("profession")
	}
	return c.Rand.Pick(jobLevels) + " " + c.Rand.Pick(jobFields) + " " + c.Rand.Pick(jobRoles), nil
}

func isEnglish(c *Call) bool {
	base, _ := c.Locale.Base()
	return base.String() == "en"
}
