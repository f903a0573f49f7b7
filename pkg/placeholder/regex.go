package placeholder

import (
	"fmt"
	"regexp/syntax"
	"strings"
	"unicode"
)

const (
	// maxUnbounded is how many repetitions beyond the minimum an unbounded
	// repeat (*, +, {n,}) may produce.
	maxUnbounded = 8
	// maxRegexOutput bounds the generated string length in runes.
	maxRegexOutput = 4096
)

// genRegex implements @REGEX(pattern): a random string matching pattern.
// Anchors and word boundaries produce no output. Unquoted patterns that
// contain commas, such as [a-z]{2,4}, arrive split and are rejoined.
func genRegex(c *Call) (any, error) {
	if !c.HasArg(0) {
		return nil, c.argError(0, "pattern required")
	}
	re, err := syntax.Parse(strings.Join(c.Args, ","), syntax.Perl)
	if err != nil {
		return nil, c.argError(0, err.Error())
	}
	g := &regexGen{c: c}
	if err := g.walk(re); err != nil {
		return nil, c.argError(0, err.Error())
	}
	return g.b.String(), nil
}

type regexGen struct {
	c *Call
	b strings.Builder
	n int
}

func (g *regexGen) emit(r rune) error {
	g.n++
	if g.n > maxRegexOutput {
		return fmt.Errorf("generated string longer than %d characters", maxRegexOutput)
	}
	g.b.WriteRune(r)
	return nil
}

func (g *regexGen) walk(re *syntax.Regexp) error {
	switch re.Op {
	case syntax.OpEmptyMatch, syntax.OpNoMatch,
		syntax.OpBeginLine, syntax.OpEndLine, syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return nil

	case syntax.OpLiteral:
		for _, r := range re.Rune {
			if re.Flags&syntax.FoldCase != 0 && g.c.Rand.Chance(50) {
				r = swapCase(r)
			}
			if err := g.emit(r); err != nil {
				return err
			}
		}
		return nil

	case syntax.OpCharClass:
		r, ok := g.pickClass(re.Rune)
		if !ok {
			return fmt.Errorf("empty character class")
		}
		return g.emit(r)

	case syntax.OpAnyCharNotNL, syntax.OpAnyChar:
		return g.emit(rune(' ' + g.c.Rand.IntN('~'-' '+1)))

	case syntax.OpCapture:
		return g.walk(re.Sub[0])

	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if err := g.walk(sub); err != nil {
				return err
			}
		}
		return nil

	case syntax.OpAlternate:
		return g.walk(re.Sub[g.c.Rand.IntN(len(re.Sub))])

	case syntax.OpStar:
		return g.repeat(re.Sub[0], 0, -1)
	case syntax.OpPlus:
		return g.repeat(re.Sub[0], 1, -1)
	case syntax.OpQuest:
		return g.repeat(re.Sub[0], 0, 1)
	case syntax.OpRepeat:
		return g.repeat(re.Sub[0], re.Min, re.Max)
	}
	return fmt.Errorf("unsupported expression %s", re)
}

// repeat walks sub between lo and hi times. A negative hi is unbounded.
func (g *regexGen) repeat(sub *syntax.Regexp, lo, hi int) error {
	if hi < 0 {
		hi = lo + maxUnbounded
	}
	n := g.c.Rand.IntBetween(lo, hi)
	for i := 0; i < n; i++ {
		if err := g.walk(sub); err != nil {
			return err
		}
	}
	return nil
}

// pickClass picks a rune from the ranges of a character class, preferring
// printable ASCII when the class allows it.
func (g *regexGen) pickClass(ranges []rune) (rune, bool) {
	if len(ranges) == 0 {
		return 0, false
	}
	printable := clipRanges(ranges, ' ', '~')
	if len(printable) > 0 {
		ranges = printable
	}
	total := 0
	for i := 0; i+1 < len(ranges); i += 2 {
		total += int(ranges[i+1]-ranges[i]) + 1
	}
	k := g.c.Rand.IntN(total)
	for i := 0; i+1 < len(ranges); i += 2 {
		size := int(ranges[i+1]-ranges[i]) + 1
		if k < size {
			return ranges[i] + rune(k), true
		}
		k -= size
	}
	return ranges[0], true
}

// clipRanges intersects rune pairs with [lo, hi].
func clipRanges(ranges []rune, lo, hi rune) []rune {
	var out []rune
	for i := 0; i+1 < len(ranges); i += 2 {
		a, b := max(ranges[i], lo), min(ranges[i+1], hi)
		if a <= b {
			out = append(out, a, b)
		}
	}
	return out
}

func swapCase(r rune) rune {
	if unicode.IsUpper(r) {
		return unicode.ToLower(r)
	}
	return unicode.ToUpper(r)
}
