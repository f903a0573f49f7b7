package rule

import (
	"math"
	"strconv"
)

// Kind identifies a rule variant.
type Kind int

// Rule kinds.
const (
	KindNone Kind = iota
	KindCount
	KindRange
	KindIncrement
	KindProbability
	KindRepeat
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCount:
		return "count"
	case KindRange:
		return "range"
	case KindIncrement:
		return "increment"
	case KindProbability:
		return "probability"
	case KindRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// Rule is a generation rule. The set of implementations is closed: None,
// Count, Range, Increment, Probability and Repeat.
type Rule interface {
	Kind() Kind
	// String returns the canonical suffix form, without the leading '|'.
	String() string
	sealed()
}

// None is the rule of a key without a suffix.
type None struct{}

// Count governs array length. Bounds are inclusive.
type Count struct {
	Min int
	Max int
}

// Range governs numeric values. Bounds are inclusive.
type Range struct {
	Min float64
	Max float64
	// Integer is true when both bounds were written without a fraction and
	// no decimal spec was given. Lo and Hi then hold the exact bounds.
	Integer bool
	Lo      int64
	Hi      int64
	// Decimals is the optional number of decimal places to round to.
	Decimals *Decimals
}

// IntRange returns the integer range [lo, hi].
func IntRange(lo, hi int64) Range {
	return Range{Min: float64(lo), Max: float64(hi), Integer: true, Lo: lo, Hi: hi}
}

// Decimals is an inclusive range of decimal places.
type Decimals struct {
	Min int
	Max int
}

// Increment advances a per-call counter by Step on every occurrence.
type Increment struct {
	Step int64
}

// Probability yields true with probability Percent/100.
type Probability struct {
	Percent float64
}

// Repeat concatenates a string with itself between Min and Max times.
type Repeat struct {
	Min int
	Max int
}

func (None) Kind() Kind        { return KindNone }
func (Count) Kind() Kind       { return KindCount }
func (Range) Kind() Kind       { return KindRange }
func (Increment) Kind() Kind   { return KindIncrement }
func (Probability) Kind() Kind { return KindProbability }
func (Repeat) Kind() Kind      { return KindRepeat }

func (None) sealed()        {}
func (Count) sealed()       {}
func (Range) sealed()       {}
func (Increment) sealed()   {}
func (Probability) sealed() {}
func (Repeat) sealed()      {}

func (None) String() string { return "" }

func (r Count) String() string { return minMax(r.Min, r.Max) }

func (r Range) String() string {
	if r.Integer && r.Decimals == nil {
		return strconv.FormatInt(r.Lo, 10) + "-" + strconv.FormatInt(r.Hi, 10)
	}
	s := formatBound(r.Min) + "-" + formatBound(r.Max)
	if r.Decimals != nil {
		s += "." + minMax(r.Decimals.Min, r.Decimals.Max)
	}
	return s
}

func (r Increment) String() string { return "+" + strconv.FormatInt(r.Step, 10) }

func (r Probability) String() string { return formatBound(r.Percent) + "%" }

func (r Repeat) String() string { return minMax(r.Min, r.Max) }

// Fractional reports whether the range cannot be read as a pair of
// integer bounds.
func (r Range) Fractional() bool {
	return !r.Integer || r.Decimals != nil
}

func minMax(lo, hi int) string {
	if lo == hi {
		return strconv.Itoa(lo)
	}
	return strconv.Itoa(lo) + "-" + strconv.Itoa(hi)
}

func formatBound(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
