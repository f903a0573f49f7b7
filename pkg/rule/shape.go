package rule

import "math"

// Shape classifies the template value a rule governs.
type Shape int

// Template shapes.
const (
	ShapeNull Shape = iota
	ShapeObject
	ShapeArray
	ShapeNumber
	ShapeBool
	ShapeString
	ShapePlaceholder
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeNull:
		return "null"
	case ShapeObject:
		return "object"
	case ShapeArray:
		return "array"
	case ShapeNumber:
		return "number"
	case ShapeBool:
		return "boolean"
	case ShapeString:
		return "string"
	case ShapePlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// ForShape specializes a parsed rule for the shape it governs. It reports
// false when the rule cannot apply to that shape.
//
//	Count(n)          array: Count(n,n)   number: Range(n,n)   string: Repeat(n,n)
//	                  boolean: Probability(50) when n is 1, else n percent
//	Range(a,b) ints   array: Count(a,b)   number: Range        string: Repeat(a,b)
//	                  boolean: Probability(100*a/(a+b))
//	Range fractional  number only
//	Increment         number only
//
// Objects and nulls accept no rule. None always applies unchanged, and an
// already specialized rule applies to the shape it was built for.
func ForShape(r Rule, shape Shape) (Rule, bool) {
	switch r := r.(type) {
	case nil, None:
		return None{}, true

	case Count:
		switch shape {
		case ShapeArray:
			return r, true
		case ShapeNumber:
			return IntRange(int64(r.Min), int64(r.Max)), true
		case ShapeString, ShapePlaceholder:
			return Repeat(r), true
		case ShapeBool:
			if r.Min != r.Max {
				return weighted(r.Min, r.Max)
			}
			if r.Min == 1 {
				return Probability{Percent: 50}, true
			}
			if r.Min > 100 {
				return nil, false
			}
			return Probability{Percent: float64(r.Min)}, true
		}
		return nil, false

	case Range:
		if shape == ShapeNumber {
			return r, true
		}
		if r.Fractional() || r.Lo < 0 || r.Hi > math.MaxInt32 {
			return nil, false
		}
		lo, hi := int(r.Lo), int(r.Hi)
		switch shape {
		case ShapeArray:
			return Count{Min: lo, Max: hi}, true
		case ShapeString, ShapePlaceholder:
			return Repeat{Min: lo, Max: hi}, true
		case ShapeBool:
			return weighted(lo, hi)
		}
		return nil, false

	case Increment:
		return r, shape == ShapeNumber

	case Probability:
		return r, shape == ShapeBool

	case Repeat:
		return r, shape == ShapeString || shape == ShapePlaceholder
	}
	return nil, false
}

func weighted(lo, hi int) (Rule, bool) {
	if lo+hi <= 0 {
		return nil, false
	}
	return Probability{Percent: 100 * float64(lo) / float64(lo+hi)}, true
}
