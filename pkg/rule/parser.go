package rule

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxDecimals is the largest number of decimal places a range may request.
const MaxDecimals = 10

var (
	incrementPattern    = regexp.MustCompile(`^\+(\d+)$`)
	decimalRangePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)-(\d+(?:\.\d+)?)\.(\d+)(?:-(\d+))?$`)
	rangePattern        = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)-(\d+(?:\.\d+)?)$`)
	exactPattern        = regexp.MustCompile(`^(\d+)$`)
)

// Parse splits a raw key into its output property name and rule. A key
// without a suffix yields None.
func Parse(rawKey string) (string, Rule, error) {
	name, suffix, ok := SplitKey(rawKey)
	if !ok {
		return name, None{}, nil
	}
	r, err := ParseSuffix(suffix)
	if err != nil {
		return name, nil, err
	}
	return name, r, nil
}

// SplitKey splits rawKey on the first unescaped '|'. In the name part "\|"
// stands for a literal pipe and "\\" for a literal backslash; any other
// backslash is kept as is. The suffix is returned verbatim.
func SplitKey(rawKey string) (name, suffix string, hasRule bool) {
	if !strings.ContainsAny(rawKey, `|\`) {
		return rawKey, "", false
	}

	var b strings.Builder
	b.Grow(len(rawKey))
	for i := 0; i < len(rawKey); i++ {
		c := rawKey[i]
		switch {
		case c == '\\' && i+1 < len(rawKey) && (rawKey[i+1] == '|' || rawKey[i+1] == '\\'):
			b.WriteByte(rawKey[i+1])
			i++
		case c == '|':
			return b.String(), rawKey[i+1:], true
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), "", false
}

// ParseSuffix classifies a rule suffix (the text after '|').
func ParseSuffix(suffix string) (Rule, error) {
	if m := incrementPattern.FindStringSubmatch(suffix); m != nil {
		step, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, &MalformedRuleError{Suffix: suffix, Reason: "step out of range"}
		}
		return Increment{Step: step}, nil
	}

	if m := decimalRangePattern.FindStringSubmatch(suffix); m != nil {
		lo, hi, err := parseBounds(suffix, m[1], m[2])
		if err != nil {
			return nil, err
		}
		d, err := parseDecimals(suffix, m[3], m[4])
		if err != nil {
			return nil, err
		}
		return Range{Min: lo, Max: hi, Decimals: d}, nil
	}

	if m := rangePattern.FindStringSubmatch(suffix); m != nil {
		if !strings.Contains(m[1], ".") && !strings.Contains(m[2], ".") {
			return parseIntBounds(suffix, m[1], m[2])
		}
		lo, hi, err := parseBounds(suffix, m[1], m[2])
		if err != nil {
			return nil, err
		}
		return Range{Min: lo, Max: hi}, nil
	}

	if m := exactPattern.FindStringSubmatch(suffix); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, &MalformedRuleError{Suffix: suffix, Reason: "count out of range"}
		}
		return Count{Min: n, Max: n}, nil
	}

	return nil, &MalformedRuleError{Suffix: suffix}
}

func parseBounds(suffix, loText, hiText string) (float64, float64, error) {
	lo, err := strconv.ParseFloat(loText, 64)
	if err != nil {
		return 0, 0, &MalformedRuleError{Suffix: suffix, Reason: "invalid lower bound"}
	}
	hi, err := strconv.ParseFloat(hiText, 64)
	if err != nil {
		return 0, 0, &MalformedRuleError{Suffix: suffix, Reason: "invalid upper bound"}
	}
	if lo > hi {
		return 0, 0, &MalformedRuleError{Suffix: suffix, Reason: "lower bound exceeds upper bound"}
	}
	return lo, hi, nil
}

func parseIntBounds(suffix, loText, hiText string) (Rule, error) {
	lo, err := strconv.ParseInt(loText, 10, 64)
	if err != nil {
		return nil, &MalformedRuleError{Suffix: suffix, Reason: "bound out of range"}
	}
	hi, err := strconv.ParseInt(hiText, 10, 64)
	if err != nil {
		return nil, &MalformedRuleError{Suffix: suffix, Reason: "bound out of range"}
	}
	if lo > hi {
		return nil, &MalformedRuleError{Suffix: suffix, Reason: "lower bound exceeds upper bound"}
	}
	return IntRange(lo, hi), nil
}

func parseDecimals(suffix, loText, hiText string) (*Decimals, error) {
	lo, err := strconv.Atoi(loText)
	if err != nil {
		return nil, &MalformedRuleError{Suffix: suffix, Reason: "invalid decimal places"}
	}
	hi := lo
	if hiText != "" {
		if hi, err = strconv.Atoi(hiText); err != nil {
			return nil, &MalformedRuleError{Suffix: suffix, Reason: "invalid decimal places"}
		}
	}
	if lo > hi {
		return nil, &MalformedRuleError{Suffix: suffix, Reason: "decimal places out of order"}
	}
	if hi > MaxDecimals {
		return nil, &MalformedRuleError{Suffix: suffix, Reason: "at most " + strconv.Itoa(MaxDecimals) + " decimal places"}
	}
	return &Decimals{Min: lo, Max: hi}, nil
}
