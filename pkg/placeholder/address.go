package placeholder

import (
	"strconv"
	"strings"
)

// =============================================================================
// Address
// =============================================================================

// genAddress formats the locale's address format with a random street
// number, street, city and province.
func genAddress(c *Call) (any, error) {
	parts := make([]string, 0, 8)
	for _, cat := range []string{"streetname", "city", "province"} {
		v, err := c.Pick(cat)
		if err != nil {
			return nil, err
		}
		parts = append(parts, "{"+strings.TrimSuffix(cat, "name")+"}", v)
	}
	parts = append(parts, "{number}", strconv.Itoa(c.Rand.IntBetween(1, 9999)))
	format := c.PickOr("{number} {street}, {city}, {province}", "addressformat")
	return strings.NewReplacer(parts...).Replace(format), nil
}

func genAreaCode(c *Call) (any, error) {
	return c.Pick("areacode")
}

// =============================================================================
// Phone
// =============================================================================

// phoneTypes maps the accepted phone type spellings to data qualifiers.
var phoneTypes = map[string]string{
	"mobile":   "mobile",
	"m":        "mobile",
	"pt.m":     "mobile",
	"landline": "landline",
	"l":        "landline",
	"pt.l":     "landline",
	"tollfree": "tollfree",
	"tf":       "tollfree",
	"pt.tf":    "tollfree",
	"premium":  "premium",
	"p":        "premium",
	"pt.p":     "premium",
}

// genPhoneNumber implements @PHONENUMBER([type]) and @PHONENUMBER(format).
// A type selects the locale's prefixes and formats for that kind of number.
// A format is any other argument containing '#': each '#' becomes a random
// digit and {prefix}/{area} are replaced as in the locale formats.
func genPhoneNumber(c *Call) (any, error) {
	arg := strings.TrimSpace(c.Arg(0))
	kind, ok := phoneTypes[strings.ToLower(arg)]
	var format string
	switch {
	case arg == "":
		kind = "mobile"
	case ok:
	case strings.Contains(arg, "#"):
		kind, format = "mobile", arg
	default:
		return nil, c.argError(0, "expected mobile, landline, tollfree, premium or a format containing '#'")
	}

	if format == "" {
		var err error
		if format, err = c.Pick("phoneformat", kind); err != nil {
			return nil, err
		}
	}

	r := make([]string, 0, 4)
	if strings.Contains(format, "{prefix}") {
		prefix, err := c.Pick("prefix", kind)
		if err != nil {
			return nil, err
		}
		r = append(r, "{prefix}", prefix)
	}
	if strings.Contains(format, "{area}") {
		area, err := c.Pick("areacode")
		if err != nil {
			return nil, err
		}
		r = append(r, "{area}", area)
	}
	if len(r) > 0 {
		format = strings.NewReplacer(r...).Replace(format)
	}
	return fillDigits(c, format), nil
}

// fillDigits replaces every '#' in format with a random digit.
func fillDigits(c *Call, format string) string {
	var b strings.Builder
	b.Grow(len(format))
	for _, r := range format {
		if r == '#' {
			b.WriteByte(byte('0' + c.Rand.IntN(10)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
