package placeholder

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// builtins returns the built-in generators keyed by upper-case name.
func builtins() map[string]Func {
	return map[string]Func{
		// basic
		"BOOLEAN":   genBoolean,
		"BOOL":      genBoolean,
		"NATURAL":   genNatural,
		"INTEGER":   genInteger,
		"INT":       genInteger,
		"FLOAT":     genFloat,
		"CHARACTER": genCharacter,
		"CHAR":      genCharacter,
		"STRING":    genString,
		"RANGE":     genRange,
		"PICK":      genPick,

		// date and time
		"DATE":     genDate,
		"TIME":     genTime,
		"DATETIME": genDateTime,
		"NOW":      genNow,

		// text
		"WORD":       genWord,
		"WORDS":      genWords,
		"SENTENCE":   genSentence,
		"PARAGRAPH":  genParagraph,
		"TITLE":      genTitle,
		"CAPITALIZE": genCapitalize,
		"UPPER":      genUpper,
		"LOWER":      genLower,
		"REGEX":      genRegex,

		// person
		"FIRST":    genFirst,
		"LAST":     genLast,
		"NAME":     genName,
		"JOBTITLE": genJobTitle,
		"SSN":      genSSN,
		"PASSPORT": genPassport,

		// address
		"ADDRESS":     genAddress,
		"PHONENUMBER": genPhoneNumber,
		"PHONE":       genPhoneNumber,
		"AREACODE":    genAreaCode,

		// web
		"EMAIL":         genEmail,
		"DOMAIN":        genDomain,
		"TLD":           genTLD,
		"URL":           genURL,
		"IP":            genIPv4,
		"IPV4":          genIPv4,
		"IPV6":          genIPv6,
		"MAC":           genMAC,
		"USERAGENT":     genUserAgent,
		"GUID":          genUUID,
		"UUID":          genUUID,
		"ID":            genID,
		"ULID":          genULID,
		"COLOR":         genColor,
		"COLORNAME":     genColorName,
		"IMAGE":         genImage,
		"MIMETYPE":      genMIMEType,
		"FILEEXTENSION": genFileExtension,

		// finance and commerce
		"BANKCARD":     genBankCard,
		"CREDITCARD":   genCreditCard,
		"IBAN":         genIBAN,
		"CURRENCYCODE": genCurrencyCode,
		"PRICE":        genPrice,
		"PRODUCTNAME":  genProductName,
	}
}

// =============================================================================
// Basic
// =============================================================================

func genBoolean(c *Call) (any, error) {
	pct, err := c.Float(0, 50)
	if err != nil {
		return nil, err
	}
	if pct < 0 || pct > 100 {
		return nil, c.argError(0, "probability must be between 0 and 100")
	}
	return c.Rand.Chance(pct), nil
}

func genNatural(c *Call) (any, error) {
	lo, err := c.Int64(0, 0)
	if err != nil {
		return nil, err
	}
	hi, err := c.Int64(1, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	if lo < 0 {
		return nil, c.argError(0, "must not be negative")
	}
	if lo > hi {
		return nil, c.argError(1, "must not be less than the minimum")
	}
	return c.Rand.Between(lo, hi), nil
}

func genInteger(c *Call) (any, error) {
	lo, err := c.Int64(0, math.MinInt32)
	if err != nil {
		return nil, err
	}
	hi, err := c.Int64(1, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, c.argError(1, "must not be less than the minimum")
	}
	return c.Rand.Between(lo, hi), nil
}

// genFloat implements @FLOAT(min, max, dmin, dmax): a value in [min, max]
// with between dmin and dmax decimal places.
func genFloat(c *Call) (any, error) {
	lo, err := c.Float(0, 0)
	if err != nil {
		return nil, err
	}
	hi, err := c.Float(1, 1000)
	if err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, c.argError(1, "must not be less than the minimum")
	}
	dmin, err := c.Int(2, 1)
	if err != nil {
		return nil, err
	}
	dmax, err := c.Int(3, max(dmin, 4))
	if err != nil {
		return nil, err
	}
	if dmin < 0 || dmax > 10 || dmin > dmax {
		return nil, &ArgumentError{Name: c.Name, Index: 2, Value: c.Arg(2), Reason: "decimal places must satisfy 0 <= dmin <= dmax <= 10"}
	}
	return c.Rand.Decimal(lo, hi, c.Rand.IntBetween(dmin, dmax)), nil
}

const (
	poolLower  = "abcdefghijklmnopqrstuvwxyz"
	poolUpper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	poolNumber = "0123456789"
	poolSymbol = "!@#$%^&*()[]"
	poolAlpha  = poolLower + poolUpper
	poolAll    = poolAlpha + poolNumber
)

// charPool maps a named pool to its characters. Any other value is used as
// a literal pool.
func charPool(name string) string {
	switch strings.ToLower(name) {
	case "", "all":
		return poolAll
	case "lower":
		return poolLower
	case "upper":
		return poolUpper
	case "number", "digit":
		return poolNumber
	case "symbol":
		return poolSymbol
	case "alpha":
		return poolAlpha
	default:
		return name
	}
}

func pickRune(c *Call, pool string) string {
	if utf8.RuneCountInString(pool) == len(pool) {
		return string(pool[c.Rand.IntN(len(pool))])
	}
	runes := []rune(pool)
	return string(runes[c.Rand.IntN(len(runes))])
}

func genCharacter(c *Call) (any, error) {
	return pickRune(c, charPool(c.Arg(0))), nil
}

// genString implements @STRING(), @STRING(len), @STRING(min, max),
// @STRING(pool), @STRING(pool, len) and @STRING(pool, min, max).
func genString(c *Call) (any, error) {
	pool := poolAll
	offset := 0
	if c.HasArg(0) {
		if _, err := strconv.Atoi(strings.TrimSpace(c.Arg(0))); err != nil {
			pool = charPool(c.Arg(0))
			offset = 1
		}
	}
	lo, hi, err := c.IntRange(offset, 10, 10)
	if err != nil {
		return nil, err
	}
	if lo < 0 {
		return nil, c.argError(offset, "length must not be negative")
	}
	n := c.Rand.IntBetween(lo, hi)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(pickRune(c, pool))
	}
	return b.String(), nil
}

// maxRangeLen bounds the length of @RANGE results.
const maxRangeLen = 10000

// genRange implements @RANGE(stop), @RANGE(start, stop) and
// @RANGE(start, stop, step). Both ends are inclusive.
func genRange(c *Call) (any, error) {
	if !c.HasArg(0) {
		return nil, &ArgumentError{Name: c.Name, Index: -1, Reason: "expects (stop), (start, stop) or (start, stop, step)"}
	}
	start, stop := int64(0), int64(0)
	var err error
	if c.HasArg(1) {
		if start, err = c.Int64(0, 0); err != nil {
			return nil, err
		}
		if stop, err = c.Int64(1, 0); err != nil {
			return nil, err
		}
	} else if stop, err = c.Int64(0, 0); err != nil {
		return nil, err
	}
	def := int64(1)
	if stop < start {
		def = -1
	}
	step, err := c.Int64(2, def)
	if err != nil {
		return nil, err
	}
	if step == 0 || (step > 0 && stop < start) || (step < 0 && stop > start) {
		return nil, c.argError(2, "step does not move from start towards stop")
	}
	n := (stop-start)/step + 1
	if n > maxRangeLen {
		return nil, &ArgumentError{Name: c.Name, Index: -1, Reason: "range longer than " + strconv.Itoa(maxRangeLen)}
	}
	out := make([]any, 0, n)
	for v := start; int64(len(out)) < n; v += step {
		out = append(out, v)
	}
	return out, nil
}

func genPick(c *Call) (any, error) {
	if len(c.Args) == 0 {
		return nil, &ArgumentError{Name: c.Name, Index: -1, Reason: "expects at least one choice"}
	}
	return c.Args[c.Rand.IntN(len(c.Args))], nil
}
