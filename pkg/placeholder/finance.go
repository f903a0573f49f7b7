package placeholder

import (
	"fmt"
	"strings"
)

// =============================================================================
// Finance
// =============================================================================

const (
	minCardLength     = 12
	maxCardLength     = 19
	defaultCardLength = 19
)

// genBankCard implements @BANKCARD([length]): a Luhn-valid card number
// that starts with one of the locale's bank codes.
func genBankCard(c *Call) (any, error) {
	n, err := c.Int(0, defaultCardLength)
	if err != nil {
		return nil, err
	}
	if n < minCardLength || n > maxCardLength {
		return nil, c.argError(0, fmt.Sprintf("length must be between %d and %d", minCardLength, maxCardLength))
	}
	prefix, err := c.Pick("bankcode")
	if err != nil {
		return nil, err
	}
	return luhnNumber(c, prefix, n), nil
}

// genCreditCard generates a Luhn-valid Visa, Mastercard, Amex or Discover
// number.
func genCreditCard(c *Call) (any, error) {
	p := cardPrefixes[c.Rand.IntN(len(cardPrefixes))]
	return luhnNumber(c, p.prefix, p.length), nil
}

// luhnNumber pads prefix with random digits to n-1 digits and appends the
// Luhn check digit.
func luhnNumber(c *Call, prefix string, n int) string {
	if len(prefix) >= n {
		prefix = prefix[:n-1]
	}
	body := prefix + c.Rand.Digits(n-1-len(prefix))
	return body + string(rune('0'+luhnCheckDigit(body)))
}

// luhnCheckDigit returns the digit that makes body+digit pass the Luhn
// check. Starting from the rightmost digit of body, every other digit is
// doubled.
func luhnCheckDigit(body string) int {
	sum := 0
	double := true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10 - sum%10) % 10
}

// luhnValid reports whether number passes the Luhn check.
func luhnValid(number string) bool {
	if len(number) < 2 {
		return false
	}
	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return false
		}
	}
	last := int(number[len(number)-1] - '0')
	return luhnCheckDigit(number[:len(number)-1]) == last
}

// genIBAN generates a simplified IBAN string with a realistic structure.
func genIBAN(c *Call) (any, error) {
	f := ibanFormats[c.Rand.IntN(len(ibanFormats))]
	remaining := f.length - len(f.country) - 2 - len(f.bankPrefix)

	var sb strings.Builder
	sb.WriteString(f.country)
	fmt.Fprintf(&sb, "%02d", c.Rand.IntN(90)+10)
	sb.WriteString(f.bankPrefix)
	sb.WriteString(c.Rand.Digits(remaining))
	return sb.String(), nil
}

func genCurrencyCode(c *Call) (any, error) {
	return c.Rand.Pick(currencyCodes), nil
}

// genPrice implements @PRICE([min, max]) and returns a float with two
// decimal places.
func genPrice(c *Call) (any, error) {
	lo, err := c.Float(0, 1)
	if err != nil {
		return nil, err
	}
	hi, err := c.Float(1, 999.99)
	if err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, c.argError(1, "must not be less than the minimum")
	}
	return c.Rand.Decimal(lo, hi, 2), nil
}

// =============================================================================
// Commerce
// =============================================================================

func genProductName(c *Call) (any, error) {
	return c.Rand.Pick(productAdjectives) + " " + c.Rand.Pick(productMaterials) + " " + c.Rand.Pick(productNouns), nil
}

// =============================================================================
// Identity documents
// =============================================================================

// genSSN generates a random SSN in ###-##-#### format.
func genSSN(c *Call) (any, error) {
	area := c.Rand.IntN(899) + 100
	group := c.Rand.IntN(99) + 1
	serial := c.Rand.IntN(9999) + 1
	return fmt.Sprintf("%03d-%02d-%04d", area, group, serial), nil
}

// genPassport generates a passport number of two uppercase letters and
// seven digits.
func genPassport(c *Call) (any, error) {
	var sb strings.Builder
	sb.WriteByte(byte('A' + c.Rand.IntN(26)))
	sb.WriteByte(byte('A' + c.Rand.IntN(26)))
	sb.WriteString(c.Rand.Digits(7))
	return sb.String(), nil
}
