package placeholder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/getmockd/mockgen/internal/id"
	"github.com/getmockd/mockgen/pkg/locale"
)

// =============================================================================
// Internet
// =============================================================================

func genEmail(c *Call) (any, error) {
	domain := strings.TrimSpace(c.Arg(0))
	if domain == "" {
		var err error
		if domain, err = c.Pick("emaildomain"); err != nil {
			return nil, err
		}
	}
	return id.FromCharset(c.Rand, id.Lower, c.Rand.IntBetween(5, 11)) + "@" + domain, nil
}

// domainLabel builds a lower-case ASCII label. Non-English word pools
// would produce IDN labels, so the English pack is used for all locales.
func domainLabel(c *Call) (string, error) {
	values, err := c.r.pool.Get(locale.Fallback, "word")
	if err != nil {
		return "", fmt.Errorf("@%s: %w", c.Name, err)
	}
	return c.Rand.Pick(values), nil
}

func genDomain(c *Call) (any, error) {
	label, err := domainLabel(c)
	if err != nil {
		return nil, err
	}
	tld, err := c.Pick("tld")
	if err != nil {
		return nil, err
	}
	return label + "." + tld, nil
}

func genTLD(c *Call) (any, error) {
	return c.Pick("tld")
}

func genURL(c *Call) (any, error) {
	scheme := strings.TrimSpace(c.Arg(0))
	if scheme == "" {
		scheme = "https"
		if c.Rand.Chance(20) {
			scheme = "http"
		}
	}
	domain, err := genDomain(c)
	if err != nil {
		return nil, err
	}
	path, err := domainLabel(c)
	if err != nil {
		return nil, err
	}
	return scheme + "://www." + domain.(string) + "/" + path, nil
}

// genIPv4 generates an address with no zero first octet.
func genIPv4(c *Call) (any, error) {
	return fmt.Sprintf("%d.%d.%d.%d",
		c.Rand.IntN(255)+1, c.Rand.IntN(256), c.Rand.IntN(256), c.Rand.IntN(256)), nil
}

func genIPv6(c *Call) (any, error) {
	groups := make([]string, 8)
	for i := range groups {
		groups[i] = fmt.Sprintf("%04x", c.Rand.IntN(65536))
	}
	return strings.Join(groups, ":"), nil
}

// genMAC generates a MAC address in uppercase hex notation. An optional
// argument overrides the ':' separator.
func genMAC(c *Call) (any, error) {
	sep := ":"
	if len(c.Args) > 0 {
		sep = c.Arg(0)
	}
	parts := make([]string, 6)
	for i := range parts {
		parts[i] = fmt.Sprintf("%02X", c.Rand.IntN(256))
	}
	return strings.Join(parts, sep), nil
}

func genUserAgent(c *Call) (any, error) {
	return c.Rand.Pick(userAgents), nil
}

// =============================================================================
// Identifiers
// =============================================================================

func genUUID(c *Call) (any, error) {
	return id.UUID(c.Rand), nil
}

// idLength is the length of @ID values.
const idLength = 24

func genID(c *Call) (any, error) {
	return id.FromCharset(c.Rand, id.LowerAlnum, idLength), nil
}

func genULID(c *Call) (any, error) {
	return id.ULID(c.Rand, c.Now), nil
}

// =============================================================================
// Media
// =============================================================================

// genColor implements @COLOR([format]) where format is hex (default), rgb
// or rgba.
func genColor(c *Call) (any, error) {
	r, g, b := c.Rand.IntN(256), c.Rand.IntN(256), c.Rand.IntN(256)
	switch strings.ToLower(strings.TrimSpace(c.Arg(0))) {
	case "", "hex":
		return fmt.Sprintf("#%02x%02x%02x", r, g, b), nil
	case "rgb":
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b), nil
	case "rgba":
		a := strconv.FormatFloat(c.Rand.Decimal(0, 1, 2), 'f', -1, 64)
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, a), nil
	default:
		return nil, c.argError(0, "format must be hex, rgb or rgba")
	}
}

func genColorName(c *Call) (any, error) {
	return c.Pick("colorname")
}

// genImage implements @IMAGE([size[, bg[, fg[, text]]]]) and returns a
// placeholder image URL such as https://dummyimage.com/120x60/ff0000/ffffff&text=hi.
func genImage(c *Call) (any, error) {
	size := strings.TrimSpace(c.Arg(0))
	if size == "" {
		w, h := c.Rand.IntBetween(1, 8)*100, c.Rand.IntBetween(1, 8)*100
		size = strconv.Itoa(w) + "x" + strconv.Itoa(h)
	} else if !validSize(size) {
		return nil, c.argError(0, "size must look like 120x60")
	}

	var b strings.Builder
	b.WriteString("https://dummyimage.com/")
	b.WriteString(size)
	if bg := strings.TrimPrefix(strings.TrimSpace(c.Arg(1)), "#"); bg != "" {
		b.WriteString("/" + bg)
		if fg := strings.TrimPrefix(strings.TrimSpace(c.Arg(2)), "#"); fg != "" {
			b.WriteString("/" + fg)
		}
	}
	if text := c.Arg(3); text != "" {
		b.WriteString("&text=" + strings.ReplaceAll(text, " ", "+"))
	}
	return b.String(), nil
}

func validSize(s string) bool {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return false
	}
	_, errW := strconv.Atoi(w)
	_, errH := strconv.Atoi(h)
	return errW == nil && errH == nil
}

func genMIMEType(c *Call) (any, error) {
	return c.Rand.Pick(mimeTypes), nil
}

func genFileExtension(c *Call) (any, error) {
	return c.Rand.Pick(fileExtensions), nil
}
