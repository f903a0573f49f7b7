package introspect

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/getmockd/mockgen/pkg/rule"
	"github.com/getmockd/mockgen/pkg/template"
)

type kind int

const (
	kindString kind = iota
	kindInt
	kindFloat
	kindBool
	kindTime
	kindAny
)

// leaf describes a scalar property before it becomes a template entry.
type leaf struct {
	kind    kind
	format  string
	pattern string
	enum    []any

	min, max       *float64
	minLen, maxLen int // -1 when unset

	// explicit metadata
	placeholder string
	rule        string
}

func newLeaf(k kind) leaf {
	return leaf{kind: k, minLen: -1, maxLen: -1}
}

// hints carries explicit metadata found on a property.
type hints struct {
	placeholder string
	rule        string
}

func (h hints) apply(l leaf) leaf {
	l.placeholder = h.placeholder
	l.rule = h.rule
	return l
}

// entry returns the ruled key and example value for a property.
func (l leaf) entry(name string) (string, any, error) {
	r, err := parseRule(l.rule)
	if err != nil {
		return "", nil, err
	}
	if l.placeholder != "" {
		return template.Key(name, r), l.placeholder, nil
	}
	if len(l.enum) > 0 {
		return template.Key(name, r), pickOf(l.enum), nil
	}

	switch l.kind {
	case kindBool:
		if r == nil {
			r = rule.Count{Min: 1, Max: 1}
		}
		return template.Key(name, r), true, nil

	case kindInt:
		if r != nil {
			return template.Key(name, r), initialFor(r), nil
		}
		lo, hi := l.bounds(1, 100)
		lo, hi = math.Ceil(lo), math.Floor(hi)
		if hi < lo {
			hi = lo
		}
		if lo < 0 {
			return name, fmt.Sprintf("@INTEGER(%d,%d)", int64(lo), int64(hi)), nil
		}
		return template.Key(name, rule.IntRange(int64(lo), int64(hi))), int64(0), nil

	case kindFloat:
		if r != nil {
			return template.Key(name, r), initialFor(r), nil
		}
		lo, hi := l.bounds(1, 100)
		if lo < 0 {
			return name, "@FLOAT(" + formatNumber(lo) + "," + formatNumber(hi) + ",2,2)", nil
		}
		return template.Key(name, rule.Range{Min: lo, Max: hi, Decimals: &rule.Decimals{Min: 2, Max: 2}}), 0.0, nil

	case kindTime:
		return template.Key(name, r), "@DATETIME(rfc3339)", nil
	}
	return template.Key(name, r), l.stringPlaceholder(name), nil
}

// place returns l as a property entry, or as a standalone value when elem
// is set. The bool result is always true.
func (l leaf) place(name, path string, elem bool) (string, any, bool, error) {
	if elem {
		return name, l.element(name), true, nil
	}
	key, v, err := l.entry(name)
	if err != nil {
		return "", nil, false, &FieldError{Path: path, Err: err}
	}
	return key, v, true, nil
}

// element returns a standalone value for the leaf, as used for array
// elements. Explicit rules are ignored; ranges become placeholders.
func (l leaf) element(name string) any {
	if l.placeholder != "" {
		return l.placeholder
	}
	if len(l.enum) > 0 {
		return pickOf(l.enum)
	}
	switch l.kind {
	case kindBool:
		return "@BOOLEAN"
	case kindInt:
		lo, hi := l.bounds(1, 100)
		lo, hi = math.Ceil(lo), math.Floor(hi)
		if hi < lo {
			hi = lo
		}
		return fmt.Sprintf("@INTEGER(%d,%d)", int64(lo), int64(hi))
	case kindFloat:
		lo, hi := l.bounds(1, 100)
		return "@FLOAT(" + formatNumber(lo) + "," + formatNumber(hi) + ",2,2)"
	case kindTime:
		return "@DATETIME(rfc3339)"
	}
	return l.stringPlaceholder(name)
}

// bounds returns the numeric range, filling a missing side so the range
// spans the default width.
func (l leaf) bounds(defLo, defHi float64) (float64, float64) {
	width := defHi - defLo
	lo, hi := defLo, defHi
	switch {
	case l.min != nil && l.max != nil:
		lo, hi = *l.min, *l.max
	case l.min != nil:
		lo, hi = *l.min, *l.min+width
	case l.max != nil:
		lo, hi = *l.max-width, *l.max
		if *l.max >= 0 && lo < 0 {
			lo = 0
		}
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

func (l leaf) stringPlaceholder(name string) string {
	if p := formatPlaceholder(l.format); p != "" {
		return p
	}
	if l.pattern != "" {
		return "@REGEX(" + quoteArg(l.pattern) + ")"
	}
	if p := namePlaceholder(name); p != "" {
		return p
	}
	if l.minLen >= 0 || l.maxLen >= 0 {
		lo, hi := max(l.minLen, 1), l.maxLen
		if hi < 0 {
			hi = lo + 10
		}
		if hi < lo {
			lo = hi
		}
		return fmt.Sprintf("@STRING(lower,%d,%d)", lo, hi)
	}
	return "@WORD"
}

func parseRule(suffix string) (rule.Rule, error) {
	if suffix == "" {
		return nil, nil
	}
	return rule.ParseSuffix(suffix)
}

// initialFor returns the example number an explicit numeric rule starts
// from.
func initialFor(r rule.Rule) any {
	if _, ok := r.(rule.Increment); ok {
		return int64(1)
	}
	return int64(0)
}

func formatPlaceholder(format string) string {
	switch strings.ToLower(format) {
	case "email", "idn-email":
		return "@EMAIL"
	case "uuid":
		return "@UUID"
	case "ulid":
		return "@ULID"
	case "uri", "url", "iri", "uri-reference", "iri-reference":
		return "@URL"
	case "hostname", "idn-hostname":
		return "@DOMAIN"
	case "ipv4":
		return "@IPV4"
	case "ipv6":
		return "@IPV6"
	case "date-time":
		return "@DATETIME(rfc3339)"
	case "date":
		return "@DATE"
	case "time":
		return "@TIME"
	case "phone":
		return "@PHONE"
	case "password":
		return "@STRING(12,16)"
	case "color":
		return "@COLOR"
	}
	return ""
}

// namePlaceholder guesses a placeholder from a property name such as
// "email", "first_name" or "createdAt".
func namePlaceholder(name string) string {
	n := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(name))
	switch n {
	case "email", "mail":
		return "@EMAIL"
	case "phone", "mobile", "tel", "telephone", "phonenumber":
		return "@PHONE"
	case "name", "fullname", "displayname":
		return "@NAME"
	case "firstname", "givenname", "forename":
		return "@FIRST"
	case "lastname", "surname", "familyname":
		return "@LAST"
	case "address", "street", "streetaddress":
		return "@ADDRESS"
	case "company", "organization", "organisation", "org", "employer":
		return "@COMPANY"
	case "url", "uri", "href", "link", "website", "homepage":
		return "@URL"
	case "domain", "hostname", "host":
		return "@DOMAIN"
	case "ip", "ipaddress", "ipv4":
		return "@IPV4"
	case "ipv6":
		return "@IPV6"
	case "mac", "macaddress":
		return "@MAC"
	case "color", "colour":
		return "@COLOR"
	case "title":
		return "@TITLE"
	case "jobtitle", "job", "position":
		return "@JOBTITLE"
	case "profession", "occupation":
		return "@PROFESSION"
	case "description", "bio", "summary", "about", "comment":
		return "@SENTENCE"
	case "id", "uuid", "guid":
		return "@UUID"
	case "ssn":
		return "@SSN"
	case "iban":
		return "@IBAN"
	case "currency", "currencycode":
		return "@CURRENCYCODE"
	case "city", "town":
		return "@CITY"
	case "state", "province", "region":
		return "@PROVINCE"
	case "zip", "zipcode", "postcode", "postalcode":
		return "@STRING(number,5,5)"
	case "image", "avatar", "photo", "picture", "thumbnail":
		return "@IMAGE"
	case "useragent":
		return "@USERAGENT"
	case "created", "updated", "deleted", "timestamp":
		return "@DATETIME(rfc3339)"
	}
	switch {
	case strings.HasSuffix(n, "email"):
		return "@EMAIL"
	case strings.HasSuffix(n, "phone"):
		return "@PHONE"
	case strings.HasSuffix(n, "url"):
		return "@URL"
	case strings.HasSuffix(name, "At") || strings.HasSuffix(strings.ToLower(name), "_at"):
		return "@DATETIME(rfc3339)"
	case strings.HasSuffix(n, "date"):
		return "@DATE"
	}
	return ""
}

// pickOf builds a @PICK placeholder over the enum values.
func pickOf(values []any) string {
	args := make([]string, len(values))
	for i, v := range values {
		args[i] = quoteArg(formatValue(v))
	}
	return "@PICK(" + strings.Join(args, ",") + ")"
}

var argEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quoteArg(s string) string {
	return `"` + argEscaper.Replace(s) + `"`
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float64:
		return formatNumber(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
