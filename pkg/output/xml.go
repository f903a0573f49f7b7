package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"github.com/getmockd/mockgen/pkg/template"
)

// ItemElement names the elements an array's entries are written as.
const ItemElement = "item"

// encodeXML writes v under a root element. Objects become child elements
// in key order, arrays become repeated <item> elements and nil becomes an
// empty element.
func encodeXML(w io.Writer, v any, opts Options) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := opts.Root
	if root == "" {
		root = "data"
	}
	appendXML(doc.CreateElement(elementName(root)), v)

	if opts.Indent > 0 {
		doc.Indent(opts.Indent)
	} else {
		doc.Indent(etree.NoIndent)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	if opts.Indent == 0 {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

func appendXML(el *etree.Element, v any) {
	switch v := v.(type) {
	case nil:
	case *template.Map:
		for k, child := range v.All() {
			appendXML(el.CreateElement(elementName(k)), child)
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			appendXML(el.CreateElement(elementName(k)), v[k])
		}
	case []any:
		for _, child := range v {
			appendXML(el.CreateElement(ItemElement), child)
		}
	case string:
		el.SetText(v)
	case float64:
		el.SetText(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		el.SetText(fmt.Sprint(v))
	}
}

// elementName turns a property name into a valid XML element name.
// Invalid characters become '_' and names that cannot start an element
// get a leading '_'.
func elementName(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		valid := unicode.IsLetter(r) || r == '_' ||
			(i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'))
		switch {
		case valid:
			b.WriteRune(r)
		case i == 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
			b.WriteByte('_')
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if strings.HasPrefix(strings.ToLower(s), "xml") {
		s = "_" + s
	}
	return s
}
