// Package output encodes generated data as JSON, YAML or XML and selects
// parts of it with JSONPath.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockgen/pkg/template"
)

// Format is an output encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// ErrUnknownFormat is returned for format names other than json, yaml and
// xml.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatXML}
}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xml":
		return FormatXML, nil
	}
	return "", fmt.Errorf("%w: %q (want json, yaml or xml)", ErrUnknownFormat, s)
}

// Options controls encoding.
type Options struct {
	// Indent is the number of spaces per nesting level. Zero writes
	// compact JSON and XML; YAML always uses at least two.
	Indent int

	// Root names the XML root element. Empty means "data".
	Root string
}

// Encode writes v to w in format f. Maps produced by the generator keep
// their key order in every format.
func Encode(w io.Writer, v any, f Format, opts Options) error {
	switch f {
	case FormatJSON, "":
		return encodeJSON(w, v, opts)
	case FormatYAML:
		return encodeYAML(w, v, opts)
	case FormatXML:
		return encodeXML(w, v, opts)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Marshal returns the encoding of v in format f.
func Marshal(v any, f Format, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v, f, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(w io.Writer, v any, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if opts.Indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", opts.Indent))
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func encodeYAML(w io.Writer, v any, opts Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(max(opts.Indent, 2))
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// toPlain is used where a library walks values itself and cannot see the
// ordered map type.
func toPlain(v any) any {
	return template.Plain(v)
}
