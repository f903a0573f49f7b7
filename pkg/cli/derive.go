package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockgen/internal/cliconfig"
	"github.com/getmockd/mockgen/pkg/introspect"
	"github.com/getmockd/mockgen/pkg/output"
)

type deriveFlags struct {
	jsonSchema string
	pointer    string
	openAPI    string
	component  string
	graphQL    string
	typeName   string
	arrayCount string
	depth      int
	generate   bool
	format     string
	seed       uint64
	indent     int
	out        string
}

func newDeriveCommand(g *globalFlags) *cobra.Command {
	f := &deriveFlags{}
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a template from a JSON Schema, OpenAPI or GraphQL document",
		Long: `Derive a template from a schema document.

Exactly one of --jsonschema, --openapi or --graphql selects the source.
The derived template is printed; with --generate it is rendered instead.

Examples:
  # Template for a JSON Schema
  mockgen derive --jsonschema user.schema.json

  # A definition inside the schema
  mockgen derive --jsonschema api.json --pointer '/$defs/Address'

  # Render an OpenAPI component directly
  mockgen derive --openapi petstore.yaml --component Pet --generate

  # A GraphQL type as YAML
  mockgen derive --graphql schema.graphql --type Book --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, path, err := f.introspector()
			if err != nil {
				return err
			}

			a, err := newApp(cmd, g,
				override{"format", "format", func(c *cliconfig.Config) { c.Format = f.format }},
				override{"seed", "seed", func(c *cliconfig.Config) { c.Seed = f.seed }},
				override{"indent", "indent", func(c *cliconfig.Config) { c.Indent = f.indent }},
			)
			if err != nil {
				return err
			}
			defer a.Close()

			if f.openAPI != "" && f.component == "" {
				return missingComponent(path)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read schema: %w", err)
			}
			tmpl, err := in.Template(data, introspect.Config{MaxDepth: f.depth, ArrayCount: f.arrayCount})
			if err != nil {
				return fmt.Errorf("derive template: %w", err)
			}
			a.log.Debug("derived template", "source", path)

			format, err := output.ParseFormat(a.cfg.Format)
			if err != nil {
				return err
			}
			result := tmpl
			if f.generate {
				if result, err = a.generator(a.cfg.Seed, a.cfg.MaxDepth).Generate(tmpl); err != nil {
					return err
				}
			}
			data, err = output.Marshal(result, format, output.Options{Indent: a.cfg.Indent})
			if err != nil {
				return err
			}
			r := &renderer{app: a}
			return r.write(data, f.out)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.jsonSchema, "jsonschema", "", "JSON Schema document (JSON or YAML)")
	fl.StringVar(&f.pointer, "pointer", "", "JSON pointer to a sub-schema, e.g. '/$defs/User'")
	fl.StringVar(&f.openAPI, "openapi", "", "OpenAPI 3 document (JSON or YAML)")
	fl.StringVar(&f.component, "component", "", "Schema name under components.schemas")
	fl.StringVar(&f.graphQL, "graphql", "", "GraphQL SDL file")
	fl.StringVar(&f.typeName, "type", "", "GraphQL object type to derive")
	fl.StringVar(&f.arrayCount, "array-count", introspect.DefaultArrayCount, "Count rule for arrays without bounds")
	fl.IntVar(&f.depth, "depth", introspect.DefaultMaxDepth, "Levels of nested objects to derive")
	fl.BoolVarP(&f.generate, "generate", "g", false, "Render the derived template instead of printing it")
	fl.StringVarP(&f.format, "format", "f", cliconfig.DefaultFormat, "Output format: json, yaml or xml")
	fl.Uint64Var(&f.seed, "seed", 0, "Seed for repeatable output with --generate")
	fl.IntVar(&f.indent, "indent", cliconfig.DefaultIndent, "Indentation width (0 for compact output)")
	fl.StringVarP(&f.out, "out", "o", "", "Output file")

	cmd.MarkFlagsMutuallyExclusive("jsonschema", "openapi", "graphql")
	return cmd
}

// introspector picks the introspector for the source flag that was given.
func (f *deriveFlags) introspector() (introspect.Introspector, string, error) {
	switch {
	case f.jsonSchema != "":
		return introspect.JSONSchema{Pointer: f.pointer}, f.jsonSchema, nil
	case f.openAPI != "":
		return introspect.OpenAPI{Component: f.component}, f.openAPI, nil
	case f.graphQL != "":
		if f.typeName == "" {
			return nil, "", errors.New("--graphql needs --type")
		}
		return introspect.GraphQL{Type: f.typeName}, f.graphQL, nil
	}
	return nil, "", errors.New("one of --jsonschema, --openapi or --graphql is required")
}

// missingComponent reports a missing --component along with the names the
// document offers.
func missingComponent(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	names, err := introspect.ComponentNames(data)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("%s has no component schemas", path)
	}
	return fmt.Errorf("--openapi needs --component (available: %s)", strings.Join(names, ", "))
}
