package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/getmockd/mockgen/internal/cliconfig"
	"github.com/getmockd/mockgen/pkg/generator"
	"github.com/getmockd/mockgen/pkg/output"
	"github.com/getmockd/mockgen/pkg/template"
)

type generateFlags struct {
	format   string
	count    int
	seed     uint64
	indent   int
	maxDepth int
	query    string
	out      string
	glob     string
	watch    bool
}

func newGenerateCommand(g *globalFlags) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate [template-file|-]",
		Short: "Generate data from a template",
		Long: `Generate data from a JSON or YAML template.

The template is read from the named file, or from stdin when the argument
is "-" or missing.

Examples:
  # Render a template once
  mockgen generate users.json

  # Five independent renders as YAML, in German
  mockgen generate users.yaml --count 5 --format yaml --locale de

  # Only the e-mail addresses
  mockgen generate users.json --query '$.users[*].email'

  # Render every template under fixtures/ into out/
  mockgen generate --glob 'fixtures/**/*.json' --out out/

  # Re-render whenever the template changes
  mockgen generate users.json --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g,
				override{"format", "format", func(c *cliconfig.Config) { c.Format = f.format }},
				override{"count", "count", func(c *cliconfig.Config) { c.Count = f.count }},
				override{"seed", "seed", func(c *cliconfig.Config) { c.Seed = f.seed }},
				override{"indent", "indent", func(c *cliconfig.Config) { c.Indent = f.indent }},
				override{"max-depth", "maxDepth", func(c *cliconfig.Config) { c.MaxDepth = f.maxDepth }},
			)
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := newRenderer(a, f)
			if err != nil {
				return err
			}

			switch {
			case f.glob != "":
				if len(args) > 0 {
					return errors.New("--glob and a template argument are mutually exclusive")
				}
				return r.batch(f.glob, f.out)
			case f.watch:
				if len(args) == 0 || args[0] == "-" {
					return errors.New("--watch needs a template file")
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return r.watch(ctx, args[0], f.out)
			}

			path := "-"
			if len(args) > 0 {
				path = args[0]
			}
			return r.renderFile(path, cmd.InOrStdin(), f.out)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.format, "format", "f", cliconfig.DefaultFormat, "Output format: json, yaml or xml")
	fl.IntVarP(&f.count, "count", "n", cliconfig.DefaultCount, "Number of independent renders; above 1 the output is a list")
	fl.Uint64Var(&f.seed, "seed", 0, "Seed for repeatable output (0 means random)")
	fl.IntVar(&f.indent, "indent", cliconfig.DefaultIndent, "Indentation width (0 for compact output)")
	fl.IntVar(&f.maxDepth, "max-depth", 0, "Template nesting limit (0 means the default)")
	fl.StringVarP(&f.query, "query", "q", "", "JSONPath selecting part of the result, e.g. '$.users[0]'")
	fl.StringVarP(&f.out, "out", "o", "", "Output file; with --glob, the output directory")
	fl.StringVar(&f.glob, "glob", "", "Render every template matching this pattern (supports **)")
	fl.BoolVarP(&f.watch, "watch", "w", false, "Re-render when the template file changes")
	return cmd
}

// renderer turns template files into encoded output with the settings of
// one command run.
type renderer struct {
	app    *app
	gen    *generator.Generator
	format output.Format
	opts   output.Options
	count  int
	query  string
}

func newRenderer(a *app, f *generateFlags) (*renderer, error) {
	format, err := output.ParseFormat(a.cfg.Format)
	if err != nil {
		return nil, err
	}
	return &renderer{
		app:    a,
		gen:    a.generator(a.cfg.Seed, a.cfg.MaxDepth),
		format: format,
		opts:   output.Options{Indent: a.cfg.Indent},
		count:  max(a.cfg.Count, 1),
		query:  f.query,
	}, nil
}

// render generates from tmpl and encodes the result.
func (r *renderer) render(tmpl any) ([]byte, error) {
	var result any
	if r.count == 1 {
		v, err := r.gen.Generate(tmpl)
		if err != nil {
			return nil, err
		}
		result = v
	} else {
		items, err := r.gen.GenerateN(tmpl, r.count)
		if err != nil {
			return nil, err
		}
		result = items
	}

	if r.query != "" {
		v, err := output.Query(result, r.query)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return output.Marshal(result, r.format, r.opts)
}

func (r *renderer) renderFile(path string, stdin io.Reader, out string) error {
	var (
		tmpl any
		err  error
	)
	if path == "-" {
		data, readErr := io.ReadAll(stdin)
		if readErr != nil {
			return fmt.Errorf("read stdin: %w", readErr)
		}
		tmpl, err = template.Decode(data)
	} else {
		tmpl, err = template.DecodeFile(path)
	}
	if err != nil {
		return err
	}

	data, err := r.render(tmpl)
	if err != nil {
		return err
	}
	return r.write(data, out)
}

// write sends data to the file out, or to stdout when out is empty.
func (r *renderer) write(data []byte, out string) error {
	if out == "" {
		_, err := r.app.out.Write(data)
		return err
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	r.app.log.Info("wrote output", "path", out, "bytes", len(data))
	return nil
}

// batch renders every template matching pattern. Results go to outDir,
// mirroring the paths below the pattern's base directory, or to stdout
// separated by a header line when outDir is empty.
func (r *renderer) batch(pattern, outDir string) error {
	base, rel := doublestar.SplitPattern(filepath.ToSlash(pattern))
	matches, err := doublestar.Glob(os.DirFS(base), rel, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("invalid --glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no templates match %q", pattern)
	}

	for _, m := range matches {
		src := filepath.Join(base, filepath.FromSlash(m))
		tmpl, err := template.DecodeFile(src)
		if err != nil {
			return err
		}
		data, err := r.render(tmpl)
		if err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}

		if outDir == "" {
			var buf bytes.Buffer
			fmt.Fprintf(&buf, "# %s\n", src)
			buf.Write(data)
			if err := r.write(buf.Bytes(), ""); err != nil {
				return err
			}
			continue
		}
		dst := filepath.Join(outDir, strings.TrimSuffix(filepath.FromSlash(m), filepath.Ext(m))+"."+string(r.format))
		if err := r.write(data, dst); err != nil {
			return err
		}
	}
	r.app.log.Debug("batch finished", "pattern", pattern, "templates", len(matches))
	return nil
}

// watchRender is renderFile for watch mode; failures are reported and
// watching continues.
func (r *renderer) watchRender(ctx context.Context, path, out string) {
	if ctx.Err() != nil {
		return
	}
	if err := r.renderFile(path, nil, out); err != nil {
		fmt.Fprintln(r.app.errOut, "Error:", err)
		r.app.log.Debug("render failed", "path", path, "error", err)
	}
}
