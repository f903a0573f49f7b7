package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockgen/internal/cliconfig"
	"github.com/getmockd/mockgen/pkg/generator"
	"github.com/getmockd/mockgen/pkg/locale"
	"github.com/getmockd/mockgen/pkg/logging"
	"github.com/getmockd/mockgen/pkg/placeholder"
)

// app is the state shared by a command run: the effective configuration
// and the objects built from it.
type app struct {
	cfg      *cliconfig.Config
	log      *slog.Logger
	pool     locale.DataPool
	locales  *locale.Manager
	resolver *placeholder.Resolver

	out, errOut io.Writer
	closers     []io.Closer
}

// override copies a command-line flag into the configuration when the
// flag was given.
type override struct {
	flag  string
	key   string
	apply func(cfg *cliconfig.Config)
}

// newApp loads the layered configuration, applies the flags that were set
// on cmd and builds the data pool, resolver and logger.
func newApp(cmd *cobra.Command, g *globalFlags, overrides ...override) (*app, error) {
	cfg, err := cliconfig.LoadAll(cliconfig.LoadOptions{ConfigFile: g.configFile})
	if err != nil {
		return nil, err
	}
	overrides = append([]override{
		{"locale", "locale", func(c *cliconfig.Config) { c.Locale = g.locale }},
		{"log-level", "logLevel", func(c *cliconfig.Config) { c.LogLevel = g.logLevel }},
		{"log-format", "logFormat", func(c *cliconfig.Config) { c.LogFormat = g.logFormat }},
		{"data", "dataFiles", func(c *cliconfig.Config) { c.DataFiles = append(c.DataFiles, g.dataFiles...) }},
	}, overrides...)
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			o.apply(cfg)
			cfg.Sources[o.key] = cliconfig.SourceFlag
		}
	}

	a := &app{cfg: cfg, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
	if err := a.init(g); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) init(g *globalFlags) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logCfg := logging.Config{
		Level:  logging.ParseLevel(a.cfg.LogLevel),
		Format: logging.ParseFormat(a.cfg.LogFormat),
		Output: a.errOut,
	}
	if g.logFile != "" {
		f, err := os.OpenFile(g.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		logCfg.Extra = append(logCfg.Extra, f)
	}
	a.log = logging.New(logCfg)

	pools := make([]locale.DataPool, 0, len(a.cfg.DataFiles)+1)
	for _, path := range a.cfg.DataFiles {
		p, err := locale.LoadFile(path)
		if err != nil {
			return err
		}
		a.log.Debug("loaded data pack", "path", path, "locales", len(p.Locales()))
		pools = append(pools, p)
	}
	a.pool = locale.Layered(append(pools, locale.Embedded())...)

	a.locales = locale.NewManager(a.pool)
	if err := a.locales.SetString(a.cfg.Locale); err != nil {
		return err
	}

	a.resolver = placeholder.New(a.pool, placeholder.WithLogger(a.log))
	for name, src := range a.cfg.Placeholders {
		if err := a.resolver.RegisterExpr(name, src); err != nil {
			return err
		}
	}
	return nil
}

// generator builds a generator over the app's pool and resolver.
func (a *app) generator(seed uint64, maxDepth int) *generator.Generator {
	opts := []generator.Option{
		generator.WithLocaleManager(a.locales),
		generator.WithResolver(a.resolver),
		generator.WithLogger(a.log),
		generator.WithMaxDepth(maxDepth),
	}
	if seed != 0 {
		opts = append(opts, generator.WithSeed(seed))
	}
	return generator.New(opts...)
}

func (a *app) Close() error {
	for _, c := range a.closers {
		_ = c.Close()
	}
	return nil
}
