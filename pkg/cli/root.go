// Package cli implements the mockgen command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configFile string
	locale     string
	logLevel   string
	logFormat  string
	logFile    string
	dataFiles  []string
}

// NewRootCommand builds the mockgen command tree. Output goes to the
// command's out and err writers so tests can capture it.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "mockgen",
		Short: "mockgen generates structured fake data from templates",
		Long: `mockgen generates structured fake data from declarative templates.

A template is a JSON or YAML document whose keys may carry generation rules
and whose string values may contain @PLACEHOLDERS:

  {
    "users|2-4": [{"id|+1": 1, "name": "@NAME", "email": "@EMAIL"}],
    "active|1": true
  }

Configuration can be provided via flags, MOCKGEN_* environment variables,
a local .mockgen.yaml, or $XDG_CONFIG_HOME/mockgen/config.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	root.SetVersionTemplate(fmt.Sprintf("mockgen %s (commit %s, built %s)\n", Version, Commit, BuildDate))

	pf := root.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "Config file (default: .mockgen.yaml, then the global config)")
	pf.StringVarP(&g.locale, "locale", "l", "", "Locale of the generated data, e.g. en, de, zh-CN")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&g.logFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&g.logFile, "log-file", "", "Also write JSON logs to this file")
	pf.StringArrayVar(&g.dataFiles, "data", nil, "YAML data pack layered over the built-in locale data (repeatable)")

	root.AddCommand(
		newGenerateCommand(g),
		newDeriveCommand(g),
		newLocalesCommand(g),
		newPlaceholdersCommand(g),
		newConfigCommand(g),
	)
	return root
}

// Main runs the CLI with the process arguments and returns the exit code.
func Main() int {
	return Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// Run executes the CLI with args and the given streams.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		if hint := errorHint(err); hint != "" {
			fmt.Fprintln(stderr, "Hint:", hint)
		}
		return 1
	}
	return 0
}

// errorHint returns the hint of the first error in the chain that has one.
func errorHint(err error) string {
	var h interface{ Hint() string }
	if errors.As(err, &h) {
		return h.Hint()
	}
	return ""
}
