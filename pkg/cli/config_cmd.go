package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockgen/internal/cliconfig"
)

func newConfigCommand(g *globalFlags) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration and where each value came from.

Sources, lowest precedence first: default, global
($XDG_CONFIG_HOME/mockgen/config.yaml), local (.mockgen.yaml) or file
(--config / MOCKGEN_CONFIG), env (MOCKGEN_*), flag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()
			cfg := a.cfg

			if jsonOutput {
				return writeJSON(a.out, struct {
					*cliconfig.Config
					Sources map[string]string `json:"sources"`
				}{cfg, cfg.Sources})
			}

			w := table(a.out)
			fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
			for _, key := range cfg.SourceKeys() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", key, configValue(cfg, key), cfg.Sources[key])
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if cfg.ConfigFile != "" {
				fmt.Fprintf(a.out, "\nConfig file: %s\n", cfg.ConfigFile)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.AddCommand(newConfigInitCommand())
	return cmd
}

// configValue formats the value behind a source key.
func configValue(cfg *cliconfig.Config, key string) string {
	if name, ok := strings.CutPrefix(key, "placeholders."); ok {
		return cfg.Placeholders[name]
	}
	switch key {
	case "locale":
		return cfg.Locale
	case "count":
		return fmt.Sprint(cfg.Count)
	case "seed":
		return fmt.Sprint(cfg.Seed)
	case "maxDepth":
		return fmt.Sprint(cfg.MaxDepth)
	case "format":
		return cfg.Format
	case "indent":
		return fmt.Sprint(cfg.Indent)
	case "logLevel":
		return cfg.LogLevel
	case "logFormat":
		return cfg.LogFormat
	case "dataFiles":
		return strings.Join(cfg.DataFiles, ", ")
	}
	return ""
}

func newConfigInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a " + cliconfig.LocalConfigFileNames[0] + " with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := cliconfig.LocalConfigFileNames[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			cfg := cliconfig.NewDefault()
			cfg.Placeholders = map[string]string{"ANSWER": "42"}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
