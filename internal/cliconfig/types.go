package cliconfig

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getmockd/mockgen/pkg/locale"
	"github.com/getmockd/mockgen/pkg/logging"
	"github.com/getmockd/mockgen/pkg/output"
)

// Config is the complete configuration of the mockgen CLI.
type Config struct {
	// Generation settings
	Locale   string `yaml:"locale,omitempty" json:"locale,omitempty"`
	Count    int    `yaml:"count,omitempty" json:"count,omitempty"`
	Seed     uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`
	MaxDepth int    `yaml:"maxDepth,omitempty" json:"maxDepth,omitempty"`

	// Output settings
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Indent int    `yaml:"indent,omitempty" json:"indent,omitempty"`

	// Logging settings
	LogLevel  string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
	LogFormat string `yaml:"logFormat,omitempty" json:"logFormat,omitempty"`

	// Placeholders defines custom placeholders as expressions, keyed by
	// name.
	Placeholders map[string]string `yaml:"placeholders,omitempty" json:"placeholders,omitempty"`

	// DataFiles are YAML data packs layered over the embedded locale data.
	DataFiles []string `yaml:"dataFiles,omitempty" json:"dataFiles,omitempty"`

	// ConfigFile is the explicit config file, if any.
	ConfigFile string `yaml:"-" json:"configFile,omitempty"`

	// Sources tracks where each value came from.
	Sources map[string]string `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFile    = "file"
	SourceFlag    = "flag"
)

// Defaults.
const (
	DefaultLocale    = "en"
	DefaultFormat    = "json"
	DefaultCount     = 1
	DefaultIndent    = 2
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	cfg := &Config{
		Locale:    DefaultLocale,
		Format:    DefaultFormat,
		Count:     DefaultCount,
		Indent:    DefaultIndent,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Sources:   make(map[string]string),
	}
	for _, key := range []string{"locale", "format", "count", "indent", "logLevel", "logFormat"} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	var errs []error
	if c.Locale != "" {
		if _, err := locale.ParseLocale(c.Locale); err != nil {
			errs = append(errs, fmt.Errorf("locale %q is not a valid language tag", c.Locale))
		}
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Count < 0 {
		errs = append(errs, fmt.Errorf("count %d must not be negative", c.Count))
	}
	if c.Indent < 0 || c.Indent > 8 {
		errs = append(errs, fmt.Errorf("indent %d is out of range (0-8)", c.Indent))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("maxDepth %d must not be negative", c.MaxDepth))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel))
	}
	switch logging.Format(strings.ToLower(c.LogFormat)) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat))
	}
	for name := range c.Placeholders {
		if strings.TrimSpace(c.Placeholders[name]) == "" {
			errs = append(errs, fmt.Errorf("placeholder %q has an empty expression", name))
		}
	}
	return errors.Join(errs...)
}

// SourceKeys returns the keys recorded in Sources, sorted.
func (c *Config) SourceKeys() []string {
	keys := make([]string, 0, len(c.Sources))
	for k := range c.Sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
