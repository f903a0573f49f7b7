// Package logging configures the structured loggers used by mockgen.
//
// It wraps log/slog. Library packages accept a *slog.Logger through a
// WithLogger option and default to Nop; only the CLI decides where output
// goes.
//
//	log := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	log.Debug("rendered template", "path", "users[].id", "locale", "en")
//
// Text output is meant for terminals, JSON output for piping into other
// tools. Config.Extra adds more sinks, e.g. a log file next to stderr.
package logging
