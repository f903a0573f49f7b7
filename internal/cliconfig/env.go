package cliconfig

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names
const (
	EnvLocale   = "MOCKGEN_LOCALE"
	EnvFormat   = "MOCKGEN_FORMAT"
	EnvCount    = "MOCKGEN_COUNT"
	EnvSeed     = "MOCKGEN_SEED"
	EnvLogLevel = "MOCKGEN_LOG_LEVEL"
	EnvConfig   = "MOCKGEN_CONFIG"
)

// LoadEnvConfig applies environment variables to cfg. It only sets values
// that are present in the environment; numbers that do not parse are an
// error.
func LoadEnvConfig(cfg *Config) error {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	// MOCKGEN_LOCALE
	if v := os.Getenv(EnvLocale); v != "" {
		cfg.Locale = v
		cfg.Sources["locale"] = SourceEnv
	}

	// MOCKGEN_FORMAT
	if v := os.Getenv(EnvFormat); v != "" {
		cfg.Format = v
		cfg.Sources["format"] = SourceEnv
	}

	// MOCKGEN_COUNT
	if v := os.Getenv(EnvCount); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: not an integer", EnvCount, v)
		}
		cfg.Count = n
		cfg.Sources["count"] = SourceEnv
	}

	// MOCKGEN_SEED
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: not an unsigned integer", EnvSeed, v)
		}
		cfg.Seed = seed
		cfg.Sources["seed"] = SourceEnv
	}

	// MOCKGEN_LOG_LEVEL
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.Sources["logLevel"] = SourceEnv
	}
	return nil
}
