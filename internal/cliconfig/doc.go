// Package cliconfig provides configuration types and loading for the mockgen
// CLI.
//
// Configuration is layered with the following precedence (highest to
// lowest):
//
//  1. Command-line flags
//  2. Environment variables (MOCKGEN_* prefix)
//  3. Local config file (.mockgen.yaml in the current directory)
//  4. Global config file ($XDG_CONFIG_HOME/mockgen/config.yaml)
//  5. Default values
//
// MOCKGEN_CONFIG, or the --config flag, replaces the local file with an
// explicit path. Sources records which layer each value came from, for
// `mockgen config`.
package cliconfig
