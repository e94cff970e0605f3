// Package cmd implements the reportgen subcommands.
//
// Every command that evaluates expressions accepts the same parameter flags:
// --param NAME=VALUE pairs and --params files in YAML or JSON. Files are
// read first, in order, and pairs given on the command line replace their
// values.
//
// Template commands work on the store selected with the --store-kind and
// --store-path options of the root command, carried to them through the
// [context.Context] by [WithStore].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the configuration file.
	ConfigIdentifier = "config"
)
