// Package cmd implements the litscript subcommands.
//
// Commands receive the shared [*registry.Registry] and [*Streams] through
// kong bindings, so tests can run them against buffers.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the configuration file.
	ConfigIdentifier = "config"
)
