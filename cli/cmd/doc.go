// Package cmd implements the bdl subcommands.
//
// Every command that reads bdl accepts source files as positional arguments
// after any global --source files. With neither, it reads stdin. Multiple
// sources are parsed concurrently and merged in order.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the bdl configuration file.
	ConfigIdentifier = "config"

	// LibraryIdentifier is the kong variable identifier containing the path
	// to the per-user directory of shared sources.
	LibraryIdentifier = "library"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default nesting bound.
	MaxDepthIdentifier = "maxDepth"
)

// ConfigBlock is the name of the top-level block holding flag values in a
// bdl configuration file.
const ConfigBlock = "config"
