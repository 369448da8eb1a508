//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the bdl module embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text, default config paths, and the
	// environment variable prefix.
	Name = "bdl"
	// Description is a short, human-readable summary of the project used in
	// help output.
	Description = "Block definition language front end"
	// PathVariable names the environment variable holding the import search
	// path, a list of directories separated by os.PathListSeparator.
	PathVariable = "BDL_PATH"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
