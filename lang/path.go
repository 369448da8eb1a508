package lang

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/bdl/lang/ast"
	"github.com/ardnew/bdl/pkg"
)

// Extension is appended to an import path that names no existing file.
const Extension = "." + pkg.Name

// SearchPath returns the directories searched for imports: include in the
// given order, followed by the entries of the environment variable
// [pkg.PathVariable]. Empty and repeated entries are removed.
func SearchPath(include ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(filepath.SplitList(os.Getenv(pkg.PathVariable))...),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(include...),
	).String()

	dirs := make([]string, 0, strings.Count(list, string(os.PathListSeparator))+1)

	for _, dir := range filepath.SplitList(list) {
		if dir != "" && !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

// Resolution is the outcome of locating one import.
type Resolution struct {
	Import *ast.Import
	Path   string // empty when Err is set
	Err    error
}

// ResolveImports locates the source of every import in root. Relative
// import paths are tried against dir, the directory of the importing
// source, and then each directory of search. For each candidate the path
// itself is tried before the path with [Extension] appended.
func ResolveImports(root *ast.Root, dir string, search []string) []Resolution {
	out := make([]Resolution, len(root.Imports))

	for i, imp := range root.Imports {
		out[i] = Resolution{Import: imp}

		path, err := resolve(imp.From.Value, dir, search)
		if err != nil {
			out[i].Err = err.With(
				slog.Int("line", imp.From.Token.Start.Line),
			)

			continue
		}

		out[i].Path = path
	}

	return out
}

func resolve(from, dir string, search []string) (string, *Error) {
	var bases []string

	if filepath.IsAbs(from) {
		bases = []string{""}
	} else {
		bases = append([]string{dir}, search...)
	}

	for _, base := range bases {
		candidate := filepath.Join(base, from)

		for _, name := range []string{candidate, candidate + Extension} {
			if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() {
				return name, nil
			}
		}
	}

	return "", ErrImportNotFound.With(slog.String("from", from))
}
