package cmd

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type sourcesKey struct{}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSources returns a new context.Context carrying the global source files
// named with --source. Every command reads these before its own arguments.
func WithSources(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourcesKey{}, slices.Clone(sources))
}

func sourcesFrom(ctx context.Context) []string {
	s, _ := ctx.Value(sourcesKey{}).([]string)

	return s
}

// uniqueSources returns sources with duplicates removed, keeping the first
// occurrence of each file. Files are compared by identity, so a symlink and
// its target, or relative and absolute spellings of one path, count once.
// Every "-" collapses into one stdin source placed last. Paths that cannot
// be stat'ed are kept so the open reports the error.
func uniqueSources(sources []string) []string {
	var (
		unique   = make([]string, 0, len(sources))
		seen     = make([]os.FileInfo, 0, len(sources))
		hasStdin bool
	)

	stdinInfo, _ := os.Stdin.Stat()

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		info, err := os.Stat(src)
		if err != nil {
			unique = append(unique, src)

			continue
		}

		if stdinInfo != nil && info.Mode().IsRegular() && os.SameFile(info, stdinInfo) {
			hasStdin = true

			continue
		}

		if slices.ContainsFunc(seen, func(fi os.FileInfo) bool { return os.SameFile(fi, info) }) {
			continue
		}

		seen = append(seen, info)
		unique = append(unique, src)
	}

	if hasStdin {
		unique = append(unique, stdinSource)
	}

	return unique
}

// sourceDir returns the directory that relative imports in src resolve
// against. Stdin resolves against the working directory.
func sourceDir(src string) string {
	if src == stdinSource {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}

		return "."
	}

	return filepath.Dir(src)
}
