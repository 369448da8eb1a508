package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/ardnew/bdl/lang"
)

// Imports resolves the import paths of the parsed sources.
type Imports struct {
	Include []string `help:"Directories searched before the search path variable" short:"I" type:"path"`
	Library string   `default:"${library}" help:"Directory of shared sources searched last"`

	Input `embed:""`
}

// Run executes the imports command.
func (i *Imports) Run(ctx context.Context) error {
	all, err := i.parseAll(ctx)
	if err != nil {
		return err
	}

	search := lang.SearchPath(i.Include...)
	if i.Library != "" && !slices.Contains(search, i.Library) {
		search = append(search, i.Library)
	}

	w := stdout(ctx)
	var (
		missing  int
		firstErr error
	)

	for _, p := range all {
		for _, res := range lang.ResolveImports(p.root, sourceDir(p.path), search) {
			from := strconv.Quote(res.Import.From.Value)
			if res.Err != nil {
				missing++

				if firstErr == nil {
					firstErr = res.Err
				}

				fmt.Fprintf(w, "%s: %s %s\n", p.path, from, errorColor.Sprint("not found"))

				continue
			}

			fmt.Fprintf(w, "%s: %s %s\n", p.path, from, dimColor.Sprint("-> "+res.Path))
		}
	}

	if missing > 0 {
		return ErrUnresolved.Wrap(firstErr).With(
			slog.Int("missing", missing),
			slog.Any("search", search))
	}

	return nil
}
