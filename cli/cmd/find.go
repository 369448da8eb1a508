package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/bdl/lang"
)

// Find lists the blocks whose names fuzzy-match a pattern, best first.
type Find struct {
	Pattern string `arg:"" help:"Characters to match, in order" name:"pattern"`
	Limit   int    `default:"0" help:"Print at most this many matches (0 for all)" short:"n"`

	Input `embed:""`
}

// Run executes the find command.
func (f *Find) Run(ctx context.Context) error {
	root, err := f.parse(ctx)
	if err != nil {
		return err
	}

	matches := lang.Find(root, f.Pattern)
	if len(matches) == 0 {
		return lang.ErrBlockNotFound.With(slog.String("pattern", f.Pattern))
	}

	if f.Limit > 0 && len(matches) > f.Limit {
		matches = matches[:f.Limit]
	}

	w := stdout(ctx)

	for _, m := range matches {
		pos := m.Node.Provenance().Start
		_, err := fmt.Fprintf(w, "%s %s\n",
			highlight(m.Name, m.Matched),
			dimColor.Sprintf("%s @ %s", m.Node.Type(), pos))
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// highlight colors the bytes of s at the given offsets.
func highlight(s string, matched []int) string {
	var sb strings.Builder

	for i, r := range s {
		if slices.Contains(matched, i) {
			sb.WriteString(matchColor.Sprint(string(r)))
		} else {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
