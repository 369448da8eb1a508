package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ardnew/bdl/lang"
)

// Query evaluates an expression over the parsed sources.
type Query struct {
	Expr   string `arg:"" help:"Expression over tree, blocks, imports, names and block(name)" name:"expr"`
	Indent int    `default:"2" help:"Indent width for JSON output" short:"i"`

	Input `embed:""`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	root, err := q.parse(ctx)
	if err != nil {
		return err
	}

	result, err := lang.Query(ctx, root, q.Expr)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", fmt.Sprintf("%*s", q.Indent, ""))
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("query", q.Expr))
	}

	if _, err := fmt.Fprintln(stdout(ctx), string(data)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
