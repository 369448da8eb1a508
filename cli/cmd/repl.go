package cmd

import (
	"context"

	"github.com/ardnew/bdl/cli/cmd/repl"
	"github.com/ardnew/bdl/log"
)

// Repl starts an interactive session seeded with the --source files.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache path undefined")
	}

	// Only --source seeds the session; stdin belongs to the terminal.
	var in Input

	source := ""
	if len(sourcesFrom(ctx)) > 0 {
		var err error
		if source, err = in.read(ctx); err != nil {
			return err
		}
	}

	return repl.Run(ctx, source, cacheDir, log.Default())
}
