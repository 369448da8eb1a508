package lang

import (
	"context"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/bdl/lang/ast"
)

// QueryEnv returns the variables visible to a query over root:
//
//	tree     top-level statements
//	blocks   block registry in construction order
//	imports  import registry in construction order
//	names    distinct block names
//	block    func(name) returning the first block with that name, or nil
//
// Nodes have the same shape as the JSON export.
func QueryEnv(root *ast.Root) map[string]any {
	m := root.ToMap()

	return map[string]any{
		"tree":    m["tree"],
		"blocks":  m["blocks"],
		"imports": m["imports"],
		"names":   root.Names(),
		"block": func(name string) any {
			if n, ok := root.Lookup(name); ok {
				return n.ToMap()
			}

			return nil
		},
	}
}

// Query evaluates an expr-lang expression over root.
func Query(_ context.Context, root *ast.Root, source string) (any, error) {
	env := QueryEnv(root)

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrQuery.Wrap(err).
			With(slog.String("query", source))
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrQuery.Wrap(err).
			With(slog.String("query", source))
	}

	return result, nil
}
