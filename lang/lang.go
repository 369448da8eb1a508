package lang

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/bdl/lang/ast"
	"github.com/ardnew/bdl/lang/parser"
	"github.com/ardnew/bdl/log"
)

// DefaultMaxDepth is the default bound on the nesting of blocks, lists and
// calls.
const DefaultMaxDepth = parser.DefaultMaxDepth

// Option configures parsing through this package.
type Option func(*options)

type options struct {
	logger   log.Logger
	maxDepth int
	noCache  bool
}

// WithLogger sets the logger used by every stage of the parse.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMaxDepth sets the maximum nesting depth. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithoutCache parses the source even when an equivalent parse is cached.
// The result is not stored.
func WithoutCache() Option {
	return func(o *options) { o.noCache = true }
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// ParseString parses source and returns its tree and registries.
//
// Results are cached by source and options. A cached [ast.Root] is shared
// between callers and must be treated as read-only.
//
// A syntax error is returned as [ErrParse] wrapping a *[parser.SyntaxError].
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (*ast.Root, error) {
	o := makeOptions(opts...)

	if o.noCache {
		return parse(ctx, source, o)
	}

	return parseCached(ctx, source, o)
}

// parse runs the grammar driver over source without consulting the cache.
func parse(ctx context.Context, source string, o options) (*ast.Root, error) {
	root, err := parser.Parse(ctx, source,
		parser.WithLogger(o.logger),
		parser.WithMaxDepth(o.maxDepth),
	)
	if err != nil {
		e := ErrParse.Wrap(err)

		var se *parser.SyntaxError
		if errors.As(err, &se) {
			e = e.With(
				slog.Int("line", se.Token.Start.Line),
				slog.Int("col", se.Token.Start.Col),
			)
		}

		return nil, e.With(slog.Int("source_length", len(source)))
	}

	return root, nil
}

// SyntaxError returns the syntax error carried by err, if any.
func SyntaxError(err error) (*parser.SyntaxError, bool) {
	var se *parser.SyntaxError
	if errors.As(err, &se) {
		return se, true
	}

	return nil, false
}
