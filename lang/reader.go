package lang

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/readahead"

	"github.com/ardnew/bdl/lang/ast"
)

// ParseReader reads all of r and parses it with [ParseString].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*ast.Root, error) {
	// Wrap reader with async read-ahead so input is prefetched while the
	// previous chunk is copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)
	o.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return ParseString(ctx, string(data), opts...)
}

// ParseFile parses the named file. The name "-" reads standard input.
func ParseFile(
	ctx context.Context,
	name string,
	opts ...Option,
) (*ast.Root, error) {
	if name == "-" {
		return ParseReader(ctx, os.Stdin, opts...)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", name))
	}
	defer f.Close()

	root, err := ParseReader(ctx, f, opts...)
	if err != nil {
		return nil, WrapError(err).With(slog.String("source", name))
	}

	return root, nil
}
