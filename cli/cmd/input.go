package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/bdl/lang"
	"github.com/ardnew/bdl/lang/ast"
	"github.com/ardnew/bdl/log"
)

// Input names the source files a command reads. The global --source files
// come first; with no sources at all, stdin is read.
type Input struct {
	Files    []string `arg:"" help:"Source file(s) or '-' for stdin" name:"source" optional:"" type:"path"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum block nesting depth."`
}

// parsed is one parsed source file.
type parsed struct {
	path string
	root *ast.Root
}

func (in *Input) sources(ctx context.Context) []string {
	srcs := uniqueSources(append(sourcesFrom(ctx), in.Files...))
	if len(srcs) == 0 {
		return []string{stdinSource}
	}

	return srcs
}

// parseAll parses every source concurrently. The result keeps source order.
// The first failure cancels the remaining parses and is returned.
func (in *Input) parseAll(ctx context.Context) ([]parsed, error) {
	srcs := in.sources(ctx)
	out := make([]parsed, len(srcs))

	g, gctx := errgroup.WithContext(ctx)

	for i, src := range srcs {
		g.Go(func() error {
			root, err := lang.ParseFile(gctx, src,
				lang.WithLogger(log.Default()),
				lang.WithMaxDepth(in.MaxDepth))
			if err != nil {
				return err
			}

			out[i] = parsed{path: src, root: root}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "parsed sources", slog.Int("count", len(out)))

	return out, nil
}

// parse parses every source and merges them into a single root.
func (in *Input) parse(ctx context.Context) (*ast.Root, error) {
	all, err := in.parseAll(ctx)
	if err != nil {
		return nil, err
	}

	return mergeRoots(all), nil
}

// read returns the concatenated text of every source, each ending with a
// line break.
func (in *Input) read(ctx context.Context) (string, error) {
	var sb strings.Builder

	for _, src := range in.sources(ctx) {
		text, err := readSource(src)
		if err != nil {
			return "", err
		}

		sb.WriteString(text)

		if text != "" && !strings.HasSuffix(text, "\n") {
			sb.WriteByte('\n')
		}
	}

	return sb.String(), nil
}

func readSource(src string) (string, error) {
	var (
		data []byte
		err  error
	)

	if src == stdinSource {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(src)
	}

	if err != nil {
		return "", ErrOpenSource.Wrap(err).With(slog.String("source", src))
	}

	return string(data), nil
}

// mergeRoots joins the roots of several files as if their statements had
// been read in order from one file.
func mergeRoots(all []parsed) *ast.Root {
	if len(all) == 1 {
		return all[0].root
	}

	merged := &ast.Root{
		Tree:    []ast.Node{},
		Blocks:  []ast.Node{},
		Imports: []*ast.Import{},
	}

	for _, p := range all {
		merged.Tree = append(merged.Tree, p.root.Tree...)
		merged.Blocks = append(merged.Blocks, p.root.Blocks...)
		merged.Imports = append(merged.Imports, p.root.Imports...)
	}

	return merged
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}
