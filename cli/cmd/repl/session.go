package repl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/bdl/lang"
	"github.com/ardnew/bdl/lang/ast"
	"github.com/ardnew/bdl/log"
)

// Session accumulates the statements entered in a REPL. Every definition is
// checked by reparsing the whole session source, so nesting and registry
// order are exactly those of an equivalent file.
type Session struct {
	source string
	root   *ast.Root
	logger log.Logger
}

// NewSession returns a session seeded with source, which must parse.
func NewSession(ctx context.Context, source string, logger log.Logger) (*Session, error) {
	s := &Session{logger: logger, root: &ast.Root{}}

	if strings.TrimSpace(source) == "" {
		return s, nil
	}

	if err := s.Replace(ctx, source); err != nil {
		return nil, err
	}

	return s, nil
}

// Define appends input to the session and returns the top-level statements
// it added. On error the session is unchanged.
func (s *Session) Define(ctx context.Context, input string) ([]ast.Node, error) {
	src := s.source + strings.TrimRight(input, "\r\n") + "\n"

	root, err := lang.ParseString(ctx, src, lang.WithLogger(s.logger), lang.WithoutCache())
	if err != nil {
		return nil, err
	}

	added := root.Tree[min(len(s.root.Tree), len(root.Tree)):]
	s.source, s.root = src, root

	s.logger.TraceContext(ctx, "session define",
		slog.Int("added", len(added)),
		slog.Int("blocks", len(root.Blocks)))

	return added, nil
}

// Replace discards the session and starts over from source.
func (s *Session) Replace(ctx context.Context, source string) error {
	if source != "" && !strings.HasSuffix(source, "\n") {
		source += "\n"
	}

	root, err := lang.ParseString(ctx, source, lang.WithLogger(s.logger), lang.WithoutCache())
	if err != nil {
		return err
	}

	s.source, s.root = source, root

	return nil
}

// Reset empties the session.
func (s *Session) Reset() {
	s.source, s.root = "", &ast.Root{}
}

// Query evaluates an expr-lang expression over the session tree.
func (s *Session) Query(ctx context.Context, expr string) (any, error) {
	return lang.Query(ctx, s.root, expr)
}

// Source returns the session source text.
func (s *Session) Source() string { return s.source }

// Root returns the parse of the session source.
func (s *Session) Root() *ast.Root { return s.root }

// Names returns the distinct block names defined so far.
func (s *Session) Names() []string { return s.root.Names() }
