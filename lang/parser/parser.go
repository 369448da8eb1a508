// Package parser implements the bdl grammar as a recursive-descent driver
// over a [lexer.Relexer], constructing the tree with an [ast.Builder].
//
//	file       := { NEWLINE | statement } EOF
//	statement  := import NEWLINE | definition NEWLINE
//	import     := 'from' STRING 'import' member { ',' member }
//	member     := NAME [ 'as' NAME ]
//	definition := blockName '=' expr
//	            | blockName ':' [ expr ] [ '{' { definition } '}' ]
//	blockName  := NAME | '@' STRING
//	expr       := path [ '(' [ arg { ',' arg } [ ',' ] ] ')' ]
//	            | '@' STRING
//	            | STRING { STRING }
//	            | NUMBER [ '.' [ NUMBER ] ] | '.' NUMBER
//	            | 'true' | 'false'
//	            | '[' [ expr { ',' expr } [ ',' ] ] ']'
//	path       := NAME { '.' ( NAME | NUMBER ) }
//	arg        := NAME '=' expr | expr
//
// Indentation carries no meaning: the re-lexer removes its markers, and the
// raw lexer emits no newlines between braces, so the nested definitions of a
// block are delimited by '{' and '}' alone.
package parser

import (
	"context"
	"log/slog"

	"github.com/ardnew/bdl/lang/ast"
	"github.com/ardnew/bdl/lang/lexer"
	"github.com/ardnew/bdl/lang/token"
	"github.com/ardnew/bdl/log"
)

// DefaultMaxDepth bounds the nesting of blocks, lists and calls.
const DefaultMaxDepth = 100

// reserved words cannot be used as names.
var reserved = map[string]bool{
	"from":   true,
	"import": true,
	"as":     true,
	"true":   true,
	"false":  true,
}

// IsReserved reports whether word is a keyword that cannot be used as a name.
func IsReserved(word string) bool { return reserved[word] }

// Option configures a parse.
type Option func(*parser)

// WithLogger sets the logger passed to the re-lexer and builder.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

// WithMaxDepth sets the maximum nesting depth. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(p *parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// Parse parses src. On failure it returns a *[SyntaxError] and no tree.
func Parse(ctx context.Context, src string, opts ...Option) (*ast.Root, error) {
	return ParseTokens(ctx, lexer.NewString(src), opts...)
}

// ParseTokens parses the raw tokens produced by src.
func ParseTokens(
	ctx context.Context,
	src lexer.Source,
	opts ...Option,
) (*ast.Root, error) {
	p := &parser{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	p.lex = lexer.NewRelexer(src, lexer.WithLogger(p.logger))
	p.b = ast.NewBuilder(ast.WithLogger(p.logger))

	root, err := p.file(ctx)
	if err != nil {
		p.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("statements", len(root.Tree)),
		slog.Int("blocks", len(root.Blocks)),
		slog.Int("imports", len(root.Imports)))

	return root, nil
}

// parser holds the state of one parse.
type parser struct {
	lex      *lexer.Relexer
	b        *ast.Builder
	logger   log.Logger
	la       []token.Token // lookahead
	depth    int
	maxDepth int
}

// file parses top-level statements until EOF. Cancellation of ctx is
// checked between statements.
func (p *parser) file(ctx context.Context) (*ast.Root, error) {
	tree := []ast.Node{}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch p.peek().Kind {
		case token.EOF:
			return p.b.Root(tree), nil

		case token.Newline:
			p.next()

			continue
		}

		n, err := p.statement()
		if err != nil {
			return nil, err
		}

		tree = append(tree, n)
	}
}

func (p *parser) statement() (ast.Node, error) {
	if p.peek().Is(token.Name, "from") {
		return p.importStatement()
	}

	def, err := p.definition()
	if err != nil {
		return nil, err
	}

	if err := p.endOfLine(); err != nil {
		return nil, err
	}

	return def, nil
}

func (p *parser) importStatement() (ast.Node, error) {
	p.next() // from

	from, err := p.expectKind(token.String, "import path string")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Name, "import"); err != nil {
		return nil, err
	}

	items, err := p.separated(func() (any, error) { return p.member() }, "")
	if err != nil {
		return nil, err
	}

	if err := p.endOfLine(); err != nil {
		return nil, err
	}

	return p.b.Import(from, ast.FlattenAs[*ast.ImportMember](items)), nil
}

func (p *parser) member() (*ast.ImportMember, error) {
	name, err := p.name("import member name")
	if err != nil {
		return nil, err
	}

	if !p.peek().Is(token.Name, "as") {
		return p.b.ImportMember(name, nil), nil
	}

	p.next()

	alias, err := p.name("alias name")
	if err != nil {
		return nil, err
	}

	return p.b.ImportMember(name, &alias), nil
}

func (p *parser) definition() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	name, err := p.blockName()
	if err != nil {
		return nil, err
	}

	switch tok := p.peek(); {
	case tok.Is(token.Op, "="):
		p.next()

		value, err := p.expr()
		if err != nil {
			return nil, err
		}

		return p.b.Alias(name, value), nil

	case tok.Is(token.Op, ":"):
		p.next()

		var value ast.Node

		if !p.atDefinitionEnd() && !p.peek().Is(token.Op, "{") {
			if value, err = p.expr(); err != nil {
				return nil, err
			}
		}

		var nested []ast.Node

		if p.peek().Is(token.Op, "{") {
			if nested, err = p.nested(); err != nil {
				return nil, err
			}
		}

		return p.b.Block(name, value, nested), nil

	default:
		return nil, makeSyntaxError(tok, "expected '=' or ':' after %q, found %s",
			name.Value, describe(tok))
	}
}

// atDefinitionEnd reports whether the next token ends a definition that has
// no value: the end of a line, the end of input, or the closing brace of the
// enclosing block.
func (p *parser) atDefinitionEnd() bool {
	tok := p.peek()

	return tok.Kind == token.Newline || tok.Kind == token.EOF || tok.Is(token.Op, "}")
}

// nested parses the brace-delimited definitions of a block. The braces
// suppress newlines, so definitions follow one another directly.
func (p *parser) nested() ([]ast.Node, error) {
	p.next() // {

	defs := []ast.Node{}

	for {
		tok := p.peek()

		switch {
		case tok.Is(token.Op, "}"):
			p.next()

			return defs, nil

		case tok.Kind == token.EOF, tok.Kind == token.Newline:
			return nil, makeSyntaxError(tok, "expected '}' to close block, found %s",
				describe(tok))
		}

		def, err := p.definition()
		if err != nil {
			return nil, err
		}

		defs = append(defs, def)
	}
}

func (p *parser) blockName() (ast.Name, error) {
	tok := p.peek()

	switch {
	case tok.Kind == token.Name && !reserved[tok.Text]:
		p.next()

		return ast.Name{Value: tok.Text, Token: tok}, nil

	case tok.Is(token.Op, "@"):
		lit, err := p.literalIdentifier()
		if err != nil {
			return ast.Name{}, err
		}

		return ast.Name{Value: lit.Name, Token: lit.Token}, nil
	}

	return ast.Name{}, makeSyntaxError(tok, "expected block name, found %s", describe(tok))
}

func (p *parser) expr() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.peek()

	switch {
	case tok.Is(token.Name, "true"), tok.Is(token.Name, "false"):
		return p.b.Bool(p.next()), nil

	case tok.Kind == token.Name && !reserved[tok.Text]:
		return p.pathOrCall()

	case tok.Is(token.Op, "@"):
		return p.literalIdentifier()

	case tok.Kind == token.String:
		toks := []token.Token{p.next()}
		for p.peek().Kind == token.String {
			toks = append(toks, p.next())
		}

		return p.b.String(toks...), nil

	case tok.Kind == token.Number:
		return p.number(), nil

	case tok.Is(token.Op, ".") && p.peekAt(1).Kind == token.Number && tok.Adjacent(p.peekAt(1)):
		return p.b.Number(p.next(), p.next()), nil

	case tok.Is(token.Op, "["):
		return p.list()
	}

	return nil, makeSyntaxError(tok, "expected expression, found %s", describe(tok))
}

// number joins a numeral with a directly adjacent '.' and fraction, which
// the re-lexer emitted as separate tokens.
func (p *parser) number() ast.Node {
	parts := []token.Token{p.next()}

	if dot := p.peek(); dot.Is(token.Op, ".") && parts[0].Adjacent(dot) {
		parts = append(parts, p.next())

		if frac := p.peek(); frac.Kind == token.Number && dot.Adjacent(frac) {
			parts = append(parts, p.next())
		}
	}

	return p.b.Number(parts...)
}

func (p *parser) pathOrCall() (ast.Node, error) {
	parts := []token.Token{p.next()}

	for p.peek().Is(token.Op, ".") {
		dot := p.next()

		seg := p.peek()
		if (seg.Kind != token.Name || reserved[seg.Text]) && seg.Kind != token.Number {
			return nil, makeSyntaxError(seg, "expected name or index after '.', found %s",
				describe(seg))
		}

		parts = append(parts, dot, p.next())
	}

	ident := p.b.Identifier(parts...)

	if !p.peek().Is(token.Op, "(") {
		return ident, nil
	}

	site := p.next()

	items, err := p.separated(func() (any, error) { return p.argument() }, ")")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Op, ")"); err != nil {
		return nil, err
	}

	return p.b.Call(ident, site, ast.FlattenAs[ast.Argument](items)), nil
}

func (p *parser) argument() (ast.Argument, error) {
	if tok := p.peek(); tok.Kind == token.Name && !reserved[tok.Text] &&
		p.peekAt(1).Is(token.Op, "=") {
		name := p.next()
		p.next()

		value, err := p.expr()
		if err != nil {
			return ast.Argument{}, err
		}

		return ast.Argument{Name: &name, Value: value}, nil
	}

	value, err := p.expr()
	if err != nil {
		return ast.Argument{}, err
	}

	return ast.Argument{Value: value}, nil
}

func (p *parser) list() (ast.Node, error) {
	open := p.next()

	items, err := p.separated(func() (any, error) { return p.expr() }, "]")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Op, "]"); err != nil {
		return nil, err
	}

	return p.b.List(open, ast.FlattenAs[ast.Node](items)), nil
}

func (p *parser) literalIdentifier() (*ast.LiteralIdentifier, error) {
	at := p.next()

	lit := p.peek()
	if lit.Kind != token.String || !at.Adjacent(lit) {
		return nil, makeSyntaxError(lit, "expected string directly after '@', found %s",
			describe(lit))
	}

	return p.b.LiteralIdentifier(at, p.next()), nil
}

// separated parses [ item { ',' item } [ ',' ] ] up to, but not including,
// the closing operator. With no closing operator the list must be non-empty
// and cannot end with a comma.
//
// The result keeps the shape of the repetition, the first item followed by
// a slice of (separator, item) pairs, for the caller to flatten.
func (p *parser) separated(item func() (any, error), closing string) ([]any, error) {
	if closing != "" && p.peek().Is(token.Op, closing) {
		return nil, nil
	}

	first, err := item()
	if err != nil {
		return nil, err
	}

	var rest [][]any

	for p.peek().Is(token.Op, ",") {
		comma := p.next()

		if closing != "" && p.peek().Is(token.Op, closing) {
			rest = append(rest, []any{comma})

			break
		}

		v, err := item()
		if err != nil {
			return nil, err
		}

		rest = append(rest, []any{comma, v})
	}

	return []any{first, rest}, nil
}

// Helper methods

func (p *parser) peek() token.Token { return p.peekAt(0) }

func (p *parser) peekAt(n int) token.Token {
	for len(p.la) <= n {
		p.la = append(p.la, p.lex.Next())
	}

	return p.la[n]
}

func (p *parser) next() token.Token {
	tok := p.peek()
	p.la = p.la[1:]

	return tok
}

func (p *parser) expect(kind token.Kind, text string) (token.Token, error) {
	if tok := p.peek(); !tok.Is(kind, text) {
		return tok, makeSyntaxError(tok, "expected %q, found %s", text, describe(tok))
	}

	return p.next(), nil
}

func (p *parser) expectKind(kind token.Kind, what string) (token.Token, error) {
	if tok := p.peek(); tok.Kind != kind {
		return tok, makeSyntaxError(tok, "expected %s, found %s", what, describe(tok))
	}

	return p.next(), nil
}

func (p *parser) name(what string) (token.Token, error) {
	if tok := p.peek(); tok.Kind != token.Name || reserved[tok.Text] {
		return tok, makeSyntaxError(tok, "expected %s, found %s", what, describe(tok))
	}

	return p.next(), nil
}

// endOfLine consumes a Newline. EOF also ends a line but is left in place.
func (p *parser) endOfLine() error {
	switch tok := p.peek(); tok.Kind {
	case token.Newline:
		p.next()

		return nil

	case token.EOF:
		return nil

	default:
		return makeSyntaxError(tok, "expected end of line, found %s", describe(tok))
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return makeSyntaxError(p.peek(), "maximum nesting depth %d exceeded", p.maxDepth)
	}

	return nil
}

func (p *parser) leave() { p.depth-- }
