package ast

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/bdl/lang/token"
	"github.com/ardnew/bdl/log"
)

// Builder constructs nodes on behalf of the grammar and records every block,
// block alias and import in the order they are constructed.
//
// A Builder belongs to exactly one parse. It is not safe for concurrent use
// and must not be reused after [Builder.Root].
type Builder struct {
	blocks  []Node
	imports []*Import
	logger  log.Logger
}

// Option configures a [Builder].
type Option func(*Builder)

// WithLogger sets the logger used to trace registrations.
func WithLogger(logger log.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}

	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	return b
}

// Argument is one entry of a call's argument list. Entries with a Name are
// keyword arguments.
type Argument struct {
	Name  *token.Token
	Value Node
}

// Block constructs and registers a block definition.
func (b *Builder) Block(name Name, value Node, nested []Node) *Block {
	n := &Block{
		Name:   name.Value,
		Token:  name.Token,
		Value:  value,
		Blocks: orEmpty(nested),
	}

	b.register(n)

	return n
}

// Alias constructs and registers a block alias.
func (b *Builder) Alias(name Name, value Node) *BlockAlias {
	n := &BlockAlias{Name: name, Value: value}

	b.register(n)

	return n
}

// Import constructs and registers an import statement. The quote characters
// surrounding from's text are removed; escapes are not decoded.
func (b *Builder) Import(from token.Token, members []*ImportMember) *Import {
	n := &Import{
		From:    Name{Value: stripQuotes(from.Text), Token: from},
		Members: orEmpty(members),
	}

	b.imports = append(b.imports, n)
	b.logger.Trace("register import",
		slog.String("from", n.From.Value),
		slog.Int("index", len(b.imports)-1))

	return n
}

// ImportMember constructs an import member. alias is nil when no alias
// clause was given.
func (b *Builder) ImportMember(name token.Token, alias *token.Token) *ImportMember {
	n := &ImportMember{Name: Name{Value: name.Text, Token: name}}

	if alias != nil {
		n.Alias = &Name{Value: alias.Text, Token: *alias}
	}

	return n
}

// Identifier joins the tokens of a dotted path into one identifier.
func (b *Builder) Identifier(parts ...token.Token) *Identifier {
	tok := token.Merge(parts...)

	return &Identifier{Name: tok.Text, Token: tok}
}

// LiteralIdentifier constructs a name spelled as '@' followed by a string
// token.
func (b *Builder) LiteralIdentifier(at, lit token.Token) *LiteralIdentifier {
	return &LiteralIdentifier{
		Name:  Unescape(stripQuotes(lit.Text)),
		Token: token.Merge(at, lit),
	}
}

// Call partitions entries into positional and keyword arguments, keeping
// the relative order within each kind. site is the call's opening
// parenthesis.
func (b *Builder) Call(callee Node, site token.Token, entries []Argument) *Call {
	n := &Call{
		Callee: callee,
		Token:  site,
		Args:   []Node{},
		Kwargs: []Kwarg{},
	}

	for _, e := range entries {
		if e.Name == nil {
			n.Args = append(n.Args, e.Value)

			continue
		}

		n.Kwargs = append(n.Kwargs, Kwarg{
			Name:  e.Name.Text,
			Token: *e.Name,
			Value: e.Value,
		})
	}

	return n
}

// String constructs a string literal from one or more adjacent string
// tokens. Each token loses its first and last character, the bodies are
// concatenated, and escapes are decoded from the result.
func (b *Builder) String(toks ...token.Token) *StringLiteral {
	var body strings.Builder

	for _, t := range toks {
		body.WriteString(stripQuotes(t.Text))
	}

	return &StringLiteral{
		Value: Unescape(body.String()),
		Token: token.Merge(toks...),
	}
}

// Number constructs a number literal from the numeral and dot tokens that
// spell it.
func (b *Builder) Number(toks ...token.Token) *NumberLiteral {
	tok := token.Merge(toks...)

	return &NumberLiteral{Value: tok.Text, Token: tok}
}

// Bool constructs a boolean literal from a true or false keyword token.
func (b *Builder) Bool(tok token.Token) *BooleanLiteral {
	return &BooleanLiteral{Value: tok.Text == "true", Token: tok}
}

// List constructs a list literal. open is the opening bracket.
func (b *Builder) List(open token.Token, elems []Node) *ListLiteral {
	return &ListLiteral{Elements: orEmpty(elems), Token: open}
}

// Root assembles the parse result from tree and the accumulated registries.
func (b *Builder) Root(tree []Node) *Root {
	b.logger.Trace("assemble root",
		slog.Int("statements", len(tree)),
		slog.Int("blocks", len(b.blocks)),
		slog.Int("imports", len(b.imports)))

	return &Root{
		Tree:    orEmpty(slices.Clone(tree)),
		Blocks:  orEmpty(slices.Clone(b.blocks)),
		Imports: orEmpty(slices.Clone(b.imports)),
	}
}

func (b *Builder) register(n Node) {
	b.blocks = append(b.blocks, n)

	name, _ := BlockName(n)
	b.logger.Trace("register block",
		slog.String("type", string(n.Type())),
		slog.String("name", name),
		slog.Int("index", len(b.blocks)-1))
}

// stripQuotes removes the first and last character of a quoted token.
func stripQuotes(s string) string {
	if len(s) < 2 {
		return ""
	}

	return s[1 : len(s)-1]
}

func orEmpty[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}

	return s
}
