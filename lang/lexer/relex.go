package lexer

import (
	"iter"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/gammazero/deque"

	"github.com/ardnew/bdl/lang/token"
	"github.com/ardnew/bdl/log"
)

// Relexer normalizes a raw token [Source] for the grammar.
//
// Indent and Dedent markers are consumed silently. Every Number token whose
// text contains a '.' is split into numeral and dot tokens with contiguous
// spans on the original line; tokens synthesized ahead of the one returned
// wait in a FIFO queue that is drained before the source is consulted again.
//
// A Relexer is forward-only and cannot be restarted.
type Relexer struct {
	src    Source
	queue  deque.Deque[token.Token]
	logger log.Logger
}

// Option configures a [Relexer].
type Option func(*Relexer)

// WithLogger sets the logger used to trace split numerals.
func WithLogger(logger log.Logger) Option {
	return func(r *Relexer) { r.logger = logger }
}

// NewRelexer returns a Relexer pulling from src.
func NewRelexer(src Source, opts ...Option) *Relexer {
	r := &Relexer{src: src}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Next returns the next significant token.
func (r *Relexer) Next() token.Token {
	if r.queue.Len() > 0 {
		return r.queue.PopFront()
	}

	for {
		tok := r.src.Next()

		switch tok.Kind {
		case token.Indent, token.Dedent:
			continue

		case token.Number:
			return r.split(tok)
		}

		return tok
	}
}

// All returns the remaining tokens as a sequence ending with EOF.
func (r *Relexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := r.Next()
			if !yield(tok) || tok.Kind == token.EOF {
				return
			}
		}
	}
}

// split resolves a numeral containing '.' into up to three tokens, returning
// the first and queueing the rest.
//
// Only the first two non-empty segments are kept. The raw [Lexer] never
// produces a numeral with more than one '.', so any remainder dropped here
// came from a foreign Source and is reported at Warn level.
func (r *Relexer) split(tok token.Token) token.Token {
	if !strings.Contains(tok.Text, ".") {
		return tok
	}

	var segs []string

	for seg := range strings.SplitSeq(tok.Text, ".") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}

	var out []token.Token

	switch {
	case len(segs) >= 2:
		whole := numeral(tok, segs[0], tok.Start)
		dot := dot(tok, whole.End)
		out = []token.Token{whole, dot, numeral(tok, segs[1], dot.End)}

	case len(segs) == 1 && strings.HasPrefix(tok.Text, "."):
		dot := dot(tok, tok.Start)
		out = []token.Token{dot, numeral(tok, segs[0], dot.End)}

	case len(segs) == 1:
		whole := numeral(tok, segs[0], tok.Start)
		out = []token.Token{whole, dot(tok, whole.End)}

	default:
		return tok
	}

	if kept := out[len(out)-1].End.Col - tok.Start.Col; kept != utf8.RuneCountInString(tok.Text) {
		r.logger.Warn("numeral truncated",
			slog.Any("token", tok),
			slog.Int("segments", len(segs)),
			slog.Int("kept", kept))
	}

	r.logger.Trace("numeral split",
		slog.String("text", tok.Text),
		slog.Int("tokens", len(out)))

	for _, t := range out[1:] {
		r.queue.PushBack(t)
	}

	return out[0]
}

func numeral(from token.Token, text string, at token.Position) token.Token {
	return token.Token{
		Kind:  token.Number,
		Text:  text,
		Start: at,
		End:   at.Advance(utf8.RuneCountInString(text)),
		Line:  from.Line,
	}
}

func dot(from token.Token, at token.Position) token.Token {
	return token.Token{
		Kind:  token.Op,
		Text:  ".",
		Start: at,
		End:   at.Advance(1),
		Line:  from.Line,
	}
}
