// Package lexer turns bdl source text into tokens.
//
// [Lexer] is the raw tokenizer. It reports layout the way an
// indentation-sensitive language expects: Indent and Dedent markers around
// indented lines, a Newline at the end of every logical line with content,
// and no newlines inside brackets or braces.
//
// [Relexer] sits between any [Source] and the grammar. It drops the layout
// markers and splits numerals that contain a '.', so that "a.0.1" and "1.5"
// reach the grammar as sequences of names, numerals and dots.
package lexer

import (
	"strings"
	"unicode"

	"github.com/ardnew/bdl/lang/token"
)

// Source yields raw tokens one at a time. Once it has returned a token of
// kind [token.EOF], every later call must return EOF as well.
type Source interface {
	Next() token.Token
}

const tabSize = 8

// Lexer is the raw tokenizer over a rune slice.
type Lexer struct {
	src     []rune
	lines   []string
	pos     int
	line    int
	col     int
	indents []int
	pending []token.Token
	depth   int  // bracket nesting
	bol     bool // at the beginning of a logical line
	content bool // current logical line has a significant token
	done    bool
}

// New returns a Lexer reading src.
func New(src []rune) *Lexer {
	lines := strings.Split(string(src), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	return &Lexer{
		src:     src,
		lines:   lines,
		line:    1,
		indents: []int{0},
		bol:     true,
	}
}

// NewString returns a Lexer reading s.
func NewString(s string) *Lexer { return New([]rune(s)) }

// Next returns the next raw token. After the input is exhausted it returns
// EOF indefinitely.
func (l *Lexer) Next() token.Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]

		return tok
	}

	if l.done {
		return l.make(token.EOF, "", l.here(), l.here())
	}

	for {
		if l.bol && l.depth == 0 {
			if tok, ok := l.indentation(); ok {
				return tok
			}

			if l.bol {
				continue
			}
		}

		l.skipSpace()

		if l.eof() {
			return l.finish()
		}

		switch r := l.peek(); {
		case r == '#':
			l.skipComment()

		case r == '\\' && l.isNewline(1):
			l.advance()
			l.skipNewline()

		case l.isNewline(0):
			if tok, ok := l.newline(); ok {
				return tok
			}

		case isNameStart(r):
			return l.name()

		case isDigit(r) || (r == '.' && isDigit(l.peekAt(1))):
			return l.number()

		case r == '"' || r == '\'':
			return l.quoted(r)

		default:
			return l.operator()
		}
	}
}

// indentation consumes the leading whitespace of a line. Blank and
// comment-only lines are skipped entirely and leave the lexer at the
// beginning of the next line. It reports a token when the indentation level
// changes.
func (l *Lexer) indentation() (token.Token, bool) {
	start, from := l.here(), l.pos
	width := 0

	for !l.eof() {
		r := l.peek()
		if r == ' ' {
			width++
		} else if r == '\t' {
			width = (width/tabSize + 1) * tabSize
		} else if r == '\f' {
			width = 0
		} else {
			break
		}

		l.advance()
	}

	if l.eof() {
		l.bol = false

		return token.Token{}, false
	}

	if l.peek() == '#' || l.isNewline(0) {
		l.skipComment()
		l.skipNewline()

		return token.Token{}, false
	}

	l.bol = false

	top := l.indents[len(l.indents)-1]

	switch {
	case width > top:
		l.indents = append(l.indents, width)

		return l.make(token.Indent, string(l.src[from:l.pos]), start, l.here()), true

	case width < top:
		here := l.here()

		var dedents []token.Token

		for len(l.indents) > 1 && width < l.indents[len(l.indents)-1] {
			l.indents = l.indents[:len(l.indents)-1]
			dedents = append(dedents, l.make(token.Dedent, "", here, here))
		}

		if l.indents[len(l.indents)-1] != width {
			return l.make(token.Error, string(l.src[from:l.pos]), start, here), true
		}

		l.pending = append(l.pending, dedents[1:]...)

		return dedents[0], true
	}

	return token.Token{}, false
}

// finish emits the closing Newline, Dedent and EOF tokens.
func (l *Lexer) finish() token.Token {
	here := l.here()

	var out []token.Token

	if l.content {
		l.content = false
		out = append(out, l.make(token.Newline, "", here, here))
	}

	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		out = append(out, l.make(token.Dedent, "", here, here))
	}

	out = append(out, l.make(token.EOF, "", here, here))
	l.done = true
	l.pending = append(l.pending, out[1:]...)

	return out[0]
}

func (l *Lexer) newline() (token.Token, bool) {
	start := l.here()
	text := l.skipNewline()

	if l.depth > 0 {
		return token.Token{}, false
	}

	l.bol = true

	if !l.content {
		return token.Token{}, false
	}

	l.content = false

	return l.make(token.Newline, text, start, start.Advance(len([]rune(text)))), true
}

func (l *Lexer) name() token.Token {
	start, from := l.here(), l.pos

	for !l.eof() && isNameContinue(l.peek()) {
		l.advance()
	}

	return l.make(token.Name, string(l.src[from:l.pos]), start, l.here())
}

// number scans digits [ '.' digits ] [ exponent ], '.' digits [ exponent ],
// or a 0x, 0o or 0b prefixed integer.
func (l *Lexer) number() token.Token {
	start, from := l.here(), l.pos

	if l.peek() == '0' && strings.ContainsRune("xXoObB", l.peekAt(1)) {
		l.advance()
		l.advance()

		for !l.eof() && (isHexDigit(l.peek()) || l.peek() == '_') {
			l.advance()
		}

		return l.make(token.Number, string(l.src[from:l.pos]), start, l.here())
	}

	l.digits()

	if l.peek() == '.' {
		l.advance()
		l.digits()
	}

	if r := l.peek(); r == 'e' || r == 'E' {
		sign := l.peekAt(1) == '+' || l.peekAt(1) == '-'
		if isDigit(l.peekAt(1)) || (sign && isDigit(l.peekAt(2))) {
			l.advance()

			if sign {
				l.advance()
			}

			l.digits()
		}
	}

	return l.make(token.Number, string(l.src[from:l.pos]), start, l.here())
}

// quoted scans a single-line string literal. An unterminated literal is
// returned as an Error token.
func (l *Lexer) quoted(quote rune) token.Token {
	start, from := l.here(), l.pos
	l.advance()

	for {
		if l.eof() || l.isNewline(0) {
			return l.make(token.Error, string(l.src[from:l.pos]), start, l.here())
		}

		r := l.peek()
		l.advance()

		if r == '\\' && !l.eof() && !l.isNewline(0) {
			l.advance()

			continue
		}

		if r == quote {
			return l.make(token.String, string(l.src[from:l.pos]), start, l.here())
		}
	}
}

func (l *Lexer) operator() token.Token {
	start := l.here()
	r := l.peek()
	l.advance()

	switch r {
	case '(', '[', '{':
		l.depth++

	case ')', ']', '}':
		if l.depth > 0 {
			l.depth--
		}

	case ':', '=', ',', '.', '@', ';':

	default:
		return l.make(token.Error, string(r), start, l.here())
	}

	return l.make(token.Op, string(r), start, l.here())
}

func (l *Lexer) make(kind token.Kind, text string, start, end token.Position) token.Token {
	switch kind {
	case token.Name, token.Number, token.String, token.Op, token.Error:
		l.content = true
	}

	var line string
	if start.Line >= 1 && start.Line <= len(l.lines) {
		line = l.lines[start.Line-1]
	}

	return token.Token{
		Kind:  kind,
		Text:  text,
		Start: start,
		End:   end,
		Line:  line,
	}
}

// Helper methods

func (l *Lexer) here() token.Position {
	return token.Position{Line: l.line, Col: l.col}
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() rune { return l.peekAt(0) }

func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.src) {
		return 0
	}

	return l.src[l.pos+n]
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}

	l.pos++
}

func (l *Lexer) isNewline(n int) bool {
	switch l.peekAt(n) {
	case '\n':
		return true
	case '\r':
		return l.peekAt(n+1) == '\n'
	}

	return false
}

// skipNewline consumes one line terminator and returns it.
func (l *Lexer) skipNewline() string {
	switch {
	case l.peek() == '\n':
		l.advance()

		return "\n"

	case l.peek() == '\r' && l.peekAt(1) == '\n':
		l.advance()
		l.advance()

		return "\r\n"
	}

	return ""
}

func (l *Lexer) skipSpace() {
	for !l.eof() {
		switch r := l.peek(); {
		case r == ' ', r == '\t', r == '\f':
			l.advance()
		case r == '\r' && !l.isNewline(0):
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	for !l.eof() && !l.isNewline(0) {
		l.advance()
	}
}

func (l *Lexer) digits() {
	for !l.eof() && (isDigit(l.peek()) || l.peek() == '_') {
		l.advance()
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// IsName reports whether s is spelled as a single name token.
func IsName(s string) bool {
	for i, r := range s {
		if i == 0 && !isNameStart(r) || !isNameContinue(r) {
			return false
		}
	}

	return s != ""
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameContinue(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r)
}
