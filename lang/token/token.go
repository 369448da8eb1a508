// Package token defines the position-stamped lexical units shared by the
// lexer, re-lexer, parser and AST.
package token

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Kind classifies a raw token. It is consumed by the grammar only and is not
// part of the serialized provenance.
type Kind int

const (
	EOF Kind = iota
	Error
	Name
	Number
	String
	Op
	Newline
	Indent
	Dedent
)

var kindNames = [...]string{
	EOF:     "EOF",
	Error:   "ERROR",
	Name:    "NAME",
	Number:  "NUMBER",
	String:  "STRING",
	Op:      "OP",
	Newline: "NEWLINE",
	Indent:  "INDENT",
	Dedent:  "DEDENT",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Position is a 1-based line and 0-based rune column.
type Position struct {
	Line int
	Col  int
}

// Advance returns the position n columns to the right on the same line.
func (p Position) Advance(n int) Position {
	return Position{Line: p.Line, Col: p.Col + n}
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// MarshalJSON encodes the position as a two-element array [line, col].
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Line, p.Col})
}

// UnmarshalJSON decodes a position from a two-element array.
func (p *Position) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("position: %w", err)
	}

	p.Line, p.Col = pair[0], pair[1]

	return nil
}

// Token is an immutable lexical unit with its source provenance.
//
// End is exclusive. Line holds the full text of the source line containing
// Start with any trailing line terminator removed.
type Token struct {
	Kind  Kind     `json:"-"`
	Text  string   `json:"string"`
	Start Position `json:"start"`
	End   Position `json:"end"`
	Line  string   `json:"line"`
}

// Is reports whether t has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// Adjacent reports whether next begins exactly where t ends.
func (t Token) Adjacent(next Token) bool {
	return t.End == next.Start
}

func (t Token) String() string {
	return t.Kind.String() + " " + strconv.Quote(t.Text) + " @" + t.Start.String()
}

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", t.Kind.String()),
		slog.String("text", t.Text),
		slog.String("start", t.Start.String()),
		slog.String("end", t.End.String()),
	)
}

// Merge returns a token covering every given token: the text is the
// concatenation of each token's text, Start and Line come from the first
// token, and End from the last. The kind of the first token is kept.
func Merge(toks ...Token) Token {
	switch len(toks) {
	case 0:
		return Token{}
	case 1:
		return toks[0]
	}

	var sb strings.Builder

	for _, t := range toks {
		sb.WriteString(t.Text)
	}

	first, last := toks[0], toks[len(toks)-1]

	return Token{
		Kind:  first.Kind,
		Text:  sb.String(),
		Start: first.Start,
		End:   last.End,
		Line:  first.Line,
	}
}
