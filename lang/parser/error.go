package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ardnew/bdl/lang/token"
)

// SyntaxError is the only error a parse reports. It is fatal: the parse
// that raised it returns no tree and no registries.
type SyntaxError struct {
	Msg   string
	Token token.Token // offending token
}

// Error implements the error interface.
func (e *SyntaxError) Error() string { return "SyntaxError: " + e.Msg }

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Msg),
		slog.Int("line", e.Token.Start.Line),
		slog.Int("col", e.Token.Start.Col),
	)
}

// Snippet renders the offending source line with a caret under the start of
// the offending token:
//
//	  3 | x = (1, 2
//	    |          ^
//
// Wide characters before the token are accounted for by display width.
func (e *SyntaxError) Snippet() string {
	if e.Token.Start.Line < 1 {
		return ""
	}

	num := strconv.Itoa(e.Token.Start.Line)
	gutter := strings.Repeat(" ", len(num))

	prefix := []rune(e.Token.Line)
	if col := e.Token.Start.Col; col < len(prefix) {
		prefix = prefix[:col]
	}

	// Tabs are kept so the caret lines up under the same terminal tab stops.
	var pad strings.Builder

	for _, r := range prefix {
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
	}

	if e.Token.Start.Col > len([]rune(e.Token.Line)) {
		pad.WriteString(strings.Repeat(" ", e.Token.Start.Col-len([]rune(e.Token.Line))))
	}

	return fmt.Sprintf("  %s | %s\n  %s | %s^\n", num, e.Token.Line, gutter, pad.String())
}

// makeSyntaxError builds the error reported for tok.
func makeSyntaxError(tok token.Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Msg: fmt.Sprintf("line %d, column %d: ", tok.Start.Line, tok.Start.Col+1) +
			fmt.Sprintf(format, args...),
		Token: tok,
	}
}

// describe names a token for use in an error message.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"

	case token.Newline:
		return "end of line"

	case token.Error:
		switch {
		case strings.HasPrefix(tok.Text, `"`) || strings.HasPrefix(tok.Text, `'`):
			return "unterminated string " + tok.Text

		case strings.TrimLeft(tok.Text, " \t\f") == "":
			return "indentation that matches no outer level"
		}

		return "invalid character " + strconv.Quote(tok.Text)

	case token.String:
		return "string " + tok.Text
	}

	return strconv.Quote(tok.Text)
}
