package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ardnew/bdl/lang/lexer"
	"github.com/ardnew/bdl/lang/token"
	"github.com/ardnew/bdl/log"
)

// Tokens prints the token stream the parser consumes.
type Tokens struct {
	Raw  bool `help:"Print the raw lexer stream, including INDENT and DEDENT, without splitting numerals."`
	JSON bool `help:"Print one JSON object per token."                                                     short:"j"`

	Input `embed:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	w := stdout(ctx)

	for _, src := range t.sources(ctx) {
		text, err := readSource(src)
		if err != nil {
			return err
		}

		var next func() token.Token

		lex := lexer.NewString(text)
		if t.Raw {
			next = lex.Next
		} else {
			next = lexer.NewRelexer(lex, lexer.WithLogger(log.Default())).Next
		}

		for {
			tok := next()
			if err := t.print(w, tok); err != nil {
				return ErrWriteOutput.Wrap(err)
			}

			if tok.Kind == token.EOF {
				break
			}
		}
	}

	return nil
}

func (t *Tokens) print(w io.Writer, tok token.Token) error {
	if t.JSON {
		m := tok.ToMap()
		m["kind"] = tok.Kind.String()

		data, err := json.Marshal(m)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	}

	_, err := fmt.Fprintf(w, "%-7s %-7s %q\n", tok.Start, tok.Kind, tok.Text)

	return err
}
