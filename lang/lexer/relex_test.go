package lexer

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/bdl/lang/token"
	"github.com/ardnew/bdl/log"
)

// tokens is a Source over a fixed slice.
type tokens []token.Token

func (s *tokens) Next() token.Token {
	if len(*s) == 0 {
		return token.Token{Kind: token.EOF}
	}

	tok := (*s)[0]
	*s = (*s)[1:]

	return tok
}

func number(text string, col int) token.Token {
	return token.Token{
		Kind:  token.Number,
		Text:  text,
		Start: token.Position{Line: 1, Col: col},
		End:   token.Position{Line: 1, Col: col + len(text)},
		Line:  "x = " + text,
	}
}

func relex(src Source, opts ...Option) []token.Token {
	var out []token.Token

	for tok := range NewRelexer(src, opts...).All() {
		if tok.Kind != token.EOF {
			out = append(out, tok)
		}
	}

	return out
}

func TestRelexer_SplitNumerals(t *testing.T) {
	tests := []struct {
		text  string
		want  []string
		kinds []token.Kind
	}{
		{"1.2", []string{"1", ".", "2"}, []token.Kind{token.Number, token.Op, token.Number}},
		{"12.345", []string{"12", ".", "345"}, []token.Kind{token.Number, token.Op, token.Number}},
		{".5", []string{".", "5"}, []token.Kind{token.Op, token.Number}},
		{"5.", []string{"5", "."}, []token.Kind{token.Number, token.Op}},
		{"42", []string{"42"}, []token.Kind{token.Number}},
		{"1.5e3", []string{"1", ".", "5e3"}, []token.Kind{token.Number, token.Op, token.Number}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			src := tokens{number(tt.text, 4)}
			got := relex(&src)

			if !slices.Equal(texts(got), tt.want) {
				t.Fatalf("texts = %q, want %q", texts(got), tt.want)
			}

			if !slices.Equal(kinds(got), tt.kinds) {
				t.Errorf("kinds = %v, want %v", kinds(got), tt.kinds)
			}

			if got[0].Start != (token.Position{Line: 1, Col: 4}) {
				t.Errorf("first start = %v, want 1:4", got[0].Start)
			}

			for i := 1; i < len(got); i++ {
				if got[i-1].End != got[i].Start {
					t.Errorf("gap between %v and %v", got[i-1], got[i])
				}

				if got[i].Line != got[0].Line {
					t.Errorf("token %d line = %q, want %q", i, got[i].Line, got[0].Line)
				}
			}

			if last := got[len(got)-1]; last.End != (token.Position{Line: 1, Col: 4 + len(tt.text)}) {
				t.Errorf("last end = %v, want 1:%d", last.End, 4+len(tt.text))
			}
		})
	}
}

func TestRelexer_FiltersLayout(t *testing.T) {
	got := relex(NewString("a:\n  b = 1\n  c:\n    d = 2\n"))

	for _, tok := range got {
		if tok.Kind == token.Indent || tok.Kind == token.Dedent {
			t.Errorf("layout token leaked: %v", tok)
		}
	}

	if want := []string{"a", ":", "\n", "b", "=", "1", "\n", "c", ":", "\n", "d", "=", "2", "\n"}; !slices.Equal(texts(got), want) {
		t.Errorf("texts = %q, want %q", texts(got), want)
	}
}

func TestRelexer_IdentityWithoutDottedNumerals(t *testing.T) {
	const src = "name = call(1, k = 'v')\nlist = [true, 2e5]\n"

	var raw []token.Token

	l := NewString(src)
	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			break
		}

		raw = append(raw, tok)
	}

	if got := relex(NewString(src)); !slices.Equal(got, raw) {
		t.Errorf("relexed stream differs:\n got %v\nwant %v", got, raw)
	}
}

func TestRelexer_DottedPath(t *testing.T) {
	got := relex(NewString("v = a.0.1\n"))

	want := []string{"v", "=", "a", ".", "0", ".", "1", "\n"}
	if !slices.Equal(texts(got), want) {
		t.Errorf("texts = %q, want %q", texts(got), want)
	}
}

func TestRelexer_TruncationIsLogged(t *testing.T) {
	var buf bytes.Buffer

	src := tokens{number("1.2.3", 0)}
	got := relex(&src, WithLogger(log.Make(&buf, log.WithLevel(log.LevelWarn))))

	if !slices.Equal(texts(got), []string{"1", ".", "2"}) {
		t.Errorf("texts = %q, want first two segments", texts(got))
	}

	if !strings.Contains(buf.String(), "numeral truncated") {
		t.Errorf("expected truncation warning, got %q", buf.String())
	}
}

func TestRelexer_AllStopsEarly(t *testing.T) {
	r := NewRelexer(NewString("a = 1.5\n"))

	for tok := range r.All() {
		if tok.Text == "1" {
			break
		}
	}

	if tok := r.Next(); tok.Text != "." {
		t.Errorf("Next() after break = %q, want queued dot", tok.Text)
	}
}
