package ast

import (
	"slices"
	"testing"

	"github.com/ardnew/bdl/lang/token"
)

func tok(kind token.Kind, text string, line, col int) token.Token {
	return token.Token{
		Kind:  kind,
		Text:  text,
		Start: token.Position{Line: line, Col: col},
		End:   token.Position{Line: line, Col: col + len([]rune(text))},
		Line:  "source line",
	}
}

func TestBuilder_String(t *testing.T) {
	tests := []struct {
		name  string
		toks  []token.Token
		value string
		text  string
	}{
		{
			"escape",
			[]token.Token{tok(token.String, `'a\nb'`, 1, 4)},
			"a\nb",
			`'a\nb'`,
		},
		{
			"adjacent",
			[]token.Token{tok(token.String, "'ab'", 1, 4), tok(token.String, "'cd'", 1, 9)},
			"abcd",
			"'ab''cd'",
		},
		{
			"mixed quotes",
			[]token.Token{tok(token.String, `"it's"`, 1, 0), tok(token.String, `' "ok"'`, 2, 2)},
			`it's "ok"`,
			`"it's"' "ok"'`,
		},
		{
			"escape split across tokens",
			[]token.Token{tok(token.String, `'\'`, 1, 0), tok(token.String, `'t'`, 1, 4)},
			"\t",
			`'\''t'`,
		},
		{"empty", []token.Token{tok(token.String, `""`, 1, 0)}, "", `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewBuilder().String(tt.toks...)

			if n.Value != tt.value {
				t.Errorf("Value = %q, want %q", n.Value, tt.value)
			}

			if n.Token.Text != tt.text {
				t.Errorf("Token.Text = %q, want %q", n.Token.Text, tt.text)
			}

			first, last := tt.toks[0], tt.toks[len(tt.toks)-1]
			if n.Token.Start != first.Start || n.Token.End != last.End || n.Token.Line != first.Line {
				t.Errorf("Token span = %v..%v, want %v..%v", n.Token.Start, n.Token.End, first.Start, last.End)
			}
		})
	}
}

func TestBuilder_Call(t *testing.T) {
	b := NewBuilder()

	callee := b.Identifier(tok(token.Name, "f", 1, 0))
	x := b.Identifier(tok(token.Name, "x", 1, 2))
	y := b.Number(tok(token.Number, "1", 1, 9))
	z := b.Bool(tok(token.Name, "true", 1, 12))
	w := b.Identifier(tok(token.Name, "w", 1, 21))
	k1 := tok(token.Name, "k", 1, 5)
	k2 := tok(token.Name, "j", 1, 19)

	call := b.Call(callee, tok(token.Op, "(", 1, 1), []Argument{
		{Value: x},
		{Name: &k1, Value: y},
		{Value: z},
		{Name: &k2, Value: w},
	})

	if !slices.Equal(call.Args, []Node{x, z}) {
		t.Errorf("Args = %v, want [x true]", call.Args)
	}

	want := []Kwarg{
		{Name: "k", Token: k1, Value: y},
		{Name: "j", Token: k2, Value: w},
	}
	if !slices.Equal(call.Kwargs, want) {
		t.Errorf("Kwargs = %+v, want %+v", call.Kwargs, want)
	}

	if call.Token.Text != "(" || call.Callee != callee {
		t.Errorf("call site = %q callee = %v", call.Token.Text, call.Callee)
	}
}

func TestBuilder_Call_Empty(t *testing.T) {
	b := NewBuilder()
	call := b.Call(b.Identifier(tok(token.Name, "f", 1, 0)), tok(token.Op, "(", 1, 1), nil)

	if call.Args == nil || call.Kwargs == nil || len(call.Args)+len(call.Kwargs) != 0 {
		t.Errorf("expected empty non-nil partitions, got %v %v", call.Args, call.Kwargs)
	}
}

func TestBuilder_RegistryOrder(t *testing.T) {
	b := NewBuilder()

	// Top-down construction registers the outer block first.
	outer := b.Block(Name{Value: "B1", Token: tok(token.Name, "B1", 1, 0)}, nil, nil)
	inner := b.Block(Name{Value: "B2", Token: tok(token.Name, "B2", 2, 2)}, nil, nil)
	outer.Blocks = append(outer.Blocks, inner)

	// Bottom-up construction registers the nested alias before its parent.
	alias := b.Alias(Name{Value: "x", Token: tok(token.Name, "x", 4, 2)},
		b.Number(tok(token.Number, "1", 4, 6)))
	parent := b.Block(Name{Value: "B3", Token: tok(token.Name, "B3", 3, 0)}, nil, []Node{alias})

	imp := b.Import(tok(token.String, `"lib.bdl"`, 5, 5), []*ImportMember{
		b.ImportMember(tok(token.Name, "a", 5, 22), nil),
	})

	root := b.Root([]Node{outer, parent, imp})

	if want := []Node{outer, inner, alias, parent}; !slices.Equal(root.Blocks, want) {
		t.Errorf("Blocks = %v, want construction order", root.Blocks)
	}

	if !slices.Equal(root.Imports, []*Import{imp}) {
		t.Errorf("Imports = %v", root.Imports)
	}

	if len(root.Tree) != 3 {
		t.Errorf("Tree has %d nodes, want 3", len(root.Tree))
	}
}

func TestBuilder_Import(t *testing.T) {
	b := NewBuilder()
	as := tok(token.Name, "y", 1, 28)

	imp := b.Import(tok(token.String, `'dir/lib.bdl'`, 1, 5), []*ImportMember{
		b.ImportMember(tok(token.Name, "x", 1, 26), &as),
		b.ImportMember(tok(token.Name, "z", 1, 31), nil),
	})

	if imp.From.Value != "dir/lib.bdl" || imp.From.Token.Text != `'dir/lib.bdl'` {
		t.Errorf("From = %+v", imp.From)
	}

	if a := imp.Members[0].Alias; a == nil || a.Value != "y" || a.Token != as {
		t.Errorf("first member alias = %+v", a)
	}

	if imp.Members[1].Alias != nil {
		t.Errorf("second member alias = %+v, want nil", imp.Members[1].Alias)
	}
}

func TestBuilder_Identifier_Path(t *testing.T) {
	b := NewBuilder()

	id := b.Identifier(
		tok(token.Name, "a", 1, 4),
		tok(token.Op, ".", 1, 5),
		tok(token.Name, "b", 1, 6),
		tok(token.Op, ".", 1, 7),
		tok(token.Number, "0", 1, 8),
	)

	if id.Name != "a.b.0" || id.Token.Start.Col != 4 || id.Token.End.Col != 9 {
		t.Errorf("Identifier = %+v", id)
	}
}

func TestBuilder_LiteralIdentifier(t *testing.T) {
	b := NewBuilder()

	lit := b.LiteralIdentifier(tok(token.Op, "@", 1, 0), tok(token.String, `"with space\t"`, 1, 1))

	if lit.Name != "with space\t" {
		t.Errorf("Name = %q", lit.Name)
	}

	if lit.Token.Text != `@"with space\t"` || lit.Token.Start.Col != 0 {
		t.Errorf("Token = %+v", lit.Token)
	}
}

func TestBuilder_Scalars(t *testing.T) {
	b := NewBuilder()

	num := b.Number(tok(token.Number, "1", 1, 0), tok(token.Op, ".", 1, 1), tok(token.Number, "50", 1, 2))
	if num.Value != "1.50" || num.Token.End.Col != 4 {
		t.Errorf("Number = %+v", num)
	}

	if b.Bool(tok(token.Name, "true", 1, 0)).Value != true || b.Bool(tok(token.Name, "false", 1, 0)).Value {
		t.Error("Bool values wrong")
	}

	list := b.List(tok(token.Op, "[", 1, 0), nil)
	if list.Elements == nil || list.Token.Text != "[" {
		t.Errorf("List = %+v", list)
	}
}

func TestRoot_LookupNames(t *testing.T) {
	b := NewBuilder()
	b.Alias(Name{Value: "a"}, b.Number(tok(token.Number, "1", 1, 0)))
	b.Block(Name{Value: "b"}, nil, nil)
	b.Alias(Name{Value: "a"}, b.Number(tok(token.Number, "2", 3, 0)))

	root := b.Root(nil)

	if got := root.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v", got)
	}

	n, ok := root.Lookup("a")
	if !ok || n.(*BlockAlias).Value.(*NumberLiteral).Value != "1" {
		t.Errorf("Lookup(a) = %v, %v", n, ok)
	}

	if _, ok := root.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}
