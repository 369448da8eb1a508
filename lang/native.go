package lang

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ardnew/bdl/lang/ast"
	"github.com/ardnew/bdl/lang/lexer"
	"github.com/ardnew/bdl/lang/parser"
)

// defaultNativeIndent is used when FormatNative is given no indent.
const defaultNativeIndent = 2

// FormatNative writes root back out as bdl source. Parsing the output yields
// a tree equal to root apart from token positions.
func FormatNative(_ context.Context, w io.Writer, root *ast.Root, indent int) error {
	if indent <= 0 {
		indent = defaultNativeIndent
	}

	var sb strings.Builder

	for _, stmt := range root.Tree {
		writeStatement(&sb, stmt, indent, 0)
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func writeStatement(sb *strings.Builder, n ast.Node, indent, depth int) {
	pad := strings.Repeat(" ", indent*depth)
	sb.WriteString(pad)

	switch n := n.(type) {
	case *ast.Import:
		fmt.Fprintf(sb, "from %s import ", strconv.Quote(n.From.Value))

		for i, m := range n.Members {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(m.Name.Value)

			if m.Alias != nil {
				sb.WriteString(" as " + m.Alias.Value)
			}
		}

	case *ast.BlockAlias:
		sb.WriteString(nameSource(n.Name.Value) + " = " + exprSource(n.Value))

	case *ast.Block:
		sb.WriteString(nameSource(n.Name) + ":")

		if n.Value != nil {
			sb.WriteString(" " + exprSource(n.Value))
		}

		if len(n.Blocks) > 0 {
			sb.WriteString(" {\n")

			for _, c := range n.Blocks {
				writeStatement(sb, c, indent, depth+1)
			}

			sb.WriteString(pad + "}")
		}
	}

	sb.WriteByte('\n')
}

// nameSource spells a block name, falling back to @"..." when the name is
// not a plain identifier.
func nameSource(name string) string {
	if lexer.IsName(name) && !parser.IsReserved(name) {
		return name
	}

	return "@" + strconv.Quote(name)
}

func exprSource(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Identifier:
		return n.Name

	case *ast.LiteralIdentifier:
		return "@" + strconv.Quote(n.Name)

	case *ast.StringLiteral:
		return strconv.Quote(n.Value)

	case *ast.NumberLiteral:
		return n.Value

	case *ast.BooleanLiteral:
		return strconv.FormatBool(n.Value)

	case *ast.ListLiteral:
		elems := make([]string, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = exprSource(e)
		}

		return "[" + strings.Join(elems, ", ") + "]"

	case *ast.Call:
		args := make([]string, 0, len(n.Args)+len(n.Kwargs))
		for _, a := range n.Args {
			args = append(args, exprSource(a))
		}

		for _, kw := range n.Kwargs {
			args = append(args, kw.Name+" = "+exprSource(kw.Value))
		}

		return exprSource(n.Callee) + "(" + strings.Join(args, ", ") + ")"
	}

	return ""
}
