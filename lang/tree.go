package lang

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/ardnew/bdl/lang/ast"
)

// FormatTree writes an indented outline of root, one node per line:
//
//	block server
//	  blockAlias port
//	    numberLiteral 8080
func FormatTree(_ context.Context, w io.Writer, root *ast.Root, indent int) error {
	if indent <= 0 {
		indent = defaultNativeIndent
	}

	var sb strings.Builder

	for _, stmt := range root.Tree {
		ast.Inspect(stmt, func(n ast.Node, depth int) bool {
			sb.WriteString(strings.Repeat(" ", indent*depth))
			sb.WriteString(Describe(n))
			sb.WriteByte('\n')

			return true
		})
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// Describe returns a one-line label for n: its type and its name or value.
func Describe(n ast.Node) string {
	if n == nil {
		return "<nil>"
	}

	var detail string

	switch n := n.(type) {
	case *ast.Block:
		detail = n.Name
	case *ast.BlockAlias:
		detail = n.Name.Value
	case *ast.Import:
		detail = strconv.Quote(n.From.Value)
	case *ast.ImportMember:
		detail = n.Name.Value
		if n.Alias != nil {
			detail += " as " + n.Alias.Value
		}
	case *ast.Identifier:
		detail = n.Name
	case *ast.LiteralIdentifier:
		detail = strconv.Quote(n.Name)
	case *ast.Call:
		detail = strconv.Itoa(len(n.Args)) + " args, " +
			strconv.Itoa(len(n.Kwargs)) + " kwargs"
	case *ast.StringLiteral:
		detail = strconv.Quote(n.Value)
	case *ast.NumberLiteral:
		detail = n.Value
	case *ast.BooleanLiteral:
		detail = strconv.FormatBool(n.Value)
	case *ast.ListLiteral:
		detail = strconv.Itoa(len(n.Elements)) + " elements"
	}

	return string(n.Type()) + " " + detail
}
