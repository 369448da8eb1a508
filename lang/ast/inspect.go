package ast

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Block:
		return append(optional(n.Value), n.Blocks...)

	case *BlockAlias:
		return optional(n.Value)

	case *Import:
		out := make([]Node, len(n.Members))
		for i, m := range n.Members {
			out[i] = m
		}

		return out

	case *Call:
		out := append(optional(n.Callee), n.Args...)
		for _, kw := range n.Kwargs {
			out = append(out, kw.Value)
		}

		return out

	case *ListLiteral:
		return n.Elements
	}

	return nil
}

// Inspect traverses n depth-first, calling fn with each node and its depth
// below n. Children of a node are skipped when fn returns false.
func Inspect(n Node, fn func(n Node, depth int) bool) {
	inspect(n, 0, fn)
}

func inspect(n Node, depth int, fn func(Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}

	for _, c := range Children(n) {
		inspect(c, depth+1, fn)
	}
}

func optional(n Node) []Node {
	if n == nil {
		return nil
	}

	return []Node{n}
}
