package lang

import (
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/bdl/lang/ast"
)

// Match is a block whose name matched a [Find] pattern.
type Match struct {
	Name    string
	Node    ast.Node
	Score   int
	Matched []int // byte offsets of the matched characters in Name
}

// Find returns the registered blocks whose names fuzzy-match pattern, best
// match first. An empty pattern matches every block in registration order.
func Find(root *ast.Root, pattern string) []Match {
	names := root.Names()

	var matches fuzzy.Matches
	if pattern == "" {
		matches = make(fuzzy.Matches, len(names))
		for i, s := range names {
			matches[i] = fuzzy.Match{Str: s, Index: i}
		}
	} else {
		matches = fuzzy.Find(pattern, names)
	}

	out := make([]Match, 0, len(matches))

	for _, m := range matches {
		n, _ := root.Lookup(m.Str)
		out = append(out, Match{
			Name:    m.Str,
			Node:    n,
			Score:   m.Score,
			Matched: m.MatchedIndexes,
		})
	}

	return out
}
