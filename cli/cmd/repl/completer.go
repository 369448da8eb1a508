package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/bdl/lang/ast"
)

// Completion candidates that are not block names.
var (
	ctrlCommands = []string{
		"help", "list", "tree", "json", "source", "edit", "clear", "reset", "quit",
	}
	keywords = []string{"from", "import", "as", "true", "false"}
	queryEnv = []string{"tree", "blocks", "imports", "names", "block"}
)

// queryPrefix starts a query in define mode.
const queryPrefix = "?"

// isWordBoundary reports whether r separates words for completion: spaces,
// the member-access dot, and bdl or expr-lang punctuation.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';', '@', '\'', '"':
		return true
	}

	return false
}

// wordBounds returns the word containing the cursor and its byte offsets in
// input. The word is empty when the cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	for start = cursor; start > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	for end = cursor; end < len(input); {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dotted path that leads up to the word starting at
// wordStart. For "x = server.li" and the word "li" it is "server". It is
// empty for words that are not member accesses.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// childCandidates returns the names that can follow parent. With no parent
// these are the top-level names visible in the given mode; otherwise they
// are the names of the blocks nested in the block that parent names.
func childCandidates(root *ast.Root, parent string, mode inputMode, query bool) []string {
	switch {
	case mode == modeCtrl:
		return ctrlCommands

	case parent == "" && query:
		names := slices.Concat(queryEnv, root.Names())
		for name := range builtin.Index {
			names = append(names, name)
		}

		return names

	case parent == "":
		return slices.Concat(root.Names(), keywords)
	}

	segments := strings.Split(parent, ".")

	node, ok := root.Lookup(segments[0])
	if !ok {
		return nil
	}

	for _, seg := range segments[1:] {
		if node = child(node, seg); node == nil {
			return nil
		}
	}

	return childNames(node)
}

// child returns the block nested in n with the given name.
func child(n ast.Node, name string) ast.Node {
	b, ok := n.(*ast.Block)
	if !ok {
		return nil
	}

	for _, c := range b.Blocks {
		if s, _ := ast.BlockName(c); s == name {
			return c
		}
	}

	return nil
}

func childNames(n ast.Node) []string {
	b, ok := n.(*ast.Block)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(b.Blocks))
	for _, c := range b.Blocks {
		if s, ok := ast.BlockName(c); ok {
			names = append(names, s)
		}
	}

	return names
}

// computeMatches returns the fuzzy matches for the word at the cursor, best
// first, together with the word's byte offsets. An empty word completes only
// after a dot, where every child is offered.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	query := m.mode == modeDefine && strings.HasPrefix(strings.TrimSpace(input), queryPrefix)
	parent := parentPath(input, wordStart)

	candidates := childCandidates(m.session.Root(), parent, m.mode, query)
	if len(candidates) == 0 {
		return nil, wordStart, wordEnd
	}

	if word == "" {
		if parent == "" {
			return nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, cut short with
// an ellipsis to fit width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		last := i == len(matches)-1
		if i > 0 && (used+w > width || !last && used+w+reserve > width) {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
