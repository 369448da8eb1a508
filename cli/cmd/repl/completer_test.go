package repl

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/bdl/log"
)

const completionSource = `server: {
  limits: {
    burst = 10
    rate = 5
  }
  listen = "0.0.0.0"
}
release = @"v1-rc"
`

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_equals", "x = fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_kwarg", "f(k=fo", 6, "fo", 4, 6},
		{"in_list", "[a, fo", 6, "fo", 4, 6},
		{"after_query", "?fo", 3, "fo", 1, 3},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"hyphen_splits", "log-pretty", 10, "pretty", 4, 10},
		{"unicode", "x = héllo", 10, "héllo", 4, 10},
		{"empty_after_dot", "config.", 7, "", 7, 7},
		{"cursor_past_end", "foo", 9, "foo", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_equals", "x = a.b.", 8, "a.b"},
		{"partial_word", "x = a.b.c", 8, "a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestChildCandidates(t *testing.T) {
	s := mustSession(t, completionSource)

	tests := []struct {
		name     string
		parent   string
		mode     inputMode
		query    bool
		want     []string
		contains []string
	}{
		{name: "ctrl", mode: modeCtrl, want: ctrlCommands},
		{
			name: "top_level",
			want: []string{"burst", "rate", "limits", "listen", "server", "release",
				"from", "import", "as", "true", "false"},
		},
		{name: "nested", parent: "server", want: []string{"limits", "listen"}},
		{name: "deep", parent: "server.limits", want: []string{"burst", "rate"}},
		{name: "alias_has_no_children", parent: "release"},
		{name: "unknown", parent: "nope"},
		{name: "unknown_child", parent: "server.nope"},
		{name: "query", query: true, contains: []string{"blocks", "names", "server", "len", "filter"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := childCandidates(s.Root(), tt.parent, tt.mode, tt.query)

			if tt.contains != nil {
				for _, c := range tt.contains {
					if !slices.Contains(got, c) {
						t.Errorf("childCandidates() missing %q", c)
					}
				}

				return
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("childCandidates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  []string
	}{
		{"empty", modeDefine, "", nil},
		{"fuzzy", modeDefine, "x = lmt", []string{"limits"}},
		{"after_dot", modeDefine, "x = server.", []string{"limits", "listen"}},
		{"after_dot_prefix", modeDefine, "x = server.liste", []string{"listen"}},
		{"ctrl", modeCtrl, "tr", []string{"tree"}},
		{"nothing", modeDefine, "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t, completionSource)
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, end := m.computeMatches()

			got := make([]string, 0, len(matches))
			for _, match := range matches {
				got = append(got, match.Str)
			}

			if len(got) == 0 && len(tt.want) == 0 {
				return
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("computeMatches() = %v, want %v", got, tt.want)
			}

			if end != len(tt.input) {
				t.Errorf("wordEnd = %d, want %d", end, len(tt.input))
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Matches{
		{Str: "limits", MatchedIndexes: []int{0}},
		{Str: "listen", MatchedIndexes: []int{0}},
		{Str: "release", MatchedIndexes: []int{0}},
	}

	if got := renderCandidateBar(nil, 0, false, 80); got != "" {
		t.Errorf("renderCandidateBar(nil) = %q", got)
	}

	if got := renderCandidateBar(matches, 0, false, 0); got != "" {
		t.Errorf("renderCandidateBar(width 0) = %q", got)
	}

	wide := renderCandidateBar(matches, 1, true, 80)
	narrow := renderCandidateBar(matches, 1, true, 12)

	if len(narrow) >= len(wide) {
		t.Errorf("narrow bar is not shorter: %q vs %q", narrow, wide)
	}
}

func mustSession(t *testing.T, source string) *Session {
	t.Helper()

	s, err := NewSession(context.Background(), source, log.Make(nil))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	return s
}

func testModel(t *testing.T, source string) model {
	t.Helper()

	return newModel(
		context.Background(),
		mustSession(t, source),
		NewHistory(filepath.Join(t.TempDir(), baseHistory)),
		log.Make(nil),
	)
}
