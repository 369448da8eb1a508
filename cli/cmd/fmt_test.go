package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ardnew/bdl/lang"
)

const fmtSource = `from "net" import dial as d
port = 8080
server: {
  host = "localhost"
  tags = [a, 'b']
}
`

func TestFmt(t *testing.T) {
	path := writeFile(t, t.TempDir(), "site.bdl", fmtSource)

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, out string)
	}{
		{
			name: "default_native",
			args: []string{"fmt", path},
			check: func(t *testing.T, out string) {
				want := "from \"net\" import dial as d\n" +
					"port = 8080\n" +
					"server: {\n" +
					"  host = \"localhost\"\n" +
					"  tags = [a, \"b\"]\n" +
					"}\n"
				if out != want {
					t.Errorf("output = %q, want %q", out, want)
				}
			},
		},
		{
			name: "native_indent",
			args: []string{"fmt", "native", "-i", "4", path},
			check: func(t *testing.T, out string) {
				if !strings.Contains(out, "\n    host = ") {
					t.Errorf("output not indented by 4:\n%s", out)
				}
			},
		},
		{
			name: "json",
			args: []string{"fmt", "json", path},
			check: func(t *testing.T, out string) {
				var doc map[string]any
				if err := json.Unmarshal([]byte(out), &doc); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}

				if n := len(doc["blocks"].([]any)); n != 4 {
					t.Errorf("blocks = %d, want 4", n)
				}
			},
		},
		{
			name: "yaml",
			args: []string{"fmt", "yaml", path},
			check: func(t *testing.T, out string) {
				if !strings.Contains(out, "type: blockAlias") {
					t.Errorf("YAML output missing discriminator:\n%s", out)
				}
			},
		},
		{
			name: "msgpack",
			args: []string{"fmt", "msgpack", path},
			check: func(t *testing.T, out string) {
				var doc map[string]any
				if err := msgpack.NewDecoder(bytes.NewReader([]byte(out))).Decode(&doc); err != nil {
					t.Fatalf("invalid msgpack: %v", err)
				}

				if _, ok := doc["tree"]; !ok {
					t.Errorf("msgpack document = %v", doc)
				}
			},
		},
		{
			name: "tree",
			args: []string{"fmt", "tree", path},
			check: func(t *testing.T, out string) {
				if !strings.HasPrefix(out, "import \"net\"\n") || !strings.Contains(out, "\nblock server\n") {
					t.Errorf("tree output:\n%s", out)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}

			tt.check(t, out)
		})
	}
}

func TestFmt_InvalidSyntax(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed_list", "a = [1, 2\n"},
		{"missing_value", "a =\n"},
		{"bad_dedent", "a:\n    b = 1\n  c = 2\n"},
		{"unclosed_block", "a: {\n  b = 1\n"},
		{"reserved_name", "import = 1\n"},
		{"stray_operator", "a = 1 +\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.bdl", tt.input)

			out, err := run(t, "", "fmt", "json", path)
			if !errors.Is(err, lang.ErrParse) {
				t.Fatalf("run() error = %v, want ErrParse", err)
			}

			if out != "" {
				t.Errorf("partial output written: %q", out)
			}
		})
	}
}

func TestFmt_GlobalSources(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.bdl", "a = 1\n")
	b := writeFile(t, dir, "b.bdl", "b = 2\n")

	out, err := run(t, "", "-s", a, "fmt", "native", b, a)
	if err != nil {
		t.Fatal(err)
	}

	if out != "a = 1\nb = 2\n" {
		t.Errorf("output = %q", out)
	}
}
