package cmd

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/bdl/lang"
	"github.com/ardnew/bdl/pkg"
)

const commandSource = `limits: {
  burst = 10
  rate = 1.5
}
listen = "0.0.0.0"
`

func TestTokens(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.bdl", "a:\n  b = 1.5\n")

	out, err := run(t, "", "tokens", path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	var texts []string
	for _, line := range lines {
		f := strings.Fields(line)
		texts = append(texts, f[1])
	}

	joined := strings.Join(texts, " ")
	if strings.Contains(joined, "INDENT") || strings.Contains(joined, "DEDENT") {
		t.Errorf("relexed stream has indentation tokens:\n%s", out)
	}

	if !strings.Contains(out, `NUMBER  "1"`) || !strings.Contains(out, `OP      "."`) {
		t.Errorf("numeral not split:\n%s", out)
	}

	raw, err := run(t, "", "tokens", "--raw", path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(raw, "INDENT") || !strings.Contains(raw, `"1.5"`) {
		t.Errorf("raw stream:\n%s", raw)
	}
}

func TestTokens_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.bdl", "x = 1\n")

	out, err := run(t, "", "tokens", "--json", path)
	if err != nil {
		t.Fatal(err)
	}

	first, _, _ := strings.Cut(out, "\n")

	var tok map[string]any
	if err := json.Unmarshal([]byte(first), &tok); err != nil {
		t.Fatal(err)
	}

	if tok["kind"] != "NAME" || tok["string"] != "x" {
		t.Errorf("first token = %v", tok)
	}
}

func TestQuery(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.bdl", commandSource)

	tests := []struct {
		expr string
		want string
	}{
		{`len(blocks)`, "4"},
		{`names`, `["burst","rate","limits","listen"]`},
		{`block("listen").value.value`, `"0.0.0.0"`},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			out, err := run(t, "", "query", "-i", "0", tt.expr, path)
			if err != nil {
				t.Fatal(err)
			}

			var got, want any
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("output %q: %v", out, err)
			}

			_ = json.Unmarshal([]byte(tt.want), &want)

			gotJSON, _ := json.Marshal(got)
			wantJSON, _ := json.Marshal(want)

			if string(gotJSON) != string(wantJSON) {
				t.Errorf("query %q = %s, want %s", tt.expr, gotJSON, wantJSON)
			}
		})
	}

	if _, err := run(t, "", "query", "len(", path); !errors.Is(err, lang.ErrQuery) {
		t.Errorf("bad query error = %v, want ErrQuery", err)
	}
}

func TestFind(t *testing.T) {
	path := writeFile(t, t.TempDir(), "f.bdl", commandSource)

	out, err := run(t, "", "find", "lmt", path)
	if err != nil {
		t.Fatal(err)
	}

	if out != "limits block @ 1:0\n" {
		t.Errorf("find output = %q", out)
	}

	out, err = run(t, "", "find", "-n", "1", "i", path)
	if err != nil {
		t.Fatal(err)
	}

	if n := strings.Count(out, "\n"); n != 1 {
		t.Errorf("find -n 1 printed %d lines:\n%s", n, out)
	}

	if _, err := run(t, "", "find", "zzz", path); !errors.Is(err, lang.ErrBlockNotFound) {
		t.Errorf("find zzz error = %v, want ErrBlockNotFound", err)
	}
}

func TestImports(t *testing.T) {
	dir := t.TempDir()
	lib := t.TempDir()

	writeFile(t, dir, "near.bdl", "x = 1\n")
	far := writeFile(t, lib, "far.bdl", "y = 2\n")
	t.Setenv(pkg.PathVariable, "")

	ok := writeFile(t, dir, "ok.bdl", "from 'near' import x\nfrom 'far' import y\n")

	out, err := run(t, "", "imports", "-I", lib, ok)
	if err != nil {
		t.Fatalf("run() error = %v\n%s", err, out)
	}

	if !strings.Contains(out, filepath.Join(dir, "near.bdl")) || !strings.Contains(out, far) {
		t.Errorf("imports output:\n%s", out)
	}

	bad := writeFile(t, dir, "bad.bdl", "from 'gone' import z\n")

	out, err = run(t, "", "imports", bad)
	if !errors.Is(err, ErrUnresolved) {
		t.Errorf("run() error = %v, want ErrUnresolved", err)
	}

	if !strings.Contains(out, "not found") {
		t.Errorf("imports output:\n%s", out)
	}
}

func TestImports_Library(t *testing.T) {
	dir := t.TempDir()
	lib := t.TempDir()
	inc := t.TempDir()

	shared := writeFile(t, lib, "shared.bdl", "s = 1\n")
	override := writeFile(t, inc, "shared.bdl", "s = 2\n")
	t.Setenv(pkg.PathVariable, "")

	src := writeFile(t, dir, "main.bdl", "from 'shared' import s\n")

	out, err := run(t, "", "imports", "--library", lib, src)
	if err != nil || !strings.Contains(out, shared) {
		t.Errorf("run() = %q, %v; want %s", out, err, shared)
	}

	// Include directories are searched before the library.
	out, err = run(t, "", "imports", "--library", lib, "-I", inc, src)
	if err != nil || !strings.Contains(out, override) {
		t.Errorf("run() = %q, %v; want %s", out, err, override)
	}
}
