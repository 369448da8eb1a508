package lang

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/ardnew/bdl/lang/ast"
)

const sample = `from "net" import addr, port as p

server: {
  host = addr
  port = p
  tags = ['a', 'b']
  limits: 1.5 {
    burst = max(10, scale = 2)
  }
}

release = @"v1-rc"
`

func mustParse(t *testing.T, src string) *ast.Root {
	t.Helper()

	root, err := ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	return root
}

func TestParseString_Registries(t *testing.T) {
	root := mustParse(t, sample)

	if len(root.Tree) != 3 {
		t.Errorf("Tree has %d statements, want 3", len(root.Tree))
	}

	want := "host,port,tags,burst,limits,server,release"
	if got := strings.Join(root.Names(), ","); got != want {
		t.Errorf("Names() = %s, want %s", got, want)
	}

	if len(root.Imports) != 1 || len(root.Imports[0].Members) != 2 {
		t.Errorf("Imports = %+v", root.Imports)
	}
}

func TestParseString_SyntaxError(t *testing.T) {
	_, err := ParseString(context.Background(), "x = [1,\n", WithoutCache())

	if !errors.Is(err, ErrParse) {
		t.Fatalf("error = %v, want ErrParse", err)
	}

	se, ok := SyntaxError(err)
	if !ok {
		t.Fatalf("SyntaxError(%v) not found", err)
	}

	if !strings.HasPrefix(se.Error(), "SyntaxError: ") {
		t.Errorf("Error() = %q", se.Error())
	}

	if errors.Is(err, ErrQuery) {
		t.Error("parse error matches ErrQuery")
	}
}

func TestParseString_Cache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	ctx := context.Background()

	a, err := ParseString(ctx, sample)
	if err != nil {
		t.Fatal(err)
	}

	b, err := ParseString(ctx, sample)
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("identical source and options were parsed twice")
	}

	c, err := ParseString(ctx, sample, WithMaxDepth(50))
	if err != nil {
		t.Fatal(err)
	}

	if c == a {
		t.Error("different options shared a cache entry")
	}

	d, err := ParseString(ctx, sample, WithoutCache())
	if err != nil {
		t.Fatal(err)
	}

	if d == a {
		t.Error("WithoutCache returned the cached root")
	}

	ClearCache()

	e, err := ParseString(ctx, sample)
	if err != nil {
		t.Fatal(err)
	}

	if e == a {
		t.Error("ClearCache kept the cached root")
	}
}

func cacheLen() int {
	n := 0

	globalCache.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

func TestParseString_WithoutCacheStoresNothing(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	// A REPL session reparses every growing prefix of its source.
	src := ""
	for _, line := range []string{"a = 1", "b = 2", "c: { d = 3 }"} {
		src += line + "\n"

		if _, err := ParseString(context.Background(), src, WithoutCache()); err != nil {
			t.Fatal(err)
		}
	}

	if n := cacheLen(); n != 0 {
		t.Errorf("cache holds %d entries, want 0", n)
	}
}

func TestParseString_Canceled(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root, err := ParseString(ctx, sample)
	if root != nil || !errors.Is(err, ErrParse) || !errors.Is(err, context.Canceled) {
		t.Fatalf("ParseString() = %v, %v; want canceled parse error", root, err)
	}

	if n := cacheLen(); n != 0 {
		t.Errorf("canceled parse left %d cache entries", n)
	}

	if _, err := ParseString(context.Background(), sample); err != nil {
		t.Errorf("ParseString() after cancellation error = %v", err)
	}
}

func TestParseString_CachedError(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	for range 2 {
		if _, err := ParseString(context.Background(), "x = $\n"); !errors.Is(err, ErrParse) {
			t.Fatalf("error = %v, want ErrParse", err)
		}
	}
}

func TestParseString_MaxDepth(t *testing.T) {
	src := "x = [[[[1]]]]\n"

	if _, err := ParseString(context.Background(), src, WithMaxDepth(2)); !errors.Is(err, ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

func TestParseReader(t *testing.T) {
	root, err := ParseReader(context.Background(), strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}

	if len(root.Blocks) != 7 {
		t.Errorf("Blocks = %d, want 7", len(root.Blocks))
	}
}

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(context.Background(), iotest.ErrReader(errors.New("boom")))

	if !errors.Is(err, ErrReadInput) {
		t.Errorf("error = %v, want ErrReadInput", err)
	}
}

func TestParseFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "a.bdl")
	if err := os.WriteFile(name, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := ParseFile(context.Background(), name); err != nil {
		t.Errorf("ParseFile() error = %v", err)
	}

	_, err := ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.bdl"))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("missing file error = %v, want ErrReadInput", err)
	}
}

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message", NewError("m"), "m"},
		{"wrapped", NewError("m").Wrap(errors.New("cause")), "m: cause"},
		{"cause only", WrapError(errors.New("cause")), "cause"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_With(t *testing.T) {
	base := ErrBlockNotFound
	e := base.With()

	if len(base.Attrs()) != 0 {
		t.Error("With modified the receiver")
	}

	if !errors.Is(e, ErrBlockNotFound) {
		t.Error("derived error does not match its sentinel")
	}

	if got := e.LogValue().Group(); len(got) != 1 || got[0].Value.String() != "block not found" {
		t.Errorf("LogValue() = %v", got)
	}
}
