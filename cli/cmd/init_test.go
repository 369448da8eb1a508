package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bdl/lang"
	"github.com/ardnew/bdl/lang/ast"
)

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		existed bool
		wantErr error
	}{
		{name: "create_new_config", args: []string{"init"}},
		{name: "overwrite_existing_with_force", args: []string{"init", "--force"}, existed: true},
		{name: "fail_without_force", args: []string{"init"}, existed: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.bdl")

			if tt.existed {
				if err := os.WriteFile(confPath, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			_, err := run(t, confPath, tt.args...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			root, err := lang.ParseFile(context.Background(), confPath)
			if err != nil {
				t.Fatalf("generated config does not parse: %v", err)
			}

			if len(root.Tree) != 1 {
				t.Fatalf("generated config has %d statements", len(root.Tree))
			}

			if name, _ := ast.BlockName(root.Tree[0]); name != ConfigBlock {
				t.Errorf("top-level block = %q, want %q", name, ConfigBlock)
			}
		})
	}
}

func TestInitWithInvalidPath(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "missing", "config.bdl")

	if _, err := run(t, confPath, "init"); !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want ErrWriteConfig", err)
	}
}

func TestConfigRoot(t *testing.T) {
	var cli struct {
		Verbose  bool     `name:"verbose"`
		Output   string   `name:"output"`
		Empty    string   `name:"empty"`
		Count    int      `name:"count"`
		Ratio    float64  `name:"ratio"`
		LogLevel string   `name:"log-level"`
		Tags     []string `name:"tags"`
		Secret   string   `hidden:""      name:"secret"`
	}

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse([]string{
		"--verbose", "--output", "out \"q\".txt", "--count", "3", "--ratio", "0.25",
		"--log-level", "debug", "--tags", "a,b", "--secret", "x",
	})
	if err != nil {
		t.Fatal(err)
	}

	root := configRoot(ktx)

	config, ok := root.Tree[0].(*ast.Block)
	if !ok || config.Name != ConfigBlock {
		t.Fatalf("root.Tree[0] = %#v", root.Tree[0])
	}

	got := map[string]ast.Node{}
	for _, n := range config.Blocks {
		alias := n.(*ast.BlockAlias)
		got[alias.Name.Value] = alias.Value
	}

	for _, name := range []string{"help", "empty", "secret", "log-level"} {
		if _, ok := got[name]; ok {
			t.Errorf("unexpected entry %q", name)
		}
	}

	if v, ok := got["verbose"].(*ast.BooleanLiteral); !ok || !v.Value {
		t.Errorf("verbose = %#v", got["verbose"])
	}

	if v, ok := got["output"].(*ast.StringLiteral); !ok || v.Value != `out "q".txt` {
		t.Errorf("output = %#v", got["output"])
	}

	if v, ok := got["count"].(*ast.NumberLiteral); !ok || v.Value != "3" {
		t.Errorf("count = %#v", got["count"])
	}

	if v, ok := got["ratio"].(*ast.NumberLiteral); !ok || v.Value != "0.25" {
		t.Errorf("ratio = %#v", got["ratio"])
	}

	if v, ok := got["log_level"].(*ast.StringLiteral); !ok || v.Value != "debug" {
		t.Errorf("log_level = %#v", got["log_level"])
	}

	list, ok := got["tags"].(*ast.ListLiteral)
	if !ok || len(list.Elements) != 2 {
		t.Fatalf("tags = %#v", got["tags"])
	}

	// Every alias plus the config block itself is registered.
	if names := root.Names(); !slices.Contains(names, ConfigBlock) || len(root.Blocks) != len(config.Blocks)+1 {
		t.Errorf("registry = %v", names)
	}
}
