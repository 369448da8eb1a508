package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/bdl/lang"
)

// Fmt parses the sources and writes the syntax tree in the chosen format.
type Fmt struct {
	Native  Native  `cmd:"" default:"withargs" help:"Format as bdl source (default)."`
	JSON    JSON    `cmd:""                    help:"Format as JSON."`
	YAML    YAML    `cmd:""                    help:"Format as YAML."`
	Msgpack Msgpack `cmd:""                    help:"Format as MessagePack."`
	Tree    Tree    `cmd:""                    help:"Format as an outline of the syntax tree."`
}

// Output is the shared input and layout of every format.
type Output struct {
	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`

	Input `embed:""`
}

func (o *Output) export(ctx context.Context, format lang.Format) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	root, err := o.parse(ctx)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", format.String()))
	}

	return lang.Export(ctx, stdout(ctx), root, format, o.Indent)
}

// Native formats input as bdl source.
type Native struct {
	Output `embed:""`
}

// Run executes the native command.
func (n *Native) Run(ctx context.Context) error { return n.export(ctx, lang.Native) }

// JSON formats input as JSON.
type JSON struct {
	Output `embed:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error { return j.export(ctx, lang.JSON) }

// YAML formats input as YAML.
type YAML struct {
	Output `embed:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error { return y.export(ctx, lang.YAML) }

// Msgpack formats input as MessagePack. The indent width is ignored.
type Msgpack struct {
	Output `embed:""`
}

// Run executes the msgpack command.
func (m *Msgpack) Run(ctx context.Context) error { return m.export(ctx, lang.Msgpack) }

// Tree formats input as an indented outline.
type Tree struct {
	Output `embed:""`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) error { return t.export(ctx, lang.Tree) }
