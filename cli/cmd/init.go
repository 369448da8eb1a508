package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bdl/lang"
	"github.com/ardnew/bdl/lang/ast"
	"github.com/ardnew/bdl/lang/token"
	"github.com/ardnew/bdl/log"
	"github.com/ardnew/bdl/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	root := configRoot(ktx)

	err = lang.FormatNative(ctx, file, root, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.Int("entries", len(root.Blocks)-1),
	)

	return nil
}

// configRoot builds a tree holding one block named [ConfigBlock] whose
// nested aliases carry the current value of every visible flag. Flag names
// are spelled with underscores.
func configRoot(ktx *kong.Context) *ast.Root {
	b := ast.NewBuilder(ast.WithLogger(log.Default()))

	var entries []ast.Node

	prefixIgnore := []string{"help", "source", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		value := flagValue(b, ktx.FlagValue(flag))
		if value == nil {
			continue
		}

		name := strings.ReplaceAll(flag.Name, "-", "_")
		entries = append(entries, b.Alias(ast.Name{Value: name, Token: synthetic(token.Name, name)}, value))
	}

	config := b.Block(ast.Name{Value: ConfigBlock, Token: synthetic(token.Name, ConfigBlock)}, nil, entries)

	return b.Root([]ast.Node{config})
}

// flagValue returns the literal spelling v, or nil if v is unset.
func flagValue(b *ast.Builder, v any) ast.Node {
	switch v := v.(type) {
	case nil:
		return nil

	case bool:
		return b.Bool(synthetic(token.Name, strconv.FormatBool(v)))

	case string:
		if v == "" {
			return nil
		}

		return b.String(synthetic(token.String, strconv.Quote(v)))

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return b.Number(synthetic(token.Number, fmt.Sprint(v)))

	case []string:
		return listValue(b, v)

	case []int:
		return listValue(b, v)

	case []float64:
		return listValue(b, v)

	case []bool:
		return listValue(b, v)

	default:
		return b.String(synthetic(token.String, strconv.Quote(fmt.Sprint(v))))
	}
}

func listValue[T any](b *ast.Builder, v []T) ast.Node {
	if len(v) == 0 {
		return nil
	}

	elems := make([]ast.Node, 0, len(v))
	for _, e := range v {
		if n := flagValue(b, e); n != nil {
			elems = append(elems, n)
		}
	}

	return b.List(synthetic(token.Op, "["), elems)
}

// synthetic returns a token that was not read from any source.
func synthetic(kind token.Kind, text string) token.Token {
	return token.Token{Kind: kind, Text: text}
}
