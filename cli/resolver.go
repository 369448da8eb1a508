package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"

	"github.com/ardnew/bdl/lang"
	"github.com/ardnew/bdl/lang/ast"
	"github.com/ardnew/bdl/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written in bdl.
//
// The top-level block with the given name holds one definition per flag:
//
//	config: {
//	  log_level = "debug"
//	  log_format = "json"
//	  source = ["base.bdl", "site.bdl"]
//	}
//
// Flag names may be spelled with underscores in place of hyphens. Strings,
// numbers, booleans, bare names and lists are converted to flag values;
// other values are ignored. Command-line flags override config file values.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		ctx := context.Background()

		root, err := lang.ParseReader(ctx, r, lang.WithLogger(log.Default()))
		if err != nil {
			// A broken config file must not prevent running the CLI.
			log.WarnContext(ctx, "ignoring configuration file", slog.Any("error", err))

			return config{}, nil
		}

		block := topLevelBlock(root, name)
		if block == nil {
			return config{}, nil
		}

		cfg := make(config, len(block.Blocks))

		for _, entry := range block.Blocks {
			alias, ok := entry.(*ast.BlockAlias)
			if !ok {
				continue
			}

			if v := nodeValue(alias.Value); v != nil {
				cfg[alias.Name.Value] = v
			}
		}

		return cfg, nil
	}
}

func topLevelBlock(root *ast.Root, name string) *ast.Block {
	for _, n := range root.Tree {
		if b, ok := n.(*ast.Block); ok && b.Name == name {
			return b
		}
	}

	return nil
}

// nodeValue converts a literal to the value kong expects from a resolver.
// Numbers stay in their source spelling for kong to parse.
func nodeValue(n ast.Node) any {
	switch n := n.(type) {
	case *ast.StringLiteral:
		return n.Value

	case *ast.NumberLiteral:
		return n.Value

	case *ast.BooleanLiteral:
		return n.Value

	case *ast.Identifier:
		return n.Name

	case *ast.LiteralIdentifier:
		return n.Name

	case *ast.ListLiteral:
		elems := make([]any, 0, len(n.Elements))
		for _, e := range n.Elements {
			if v := nodeValue(e); v != nil {
				elems = append(elems, v)
			}
		}

		return elems
	}

	return nil
}

// resolveTOML is a [kong.ConfigurationLoader] for TOML configuration files.
// Values are read from the [config] table when present, otherwise from the
// top level.
func resolveTOML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	if table, ok := doc[baseConfig].(map[string]any); ok {
		doc = table
	}

	cfg := make(config, len(doc))

	for key, v := range doc {
		switch v := v.(type) {
		case map[string]any:
			continue

		case int64:
			cfg[key] = strconv.FormatInt(v, 10)

		case float64:
			cfg[key] = strconv.FormatFloat(v, 'f', -1, 64)

		default:
			cfg[key] = v
		}
	}

	return cfg, nil
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Names in config files may use underscores for hyphens.
	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
