package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ardnew/bdl/lang/ast"
)

// Format selects an export encoding.
type Format int

const (
	JSON Format = iota + 1
	YAML
	Msgpack
	Native // bdl source
	Tree   // indented node outline
)

var formatNames = map[Format]string{
	JSON:    "json",
	YAML:    "yaml",
	Msgpack: "msgpack",
	Native:  "native",
	Tree:    "tree",
}

// String returns the name of f.
func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}

	return "unknown"
}

// Formats returns an iterator over the names of all export formats.
func Formats() iter.Seq[string] {
	names := make([]string, 0, len(formatNames))
	for _, s := range formatNames {
		names = append(names, s)
	}

	slices.Sort(names)

	return slices.Values(names)
}

// ParseFormat returns the Format with the given name, ignoring case.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}

	return 0, ErrUnknownFormat.With(slog.String("format", s))
}

// Export writes root to w in the given format. Indent is the number of
// spaces per nesting level for the text formats; 0 selects a compact
// rendering where the format has one.
func Export(
	ctx context.Context,
	w io.Writer,
	root *ast.Root,
	format Format,
	indent int,
) error {
	var err error

	switch format {
	case JSON:
		err = FormatJSON(ctx, w, root, indent)
	case YAML:
		err = FormatYAML(ctx, w, root, indent)
	case Msgpack:
		err = FormatMsgpack(ctx, w, root)
	case Native:
		err = FormatNative(ctx, w, root, indent)
	case Tree:
		err = FormatTree(ctx, w, root, indent)
	default:
		return ErrUnknownFormat.With(slog.String("format", format.String()))
	}

	if err != nil {
		return ErrExport.Wrap(err).With(slog.String("format", format.String()))
	}

	return nil
}

// FormatJSON writes root as JSON.
func FormatJSON(_ context.Context, w io.Writer, root *ast.Root, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(root, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(root)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes root as YAML with the same shape as the JSON export.
func FormatYAML(ctx context.Context, w io.Writer, root *ast.Root, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, root.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatMsgpack writes root as MessagePack with the same shape as the JSON
// export. Map keys are sorted so equal trees encode identically.
func FormatMsgpack(_ context.Context, w io.Writer, root *ast.Root) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)

	return enc.Encode(root.ToMap())
}
