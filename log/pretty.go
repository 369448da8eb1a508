package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles applied by the pretty handler. lipgloss drops the color codes when
// the output is not a terminal.
//
//nolint:gochecknoglobals
var (
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stringStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	msgStyle    = lipgloss.NewStyle().Bold(true)

	levelStyle = map[slog.Level]lipgloss.Style{
		slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	}
)

// prettyHandler renders records as colorized key=value lines, or as an
// indented JSON-like object when multiline is set.
type prettyHandler struct {
	opts      slog.HandlerOptions
	mu        *sync.Mutex
	w         io.Writer
	attrs     []slog.Attr
	groups    []string
	multiline bool
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	multiline bool,
) *prettyHandler {
	return &prettyHandler{
		opts:      *opts,
		mu:        &sync.Mutex{},
		w:         w,
		multiline: multiline,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, r.NumAttrs()+len(h.attrs)+4)

	if !r.Time.IsZero() {
		fields = append(fields, h.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	fields = append(fields, h.replace(slog.Any(slog.LevelKey, r.Level)))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	prefix := h.groupPrefix()

	r.Attrs(func(a slog.Attr) bool {
		a.Key = prefix + a.Key
		fields = append(fields, a)

		return true
	})

	var sb strings.Builder

	if h.multiline {
		sb.WriteString("{\n")
	}

	written := 0

	for _, a := range fields {
		if a.Key == "" {
			continue
		}

		h.writeAttr(&sb, a, r.Level, written == 0)
		written++
	}

	if h.multiline {
		sb.WriteString("\n}")
	}

	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, sb.String())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := h.groupPrefix()
	next := *h
	next.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	for i := len(h.attrs); i < len(next.attrs); i++ {
		next.attrs[i].Key = prefix + next.attrs[i].Key
	}

	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	next := *h
	next.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &next
}

func (h *prettyHandler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}

	return strings.Join(h.groups, ".") + "."
}

// replace applies the configured ReplaceAttr function to a built-in attr.
func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) writeAttr(
	sb *strings.Builder,
	a slog.Attr,
	level slog.Level,
	first bool,
) {
	switch {
	case h.multiline && !first:
		sb.WriteString(",\n  ")
	case h.multiline:
		sb.WriteString("  ")
	case !first:
		sb.WriteByte(' ')
	}

	sb.WriteString(keyStyle.Render(a.Key))

	if h.multiline {
		sb.WriteString(": ")
	} else {
		sb.WriteByte('=')
	}

	switch a.Key {
	case slog.LevelKey:
		sb.WriteString(styleForLevel(level).Render(a.Value.String()))

		return

	case slog.MessageKey:
		sb.WriteString(msgStyle.Render(a.Value.String()))

		return
	}

	sb.WriteString(renderValue(a.Value.Resolve()))
}

func styleForLevel(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return levelStyle[slog.LevelError]
	case level >= slog.LevelWarn:
		return levelStyle[slog.LevelWarn]
	case level >= slog.LevelInfo:
		return levelStyle[slog.LevelInfo]
	default:
		return levelStyle[slog.LevelDebug]
	}
}

func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return stringStyle.Render(v.String())

	case slog.KindInt64:
		return numberStyle.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return numberStyle.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return numberStyle.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return trueStyle.Render("true")
		}

		return falseStyle.Render("false")

	case slog.KindDuration:
		return numberStyle.Render(v.Duration().String())

	case slog.KindTime:
		return timeStyle.Render(v.Time().String())

	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, keyStyle.Render(a.Key)+"="+renderValue(a.Value.Resolve()))
		}

		return "{" + strings.Join(parts, " ") + "}"

	default:
		return stringStyle.Render(v.String())
	}
}
