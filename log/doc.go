// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// Every level has a context-aware and a context-unaware method. The
// context-unaware variants use [DefaultContextProvider]. In addition to the
// slog levels, [LevelTrace] is available for fine-grained tracing of the
// re-lexer and AST builder.
//
// The zero [Logger] discards everything, which lets library code accept a
// logger through options without forcing callers to configure one.
//
// The package-level functions ([Info], [DebugContext], ...) write through a
// default logger that [Config] reconfigures; the CLI uses it for command
// diagnostics.
//
// With [WithPretty], records are styled for a terminal using lipgloss, either
// as key=value lines ([FormatText]) or as indented objects ([FormatJSON]).
package log
