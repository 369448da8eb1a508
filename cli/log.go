package cli

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/ardnew/bdl/log"
)

// logLevel and logFormat apply themselves to the default logger when kong
// decodes them, so diagnostics emitted while the remaining flags are parsed
// already honor them.
type (
	logLevel  string
	logFormat string
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logConfig holds the flags of the "log" group. Logs go to stderr, so
// pretty output defaults on only when stderr is a terminal.
type logConfig struct {
	Level      logLevel  `default:"warn"         enum:"trace,debug,info,warn,error" help:"Set log level."`
	Format     logFormat `default:"text"         enum:"json,text"                   help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                         help:"Set timestamp format."`
	Caller     bool      `default:"false"                                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"${logPretty}"                                    help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logPretty": strconv.FormatBool(term.IsTerminal(int(os.Stderr.Fd()))),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed logging flag, including those that have no
// decode hook.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized", slog.Any("log", f))
}

// LogValue implements slog.LogValuer.
func (f *logConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies the logging flags in args before kong parses them, so the
// logger is configured however early the flags appear. Scanning stops at
// "--". Malformed values are left for kong to report.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, value, assigned := strings.Cut(args[i], "=")

		negated := false
		if rest, ok := strings.CutPrefix(name, "--no-log-"); ok {
			name, negated = rest, true
		} else if rest, ok := strings.CutPrefix(name, "--log-"); ok {
			name = rest
		} else {
			continue
		}

		switch name {
		case "level", "format":
			if negated {
				continue
			}

			if !assigned {
				if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
					continue
				}

				i++
				value = args[i]
			}

			if name == "level" {
				_ = f.Level.UnmarshalText([]byte(value))
			} else {
				_ = f.Format.UnmarshalText([]byte(value))
			}

		case "pretty", "caller":
			on := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				on = v
			}

			f.setSwitch(name, on != negated)
		}
	}
}

func (f *logConfig) setSwitch(name string, on bool) {
	switch name {
	case "pretty":
		f.Pretty = on
		log.Config(log.WithPretty(on))

	case "caller":
		f.Caller = on
		log.Config(log.WithCaller(on))
	}
}
