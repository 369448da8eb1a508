// Package cli contains the command line interface for bdl.
//
// # Usage
//
//	bdl [flags] <command> [args]
//
// Commands read bdl source from positional arguments, from the global
// --source flag, or from stdin:
//
//	bdl fmt json site.bdl            # export the syntax tree as JSON
//	bdl fmt tree < site.bdl          # print an outline
//	bdl tokens --raw site.bdl        # print the lexer stream
//	bdl query 'len(blocks)' site.bdl # evaluate an expr-lang expression
//	bdl find srvlst site.bdl         # fuzzy-find block names
//	bdl imports -I ./lib site.bdl    # resolve import paths
//	bdl -s site.bdl repl             # interactive session
//
// # Configuration
//
// Flag defaults are read from the first of these files found in the user
// configuration directory (for example ~/.config/bdl):
//
//   - config.json, decoded with [kong.JSON]
//   - config.toml, keys at the top level or under a [config] table
//   - config.bdl, definitions nested in a top-level config block
//
// The init command writes config.bdl from the current flag values:
//
//	config: {
//	  log_level = "debug"
//	  log_format = "text"
//	  log_pretty = true
//	}
//
// Underscores in configuration keys stand for hyphens in flag names.
// Command-line flags override configuration values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize output (default when stderr is a terminal)
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o bdl .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/bdl/pprof)
package cli
