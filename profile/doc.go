// Package profile provides optional runtime profiling for the bdl command.
//
// Profiling is backed by [github.com/pkg/profile] and is compiled in only
// with the "pprof" build tag. Without the tag every [Config] starts a no-op
// profiler and [Modes] reports no modes.
//
//	cfg := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath(dir),
//		profile.WithQuiet(true))
//	defer cfg.Start().Stop()
//
// Profiles are written to the configured directory with names matching the
// mode (cpu.pprof, mem.pprof, ...) and are read with go tool pprof:
//
//	go tool pprof -http=: ~/.cache/bdl/pprof/cpu.pprof
//
// Builds with the tag also import [net/http/pprof], so a host program that
// serves [net/http.DefaultServeMux] exposes /debug/pprof/ as well.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
