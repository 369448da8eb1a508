package profile

// Stopper ends a profiling session started by [Config.Start].
type Stopper interface{ Stop() }

// Config functions return all supported pprof configuration parameters.
type Config func() (mode, path string, quiet bool)

// Option transforms a [Config].
type Option func(Config) Config

// Make returns a Config with every option applied to the empty configuration.
func Make(opts ...Option) Config {
	var c Config = func() (string, string, bool) { return "", "", false }

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// Start initializes the profiler and returns a [Stopper] for ending it.
//
// If the pprof build tag or the mode is unset, or the mode is not one of
// [Modes], Start returns a no-op implementation.
// Both Start and Stop are always safely callable.
func (c Config) Start() Stopper {
	if c == nil {
		return ignore{}
	}

	mode, path, quiet := c()

	if mode == "" {
		return ignore{}
	}

	return start(mode, path, quiet)
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) Option {
	return func(c Config) Config {
		_, path, quiet := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) Option {
	return func(c Config) Config {
		mode, _, quiet := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// WithQuiet returns a functional option for setting a profiler's quiet flag.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		mode, path, _ := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

type ignore struct{}

func (ignore) Stop() {}
