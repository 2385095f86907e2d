package cohort

// defaultStackSize is the advisory stack-size hint used when a Config or a
// SpawnThread call doesn't specify one. Go goroutines start tiny and grow
// on demand, so this is recorded for diagnostics rather than used to
// preallocate anything.
const defaultStackSize = 1 << 20 // 1MiB, matching common fiber-library defaults

const defaultContinuationPoolSize = 64

// Config holds engine-wide settings for one Execution. There is no
// file/CLI configuration layer here — spec.md places config loading out of
// scope — so Config is built with functional options, the same shape the
// teacher package uses for its Loop options (see eventloop's
// LoopOption/resolveLoopOptions).
type Config struct {
	// StackSize is the default stack-size hint passed to SpawnThread calls
	// that don't request their own.
	StackSize int
	// Logger receives structured diagnostic events from the execution
	// driver; the scheduler itself does not log. Defaults to a no-op
	// logger.
	Logger Logger
	// ContinuationPoolSize bounds how many idle pooled continuation
	// workers are retained between tasks within one Execution.
	ContinuationPoolSize int
	// FailureSink receives persisted counterexamples on deadlock, panic,
	// and scheduler-invariant failures. Defaults to an InMemoryFailureSink.
	FailureSink FailureSink
}

// Option configures a Config.
type Option func(*Config)

// WithLogger installs a structured Logger for engine diagnostics.
func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithStackSize sets the default stack-size hint for spawned tasks.
func WithStackSize(bytes int) Option {
	return func(c *Config) { c.StackSize = bytes }
}

// WithContinuationPoolSize bounds the number of idle pooled continuation
// workers retained between tasks.
func WithContinuationPoolSize(n int) Option {
	return func(c *Config) { c.ContinuationPoolSize = n }
}

// WithFailureSink installs the collaborator that persists counterexamples.
func WithFailureSink(sink FailureSink) Option {
	return func(c *Config) { c.FailureSink = sink }
}

func resolveConfig(opts []Option) *Config {
	cfg := &Config{
		StackSize:            defaultStackSize,
		Logger:               noopLogger{},
		ContinuationPoolSize: defaultContinuationPoolSize,
		FailureSink:          NewInMemoryFailureSink(16),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return cfg
}
