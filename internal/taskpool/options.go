package taskpool

import (
	"runtime"

	"github.com/charmbracelet/log"
)

// Config holds the pool configuration.
type Config struct {
	// Workers is the number of worker goroutines.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// PanicHandler is called with every *PanicError recovered from a task.
	PanicHandler func(*PanicError)

	// Logger receives recovered panics. Nil disables logging.
	Logger *log.Logger
}

// DefaultConfig returns a Config sized to the machine.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
	}
}

func (c *Config) validate() error {
	if c.Workers < 0 {
		return errInvalidConfig("Workers must be >= 0")
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

// Option configures a Pool.
type Option func(*Config)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithPanicHandler installs a callback for recovered task panics.
func WithPanicHandler(fn func(*PanicError)) Option {
	return func(c *Config) {
		c.PanicHandler = fn
	}
}

// WithLogger sets the logger used for recovered panics.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}
