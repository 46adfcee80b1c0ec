// Package options provides data structures and functions for configuring
// a George instance. It defines the parameters that control where data is
// stored, how large the write pool may grow, and an optional clock,
// following the functional-options pattern used throughout the rest of
// the engine.
package options

import (
	"strings"
	"time"
)

// Clock abstracts the source of wall-clock time so tests can inject a
// deterministic one instead of time.Now.
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock, backed by the standard library.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options defines the configuration parameters for a George instance.
// It controls where on disk Masters/Databases/Views/Indexes are rooted,
// how much write concurrency the seed coordinator's pool may use, and
// carries a Clock.
type Options struct {
	// DataDir specifies the base path under which every Master directory
	// is created.
	//
	// Default: "/var/lib/georgedb", overridable via GEORGE_DATA_DIR.
	DataDir string `json:"dataDir"`

	// PoolSize bounds how many concurrent index writes a single seed
	// coordinator may have in flight at once.
	//
	//  - Default: 64
	//  - Maximum: 1000
	PoolSize int `json:"poolSize"`

	// Clock is a time source, defaulting to the system clock. No component
	// reads it: description timestamps and log fields use time.Now.
	Clock Clock `json:"-"`
}

// OptionFunc is a function type that modifies a George instance's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies a predefined set of default configuration
// values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.PoolSize = opts.PoolSize
		o.Clock = opts.Clock
	}
}

// WithDataDir sets the primary data directory for George.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithPoolSize sets the maximum number of concurrent index writes a seed
// coordinator's pool may run at once. Values outside (0, MaxPoolSize] are
// ignored and the existing setting is kept.
func WithPoolSize(size int) OptionFunc {
	return func(o *Options) {
		if size > 0 && size <= MaxPoolSize {
			o.PoolSize = size
		}
	}
}

// WithClock sets Options.Clock. A nil clock is ignored.
func WithClock(clock Clock) OptionFunc {
	return func(o *Options) {
		if clock != nil {
			o.Clock = clock
		}
	}
}
