package options

import "os"

const (
	// DefaultDataDir specifies the default base directory where George
	// will store its Master directories. If GEORGE_DATA_DIR is unset and
	// no other directory is specified during initialization, this path
	// will be used.
	DefaultDataDir = "/var/lib/georgedb"

	// DataDirEnvVar is the environment variable consulted for the data
	// directory before DefaultDataDir is used.
	DataDirEnvVar = "GEORGE_DATA_DIR"

	// DefaultPoolSize is the default number of concurrent index writes a
	// seed coordinator's pool may run at once.
	DefaultPoolSize = 64

	// MaxPoolSize is the hard ceiling on pool size, mirroring the capped
	// worker pool of the original engine.
	MaxPoolSize = 1000
)

// NewDefaultOptions returns the default configuration settings for a
// George instance, honoring GEORGE_DATA_DIR when it's set.
func NewDefaultOptions() Options {
	dataDir := DefaultDataDir
	if v := os.Getenv(DataDirEnvVar); v != "" {
		dataDir = v
	}

	return Options{
		DataDir:  dataDir,
		PoolSize: DefaultPoolSize,
		Clock:    systemClock{},
	}
}
