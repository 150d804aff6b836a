package grain

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Option is a configuration option for dataset builders. Options are
// passed to NewBuilder and New.
//
// Example:
//
//	builder := grain.NewBuilder(gen,
//	    grain.WithDataDir("/data/grain"),
//	    grain.WithWorkers(4),
//	)
type Option interface {
	apply(*options)
}

type options struct {
	dataDir string
	logger  zerolog.Logger
	workers int
}

func newOptions(opts ...Option) *options {
	o := &options{
		dataDir: DefaultDataDir(),
		logger:  zerolog.Nop(),
		workers: 2,
	}
	for _, opt := range opts {
		opt.apply(o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) {
	f(o)
}

// WithDataDir overrides the root directory datasets are built into and
// read from. The default is DefaultDataDir.
func WithDataDir(dir string) Option {
	return optionFunc(func(o *options) {
		o.dataDir = dir
	})
}

// WithLogger attaches a logger to build progress. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = logger
	})
}

// WithWorkers bounds how many split generators run concurrently during
// Prepare. The default is 2.
func WithWorkers(n int) Option {
	return optionFunc(func(o *options) {
		o.workers = n
	})
}

// DefaultDataDir returns $GRAIN_DATA_DIR when set, otherwise a "grain"
// directory under the user cache dir.
func DefaultDataDir() string {
	if dir := os.Getenv("GRAIN_DATA_DIR"); dir != "" {
		return dir
	}
	if cache, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cache, "grain")
	}
	return filepath.Join(os.TempDir(), "grain")
}
