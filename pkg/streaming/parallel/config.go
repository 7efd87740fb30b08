package parallel

import (
	"runtime"

	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/logger"
	"github.com/vnykmshr/lazyflow/pkg/metrics"
	"github.com/vnykmshr/lazyflow/pkg/workerpool"
)

// chunksPerWorker is the number of chunks planned per worker when
// Config.ChunkSize is zero.
const chunksPerWorker = 4

// Config holds configuration options for parallel pipelines.
type Config struct {
	// Workers is the number of chunks evaluated at the same time.
	// Default: GOMAXPROCS
	Workers int

	// ChunkSize is the number of source elements per chunk.
	// Zero derives it from the source size and Workers.
	ChunkSize int

	// Pool runs the chunks. When nil each terminal creates a pool of
	// Workers workers and shuts it down before returning.
	Pool workerpool.Pool

	// Name labels the pipeline in metrics and logs.
	Name string

	// Logger receives chunk scheduling at debug level and chunk panics.
	Logger logger.Logger

	// Metrics records evaluations and chunk durations when set.
	Metrics *metrics.Registry
}

// DefaultConfig returns a configuration with one worker per CPU.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.GOMAXPROCS(0),
		Name:    "default",
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validation.ValidatePositive("parallel", "Workers", c.Workers); err != nil {
		return err
	}
	return validation.ValidateNonNegative("parallel", "ChunkSize", int64(c.ChunkSize))
}

// workers returns the number of chunks that can run at the same time.
func (c Config) workers() int {
	if c.Pool != nil {
		return c.Pool.Size()
	}
	return c.Workers
}

// chunkSize returns the configured chunk size, or one derived from size.
func (c Config) chunkSize(size int) int {
	if c.ChunkSize > 0 {
		return c.ChunkSize
	}
	planned := c.workers() * chunksPerWorker
	return max((size+planned-1)/planned, 1)
}
