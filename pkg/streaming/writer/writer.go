package writer

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vnykmshr/lazyflow/pkg/common/validation"
	"github.com/vnykmshr/lazyflow/pkg/metrics"
)

// ErrWriterClosed is returned when attempting to write to a closed writer.
var ErrWriterClosed = errors.New("writer is closed")

// Writer buffers rendered results and writes them to an underlying io.Writer.
// Data is written when the buffer fills up, on Flush and on Close.
type Writer interface {
	// Write buffers data, flushing first if data does not fit.
	Write(data []byte) (int, error)

	// WriteString buffers a string.
	WriteString(s string) (int, error)

	// WriteLine buffers s followed by a newline.
	WriteLine(s string) error

	// Flush writes all buffered data to the underlying writer.
	Flush(ctx context.Context) error

	// Close flushes remaining data. After Close returns, no more writes are accepted.
	Close() error

	// Stats returns statistics about the writer.
	Stats() Stats

	// IsClosed returns true if the writer is closed.
	IsClosed() bool

	// Buffered returns the current number of buffered bytes.
	Buffered() int
}

// Stats holds statistics about writer activity.
type Stats struct {
	// BytesWritten is the total number of bytes written to the underlying writer.
	BytesWritten int64

	// WriteCount is the total number of buffered write operations.
	WriteCount int64

	// FlushCount is the total number of flush operations.
	FlushCount int64

	// ErrorCount is the total number of errors encountered.
	ErrorCount int64

	// LastWriteTime is the timestamp of the last write operation.
	LastWriteTime time.Time
}

// Config holds configuration options for Writer.
type Config struct {
	// BufferSize is the size of the internal buffer in bytes.
	// Default: 4KB
	BufferSize int

	// MaxRetries is the number of times to retry a failed flush.
	// Default: 0
	MaxRetries int

	// RetryDelay is the delay between retries.
	// Default: 10ms
	RetryDelay time.Duration

	// Name labels the writer in metrics.
	Name string

	// Metrics records flushes and bytes written when set.
	Metrics *metrics.Registry

	// OnError is called when write errors occur.
	OnError func(error)

	// OnFlush is called after each flush operation.
	OnFlush func(bytesWritten int, duration time.Duration)
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		BufferSize: 4 * 1024,
		MaxRetries: 0,
		RetryDelay: 10 * time.Millisecond,
		Name:       "default",
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validation.ValidatePositive("writer", "BufferSize", c.BufferSize); err != nil {
		return err
	}
	return validation.ValidateNonNegative("writer", "MaxRetries", int64(c.MaxRetries))
}

// bufferedWriter implements Writer.
type bufferedWriter struct {
	underlying io.Writer
	config     Config

	mu     sync.Mutex
	buffer []byte
	stats  Stats
	closed int32 // atomic
}

// New creates a Writer with the default configuration.
func New(w io.Writer) Writer {
	bw, _ := NewWithConfig(w, DefaultConfig())
	return bw
}

// NewWithConfig creates a Writer with config.
func NewWithConfig(w io.Writer, config Config) (Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultConfig().RetryDelay
	}
	if config.Name == "" {
		config.Name = DefaultConfig().Name
	}

	return &bufferedWriter{
		underlying: w,
		config:     config,
		buffer:     make([]byte, 0, config.BufferSize),
	}, nil
}

// Write implements Writer.Write.
func (bw *bufferedWriter) Write(data []byte) (int, error) {
	if bw.IsClosed() {
		return 0, ErrWriterClosed
	}

	bw.mu.Lock()
	defer bw.mu.Unlock()

	size := bw.config.BufferSize
	if len(bw.buffer)+len(data) > size {
		if err := bw.flushLocked(context.Background()); err != nil {
			return 0, err
		}
	}

	bw.buffer = append(bw.buffer, data...)
	bw.stats.WriteCount++
	bw.stats.LastWriteTime = time.Now()

	// an oversized write is passed straight through
	if len(bw.buffer) > size {
		if err := bw.flushLocked(context.Background()); err != nil {
			return 0, err
		}
	}
	return len(data), nil
}

// WriteString implements Writer.WriteString.
func (bw *bufferedWriter) WriteString(s string) (int, error) {
	return bw.Write([]byte(s))
}

// WriteLine implements Writer.WriteLine.
func (bw *bufferedWriter) WriteLine(s string) error {
	_, err := bw.Write(append([]byte(s), '\n'))
	return err
}

// Flush implements Writer.Flush.
func (bw *bufferedWriter) Flush(ctx context.Context) error {
	if bw.IsClosed() {
		return ErrWriterClosed
	}

	bw.mu.Lock()
	defer bw.mu.Unlock()
	return bw.flushLocked(ctx)
}

// Close implements Writer.Close.
func (bw *bufferedWriter) Close() error {
	if !atomic.CompareAndSwapInt32(&bw.closed, 0, 1) {
		return nil // Already closed
	}

	bw.mu.Lock()
	defer bw.mu.Unlock()
	return bw.flushLocked(context.Background())
}

// Stats implements Writer.Stats.
func (bw *bufferedWriter) Stats() Stats {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return bw.stats
}

// IsClosed implements Writer.IsClosed.
func (bw *bufferedWriter) IsClosed() bool {
	return atomic.LoadInt32(&bw.closed) != 0
}

// Buffered implements Writer.Buffered.
func (bw *bufferedWriter) Buffered() int {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return len(bw.buffer)
}

// flushLocked writes all buffered data to the underlying writer.
// The caller holds bw.mu.
func (bw *bufferedWriter) flushLocked(ctx context.Context) error {
	if len(bw.buffer) == 0 {
		return nil
	}

	startTime := time.Now()
	written, err := bw.writeWithRetries(ctx, bw.buffer)
	duration := time.Since(startTime)

	// keep whatever was not written for the next attempt
	bw.buffer = append(bw.buffer[:0], bw.buffer[written:]...)

	bw.stats.FlushCount++
	bw.stats.BytesWritten += int64(written)
	if err != nil {
		bw.stats.ErrorCount++
	}

	if reg := bw.config.Metrics; reg != nil {
		reg.WriterFlushes.WithLabelValues(bw.config.Name).Inc()
		reg.WriterBytesWritten.WithLabelValues(bw.config.Name).Add(float64(written))
	}

	if bw.config.OnFlush != nil {
		bw.config.OnFlush(written, duration)
	}

	if err != nil && bw.config.OnError != nil {
		bw.config.OnError(err)
	}

	return err
}

// writeWithRetries writes data with retry logic.
func (bw *bufferedWriter) writeWithRetries(ctx context.Context, data []byte) (int, error) {
	var totalWritten int
	var lastErr error

	for attempt := 0; attempt <= bw.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Wait before retry
			select {
			case <-time.After(bw.config.RetryDelay):
			case <-ctx.Done():
				return totalWritten, ctx.Err()
			}
		}

		written, err := bw.underlying.Write(data[totalWritten:])
		totalWritten += written

		if err != nil {
			lastErr = err
			continue
		}

		if totalWritten >= len(data) {
			return totalWritten, nil
		}
	}

	if lastErr == nil {
		lastErr = io.ErrShortWrite
	}
	return totalWritten, lastErr
}
