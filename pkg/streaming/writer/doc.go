/*
Package writer provides the buffered result writer used to print pipeline output.

A Writer collects rendered results in memory and writes them to the underlying
io.Writer when the buffer fills up, on Flush and on Close. It is the printing
side of stream.WriteTo and of the lazyflow command.

# Quick Start

	w := writer.New(os.Stdout)
	defer w.Close()

	n, err := stream.WriteTo(ctx, stream.FromSlice(fixtures.Menu()), w, fixtures.Dish.String)

# Configuration

	config := writer.Config{
		BufferSize: 64 * 1024,            // 64KB buffer
		MaxRetries: 3,                    // Retry failed flushes
		RetryDelay: 10 * time.Millisecond,
		Name:       "report",             // metrics label
		Metrics:    registry,             // optional *metrics.Registry
	}

	w, err := writer.NewWithConfig(os.Stdout, config)

# Monitoring

Track flushes with callbacks, or read the counters:

	config.OnFlush = func(bytes int, d time.Duration) {
		logger.Debug("flushed", zap.Int("bytes", bytes), zap.Duration("took", d))
	}

	stats := w.Stats()
	fmt.Println(stats.BytesWritten, stats.FlushCount)
*/
package writer
