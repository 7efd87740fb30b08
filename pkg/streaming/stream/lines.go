package stream

import (
	"bufio"
	"context"
	"io"
	"os"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/common/validation"
)

// maxLineSize bounds a single line read by Lines and FileLines.
const maxLineSize = 1 << 20

// lineSource yields the lines of a reader without their line terminators.
type lineSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	path    string
}

func (s *lineSource) Next(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if s.scanner.Scan() {
		return s.scanner.Text(), true, nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", false, lferrors.NewOperationError("stream", "lines", err).WithContext(s.path)
	}
	return "", false, nil
}

func (s *lineSource) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

func newLineSource(r io.Reader, path string) *lineSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	src := &lineSource{scanner: scanner, path: path}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

// Lines creates a finite Stream of the lines read from r.
// If r is an io.Closer it is closed with the stream.
func Lines(r io.Reader) Stream[string] {
	return New[string](newLineSource(r, ""))
}

// FileLines opens the file at path and returns a Stream of its lines.
// The file is closed when the stream is closed or consumed by a terminal.
func FileLines(path string) (Stream[string], error) {
	if err := validation.ValidateNotEmpty("stream", "path", path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, lferrors.NewOperationError("stream", "open", err).WithContext(path)
	}
	return New[string](newLineSource(f, path)), nil
}
