package stream

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vnykmshr/lazyflow/internal/testutil"
	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
)

type trackingReader struct {
	*strings.Reader
	closed bool
}

func (r *trackingReader) Close() error {
	r.closed = true
	return nil
}

func TestLines(t *testing.T) {
	r := &trackingReader{Reader: strings.NewReader("The quick brown fox\r\njumped over\n\nthe lazy dog")}

	lines, err := Lines(r).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, lines, []string{"The quick brown fox", "jumped over", "", "the lazy dog"})
	testutil.AssertEqual(t, r.closed, true)
}

func TestFileLinesDistinctWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	content := "The quick brown fox\njumped over the lazy dog\nthe end\n"
	testutil.AssertNoError(t, os.WriteFile(path, []byte(content), 0o600))

	lines, err := FileLines(path)
	testutil.AssertNoError(t, err)

	words := FlatMapSlice(lines, strings.Fields)
	count, err := Map(words, strings.ToLower).Distinct().Count(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, int64(9))
}

func TestFileLinesClosedOnShortCircuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	testutil.AssertNoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0o600))

	lines, err := FileLines(path)
	testutil.AssertNoError(t, err)

	first, err := lines.FindFirst(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, first.MustGet(), "a")

	src := lines.(*stream[string]).source.(*lineSource)
	testutil.AssertEqual(t, src.closer == nil, true)
}

func TestFileLinesErrors(t *testing.T) {
	_, err := FileLines("")
	testutil.AssertErrorIs(t, err, lferrors.ErrInvalidConfiguration)

	_, err = FileLines(filepath.Join(t.TempDir(), "missing.txt"))
	testutil.AssertErrorIs(t, err, os.ErrNotExist)

	var opErr *lferrors.OperationError
	testutil.AssertEqual(t, errors.As(err, &opErr), true)
	testutil.AssertEqual(t, opErr.Operation, "open")
}

func TestLinesTooLong(t *testing.T) {
	long := strings.Repeat("x", maxLineSize+1)

	_, err := Lines(strings.NewReader(long)).Count(context.Background())
	testutil.AssertError(t, err)

	var opErr *lferrors.OperationError
	testutil.AssertEqual(t, errors.As(err, &opErr), true)
	testutil.AssertEqual(t, opErr.Operation, "lines")
}
