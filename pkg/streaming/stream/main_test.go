package stream

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// Iterator-backed sources run a coroutine until they are closed.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
