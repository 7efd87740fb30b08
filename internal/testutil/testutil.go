package testutil

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"
)

// TestTimeout is the default timeout for tests
const TestTimeout = 5 * time.Second

// WithTimeout creates a context with the default test timeout
func WithTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), TestTimeout)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorIs fails the test if err does not match target under errors.Is
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("got error %v, want %v", err, target)
	}
}

// AssertEqual fails the test if got != want
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// AssertSliceEqual fails the test if got and want differ in length or in any
// element. A nil slice equals an empty one.
func AssertSliceEqual[T comparable](t *testing.T, got, want []T) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// CallTracker counts invocations of a callback from any goroutine.
type CallTracker struct {
	mu    sync.Mutex
	calls int
}

// NewCallTracker returns a tracker with no recorded calls.
func NewCallTracker() *CallTracker {
	return &CallTracker{}
}

// Mark records one call.
func (c *CallTracker) Mark() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
}

// CallCount returns the number of recorded calls.
func (c *CallTracker) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// AssertCallCount fails the test if the tracker was not called exactly want times.
func (c *CallTracker) AssertCallCount(t *testing.T, want int) {
	t.Helper()
	if got := c.CallCount(); got != want {
		t.Fatalf("call count = %d, want %d", got, want)
	}
}

// Eventually polls condition every tick until it holds, failing the test when
// it still does not hold after timeout.
func Eventually(t *testing.T, condition func() bool, timeout, tick time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %v", timeout)
		}
		time.Sleep(tick)
	}
}
