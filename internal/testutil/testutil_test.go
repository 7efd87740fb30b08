package testutil

import (
	"errors"
	"sync"
	"testing"
)

func TestCallTracker(t *testing.T) {
	t.Run("basic tracking", func(t *testing.T) {
		tracker := NewCallTracker()
		tracker.AssertCallCount(t, 0)

		tracker.Mark()
		tracker.AssertCallCount(t, 1)
	})

	t.Run("concurrent access", func(t *testing.T) {
		tracker := NewCallTracker()

		const goroutines = 10
		const callsPerGoroutine = 100

		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < callsPerGoroutine; j++ {
					tracker.Mark()
				}
			}()
		}
		wg.Wait()

		tracker.AssertCallCount(t, goroutines*callsPerGoroutine)
	})
}

func TestAssertions(t *testing.T) {
	AssertNoError(t, nil)
	AssertError(t, errors.New("boom"))

	sentinel := errors.New("sentinel")
	AssertErrorIs(t, errors.Join(errors.New("other"), sentinel), sentinel)

	AssertEqual(t, 3, 3)
	AssertSliceEqual(t, []int{1, 2}, []int{1, 2})
	AssertSliceEqual[int](t, nil, []int{})
}

func TestMockWriter(t *testing.T) {
	t.Run("records writes", func(t *testing.T) {
		mw := NewMockWriter()
		_, _ = mw.Write([]byte("pork\n"))
		_, _ = mw.Write([]byte("beef\n"))

		AssertEqual(t, mw.String(), "pork\nbeef\n")
		AssertEqual(t, mw.WriteCount(), 2)
	})

	t.Run("error on nth", func(t *testing.T) {
		mw := NewMockWriter()
		mw.SetErrorOnNth(2)

		_, err := mw.Write([]byte("a"))
		AssertNoError(t, err)
		_, err = mw.Write([]byte("b"))
		AssertError(t, err)
		AssertEqual(t, mw.String(), "a")
	})

	t.Run("always error", func(t *testing.T) {
		mw := NewMockWriter()
		want := errors.New("disk full")
		mw.SetAlwaysError(want)

		_, err := mw.Write([]byte("a"))
		AssertErrorIs(t, err, want)
	})
}
