package optional

import (
	"errors"
	"strconv"
	"testing"

	"github.com/vnykmshr/lazyflow/internal/testutil"
	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
)

func TestOfAndEmpty(t *testing.T) {
	present := Of(42)
	testutil.AssertEqual(t, present.IsPresent(), true)
	testutil.AssertEqual(t, present.IsEmpty(), false)

	v, err := present.Get()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v, 42)

	empty := Empty[int]()
	testutil.AssertEqual(t, empty.IsPresent(), false)
	testutil.AssertEqual(t, empty.IsEmpty(), true)

	var zero Optional[string]
	testutil.AssertEqual(t, zero.IsPresent(), false)
}

func TestOfZeroValueIsPresent(t *testing.T) {
	o := Of(0)
	testutil.AssertEqual(t, o.IsPresent(), true)
	testutil.AssertEqual(t, o.OrElse(7), 0)
}

func TestGetEmpty(t *testing.T) {
	v, err := Empty[string]().Get()
	testutil.AssertErrorIs(t, err, lferrors.ErrEmptyValue)
	testutil.AssertEqual(t, v, "")
}

func TestMustGet(t *testing.T) {
	testutil.AssertEqual(t, Of("rice").MustGet(), "rice")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, lferrors.ErrEmptyValue) {
			t.Fatalf("panic value = %v, want ErrEmptyValue", r)
		}
	}()
	Empty[string]().MustGet()
}

func TestOfPtr(t *testing.T) {
	n := 5
	testutil.AssertEqual(t, OfPtr(&n).MustGet(), 5)
	testutil.AssertEqual(t, OfPtr[int](nil).IsPresent(), false)
}

func TestOrElse(t *testing.T) {
	testutil.AssertEqual(t, Of(3).OrElse(1), 3)
	testutil.AssertEqual(t, Empty[int]().OrElse(1), 1)

	calls := 0
	supplier := func() int { calls++; return 9 }
	testutil.AssertEqual(t, Of(3).OrElseGet(supplier), 3)
	testutil.AssertEqual(t, calls, 0)
	testutil.AssertEqual(t, Empty[int]().OrElseGet(supplier), 9)
	testutil.AssertEqual(t, calls, 1)
}

func TestIfPresent(t *testing.T) {
	var got []string
	Of("salmon").IfPresent(func(s string) { got = append(got, s) })
	Empty[string]().IfPresent(func(s string) { got = append(got, s) })
	testutil.AssertSliceEqual(t, got, []string{"salmon"})

	emptyCalled := false
	Empty[string]().IfPresentOrElse(func(string) {}, func() { emptyCalled = true })
	testutil.AssertEqual(t, emptyCalled, true)

	var seen string
	Of("prawns").IfPresentOrElse(func(s string) { seen = s }, func() { t.Error("empty action called") })
	testutil.AssertEqual(t, seen, "prawns")
}

func TestFilter(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	testutil.AssertEqual(t, Of(4).Filter(even).IsPresent(), true)
	testutil.AssertEqual(t, Of(3).Filter(even).IsPresent(), false)
	testutil.AssertEqual(t, Empty[int]().Filter(even).IsPresent(), false)
}

func TestMapAndFlatMap(t *testing.T) {
	s := Map(Of(12), strconv.Itoa)
	testutil.AssertEqual(t, s.MustGet(), "12")
	testutil.AssertEqual(t, Map(Empty[int](), strconv.Itoa).IsPresent(), false)

	parse := func(s string) Optional[int] {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Empty[int]()
		}
		return Of(n)
	}
	testutil.AssertEqual(t, FlatMap(Of("800"), parse).MustGet(), 800)
	testutil.AssertEqual(t, FlatMap(Of("pork"), parse).IsPresent(), false)
	testutil.AssertEqual(t, FlatMap(Empty[string](), parse).IsPresent(), false)
}

func TestString(t *testing.T) {
	testutil.AssertEqual(t, Of(1000).String(), "Optional[1000]")
	testutil.AssertEqual(t, Empty[int]().String(), "Optional.empty")
}
