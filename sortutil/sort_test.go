package sortutil

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

type sortFunc func(buf []int, start, end int, c Ordered[int])

var sorts = map[string]sortFunc{
	"insertion": InsertionSort[int, Ordered[int]],
	"selection": SelectionSort[int, Ordered[int]],
	"bubble":    BubbleSort[int, Ordered[int]],
}

func randomInts(n int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(50) - 25
	}
	return out
}

func TestSortsProduceSortedPermutation(t *testing.T) {
	for name, sort := range sorts {
		t.Run(name, func(t *testing.T) {
			for _, n := range []int{0, 1, 2, 7, 31, 64} {
				buf := randomInts(n, int64(n)+1)
				want := slices.Clone(buf)
				slices.Sort(want)

				sort(buf, 0, len(buf), Ordered[int]{})
				require.Equal(t, want, buf)
				require.True(t, IsSorted(buf, 0, len(buf), Ordered[int]{}))

				// already sorted input is left unchanged
				again := slices.Clone(buf)
				sort(again, 0, len(again), Ordered[int]{})
				require.Equal(t, buf, again)
			}
		})
	}
}

func TestSortsRespectSubRange(t *testing.T) {
	for name, sort := range sorts {
		t.Run(name, func(t *testing.T) {
			buf := []int{9, 5, 4, 3, 2, 1, -9}
			sort(buf, 1, 6, Ordered[int]{})
			require.Equal(t, []int{9, 1, 2, 3, 4, 5, -9}, buf)
		})
	}
}

type keyed struct {
	key, seq int
}

func TestStableSorts(t *testing.T) {
	byKey := CompareFunc[keyed](func(a, b keyed) int { return a.key - b.key })
	in := []keyed{{2, 0}, {1, 1}, {2, 2}, {1, 3}, {0, 4}, {2, 5}}
	want := []keyed{{0, 4}, {1, 1}, {1, 3}, {2, 0}, {2, 2}, {2, 5}}

	buf := slices.Clone(in)
	Insertion(buf, byKey)
	require.Equal(t, want, buf)

	buf = slices.Clone(in)
	Bubble(buf, byKey)
	require.Equal(t, want, buf)

	buf = slices.Clone(in)
	Selection(buf, byKey)
	require.True(t, IsSorted(buf, 0, len(buf), byKey))
}

func TestSortsDescendingComparer(t *testing.T) {
	desc := CompareFunc[int](func(a, b int) int { return b - a })
	buf := []int{3, 1, 2}
	Selection(buf, desc)
	require.Equal(t, []int{3, 2, 1}, buf)
}

func TestSortRangePanics(t *testing.T) {
	require.Panics(t, func() { InsertionSort([]int{1, 2}, 0, 3, Ordered[int]{}) })
	require.Panics(t, func() { SelectionSort([]int{1, 2}, 2, 1, Ordered[int]{}) })
	require.Panics(t, func() { BubbleSort([]int{1, 2}, -1, 1, Ordered[int]{}) })
}

func TestSortsDoNotAllocate(t *testing.T) {
	buf := randomInts(32, 7)
	scratch := make([]int, len(buf))
	allocs := testing.AllocsPerRun(100, func() {
		copy(scratch, buf)
		InsertionSort(scratch, 0, len(scratch), Ordered[int]{})
	})
	require.Zero(t, allocs)
}

func BenchmarkInsertionSort32(b *testing.B) {
	src := randomInts(32, 42)
	buf := make([]int, len(src))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		copy(buf, src)
		InsertionSort(buf, 0, len(buf), Ordered[int]{})
	}
}

func BenchmarkSelectionSort32(b *testing.B) {
	src := randomInts(32, 42)
	buf := make([]int, len(src))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		copy(buf, src)
		SelectionSort(buf, 0, len(buf), Ordered[int]{})
	}
}
