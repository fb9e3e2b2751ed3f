// Package sortutil provides in-place sorts for small runs of fixed-layout values.
//
// All sorts work on the sub-range [start, end) of a slice and never allocate.
// They are meant for buckets and hit lists of a few dozen elements where
// cache locality matters more than asymptotic complexity.
package sortutil

import "cmp"

// Comparer orders two values: negative if a < b, zero if equal, positive if a > b.
type Comparer[T any] interface {
	Compare(a, b T) int
}

// CompareFunc adapts a plain function to Comparer.
type CompareFunc[T any] func(a, b T) int

// Compare implements Comparer.
func (f CompareFunc[T]) Compare(a, b T) int { return f(a, b) }

// Ordered compares values of any cmp.Ordered type in ascending order.
type Ordered[T cmp.Ordered] struct{}

// Compare implements Comparer.
func (Ordered[T]) Compare(a, b T) int { return cmp.Compare(a, b) }

// InsertionSort sorts buf[start:end] in place. Stable.
// Preferred for nearly-sorted runs and anything under ~32 elements.
func InsertionSort[T any, C Comparer[T]](buf []T, start, end int, c C) {
	checkRange(len(buf), start, end)
	for i := start + 1; i < end; i++ {
		v := buf[i]
		j := i - 1
		for j >= start && c.Compare(buf[j], v) > 0 {
			buf[j+1] = buf[j]
			j--
		}
		buf[j+1] = v
	}
}

// SelectionSort sorts buf[start:end] in place with at most one swap per pass.
// Not stable. Use it when copying an element costs more than comparing two.
func SelectionSort[T any, C Comparer[T]](buf []T, start, end int, c C) {
	checkRange(len(buf), start, end)
	for i := start; i < end-1; i++ {
		best := i
		for j := i + 1; j < end; j++ {
			if c.Compare(buf[j], buf[best]) < 0 {
				best = j
			}
		}
		if best != i {
			buf[i], buf[best] = buf[best], buf[i]
		}
	}
}

// BubbleSort sorts buf[start:end] in place. Stable. Kept as a test baseline.
func BubbleSort[T any, C Comparer[T]](buf []T, start, end int, c C) {
	checkRange(len(buf), start, end)
	for n := end; n > start+1; n-- {
		swapped := false
		for j := start + 1; j < n; j++ {
			if c.Compare(buf[j-1], buf[j]) > 0 {
				buf[j-1], buf[j] = buf[j], buf[j-1]
				swapped = true
			}
		}
		if !swapped {
			return
		}
	}
}

// Insertion sorts the whole slice with InsertionSort.
func Insertion[T any, C Comparer[T]](buf []T, c C) { InsertionSort(buf, 0, len(buf), c) }

// Selection sorts the whole slice with SelectionSort.
func Selection[T any, C Comparer[T]](buf []T, c C) { SelectionSort(buf, 0, len(buf), c) }

// Bubble sorts the whole slice with BubbleSort.
func Bubble[T any, C Comparer[T]](buf []T, c C) { BubbleSort(buf, 0, len(buf), c) }

// IsSorted reports whether buf[start:end] is non-decreasing under c.
func IsSorted[T any, C Comparer[T]](buf []T, start, end int, c C) bool {
	checkRange(len(buf), start, end)
	for i := start + 1; i < end; i++ {
		if c.Compare(buf[i-1], buf[i]) > 0 {
			return false
		}
	}
	return true
}

func checkRange(n, start, end int) {
	if start < 0 || end > n || start > end {
		panic("sortutil: range out of bounds")
	}
}
