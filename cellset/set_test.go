package cellset

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetAddIsIdempotent(t *testing.T) {
	s := New(0)
	require.True(t, s.Add(42))
	require.False(t, s.Add(42))
	require.True(t, s.Contains(42))
	require.False(t, s.Contains(7))
	require.Equal(t, 1, s.Len())

	s.Clear()
	require.Zero(t, s.Len())
	require.False(t, s.Contains(42))
}

func TestSetConcurrentWriters(t *testing.T) {
	const writers = 16
	const perWriter = 2000

	s := New(perWriter)
	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func(w int) {
			defer wg.Done()
			// every writer covers the same range so most adds collide
			for i := 0; i < perWriter; i++ {
				s.Add(uint64((i + w) % perWriter))
			}
		}(w)
	}
	wg.Wait()

	require.Equal(t, perWriter, s.Len())
	got := s.Slice()
	slices.Sort(got)
	for i, c := range got {
		require.Equal(t, uint64(i), c)
	}
}

func TestSetForEachStops(t *testing.T) {
	s := New(8)
	s.AddAll([]uint64{1, 2, 3, 4})
	n := 0
	s.ForEach(func(uint64) bool {
		n++
		return n < 2
	})
	require.Equal(t, 2, n)

	require.Len(t, s.AppendTo([]uint64{99}), 5)
}

func BenchmarkSetAddParallel(b *testing.B) {
	s := New(1 << 16)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		var i uint64
		for pb.Next() {
			s.Add(i & 0xFFFF)
			i++
		}
	})
}
