package hashtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBucketPoolRecyclesZeroedBuckets(t *testing.T) {
	p := newBucketPool[*int](2)

	b := p.Get()
	require.Empty(t, b)
	require.Equal(t, 2, cap(b))

	v := 7
	b = append(b, &v, &v, &v)
	p.Put(b[:0])
	require.Equal(t, 1, p.Len())

	got := p.Get()
	require.Empty(t, got)
	require.Equal(t, 0, p.Len())
	for _, e := range got[:cap(got)] {
		require.Nil(t, e)
	}

	for i := 0; i < maxPooledBuckets+10; i++ {
		p.Put(make([]*int, 0, 1))
	}
	require.Equal(t, maxPooledBuckets, p.Len())
	p.Close()
	require.Equal(t, 0, p.Len())
}
