package hashtree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMortonRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for i := 0; i < 1000; i++ {
		x, y := rng.Uint32(), rng.Uint32()
		dx, dy := DecodeCell2(EncodeCell2(x, y))
		require.Equal(t, x, dx)
		require.Equal(t, y, dy)

		x3, y3, z3 := x&0x1FFFFF, y&0x1FFFFF, rng.Uint32()&0x1FFFFF
		ex, ey, ez := DecodeCell3(EncodeCell3(x3, y3, z3))
		require.Equal(t, [3]uint32{x3, y3, z3}, [3]uint32{ex, ey, ez})
	}
}

func TestMortonLayout(t *testing.T) {
	require.Equal(t, CellCode(0b01), EncodeCell2(1, 0))
	require.Equal(t, CellCode(0b10), EncodeCell2(0, 1))
	require.Equal(t, CellCode(0b1111), EncodeCell2(3, 3))
	require.Equal(t, CellCode(0b100), EncodeCell3(0, 0, 1))
	require.Equal(t, CellCode(0b111000), EncodeCell3(2, 2, 2))

	// parent of a cell is the cell of the halved coordinates
	c := EncodeCell3(13, 6, 9)
	require.Equal(t, EncodeCell3(6, 3, 4), ParentCode(3, c))
	require.Equal(t, c, ChildCode(3, ParentCode(3, c), int(c&7)))
}

func TestNodeKey(t *testing.T) {
	for _, dims := range []int{2, 3} {
		depth := MaxDepth3D
		if dims == 2 {
			depth = MaxDepth2D
		}
		for d := 0; d <= depth; d++ {
			code := uint64(1)<<uint(dims*d) - 1
			gotCode, gotDepth := splitNodeKey(dims, nodeKey(dims, code, d))
			require.Equal(t, code, gotCode)
			require.Equal(t, d, gotDepth)
		}
	}
	require.NotEqual(t, nodeKey(2, 0, 1), nodeKey(2, 0, 2))
}
