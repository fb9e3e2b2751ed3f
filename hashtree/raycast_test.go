package hashtree

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ic-timon/hashtree/intersect"
	"github.com/stretchr/testify/require"
)

func TestRaycastRanksNearestFirst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 3
	cfg.Scale = mgl32.Vec3{8, 8, 8}
	ot := MustNewOctree[int](cfg)

	// one payload per cell along x at y = z = 0.5, plus one off the ray
	for x := 0; x < 8; x += 2 {
		ot.Insert(mgl32.Vec3{float32(x) + 0.5, 0.5, 0.5}, x)
	}
	ot.Insert(mgl32.Vec3{4.5, 6.5, 6.5}, 100)

	r := intersect.Ray{Origin: mgl32.Vec3{-1, 0.5, 0.5}, Direction: mgl32.Vec3{1, 0, 0}}
	hits := ot.Raycast(r, 0, nil)
	require.Len(t, hits, 4)
	for i, h := range hits {
		require.Equal(t, ot.CellCode(mgl32.Vec3{float32(2*i) + 0.5, 0.5, 0.5}), h.Shape)
		require.Equal(t, 2, h.Count)
	}

	hits = ot.Raycast(r, 4, hits[:0])
	require.Len(t, hits, 2)

	first, ok := intersect.First(hits, r.Origin, DefaultRayEpsilon)
	require.True(t, ok)
	require.Equal(t, hits[0].Shape, first.Shape)
}

func TestRaycastFromInsideCell(t *testing.T) {
	qt := MustNewQuadtree[int](unitSquare(2))
	qt.Insert(mgl32.Vec2{0.25, 0.25}, 1)

	hits := qt.Raycast(mgl32.Vec2{0.25, 0.25}, mgl32.Vec2{0, 1}, 0, nil)
	require.Len(t, hits, 1)
	require.Equal(t, 1, hits[0].Count)
	require.InDelta(t, 0.5, hits[0].Points[0][1], 1e-6)
}

func TestRaycastMisses(t *testing.T) {
	qt := MustNewQuadtree[int](unitSquare(4))
	require.Empty(t, qt.Raycast(mgl32.Vec2{}, mgl32.Vec2{1, 0}, 0, nil))

	qt.Insert(mgl32.Vec2{0.5, 0.5}, 1)
	require.Empty(t, qt.Raycast(mgl32.Vec2{-0.5, -0.5}, mgl32.Vec2{-1, 0}, 0, nil))
	require.Empty(t, qt.Raycast(mgl32.Vec2{-0.5, 0.55}, mgl32.Vec2{1, 0}, 0.5, nil))
	require.Len(t, qt.Raycast(mgl32.Vec2{-0.5, 0.55}, mgl32.Vec2{1, 0}, 2, nil), 1)
}
