package hashtree

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

// bruteForce checks every occupied cell against the shape without descending.
func bruteForce[T comparable](t *tree[T], q queryShape) []CellCode {
	var out []CellCode
	if q.empty() {
		return out
	}
	for code := range t.buckets {
		if q.intersects(t.bounds(uint64(code), t.cfg.MaxDepth, true)) {
			out = append(out, code)
		}
	}
	return out
}

func TestQueryRadiusMatchesBruteForce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 5
	cfg.Origin = mgl32.Vec3{-10, -10, -10}
	cfg.Scale = mgl32.Vec3{20, 20, 20}
	ot := MustNewOctree[int](cfg)
	for i, p := range randomPoints3(2000, 11, -12, 12) {
		ot.Insert(p, i)
	}

	rng := rand.New(rand.NewSource(12))
	for _, c := range randomPoints3(100, 13, -12, 12) {
		r := rng.Float32() * 6
		got := ot.QueryRadius(c, r, nil)
		require.ElementsMatch(t, bruteForce(&ot.tree, sphereShape(c, r)), got)
		requireUnique(t, got)
	}
}

func TestQueryRegionMatchesBruteForce(t *testing.T) {
	qt := MustNewQuadtree[int](unitSquare(7))
	for i, p := range randomPoints2(3000, 14, -1.2, 1.2) {
		qt.Insert(p, i)
	}

	corners := randomPoints2(200, 15, -1.5, 1.5)
	for i := 0; i+1 < len(corners); i += 2 {
		a, b := corners[i], corners[i+1]
		r := Rect{
			Min: mgl32.Vec2{min(a[0], b[0]), min(a[1], b[1])},
			Max: mgl32.Vec2{max(a[0], b[0]), max(a[1], b[1])},
		}
		got := qt.QueryRegion(r, nil)
		require.ElementsMatch(t, bruteForce(&qt.tree, boxShape(r.AABB())), got)
		requireUnique(t, got)
	}
}

func TestQueryCoversInsertedCell(t *testing.T) {
	qt := MustNewQuadtree[int](unitSquare(6))
	pts := randomPoints2(500, 16, -3, 3)
	for i, p := range pts {
		qt.Insert(p, i)
	}
	for _, p := range pts {
		require.Contains(t, qt.QueryRadius(p, 0, nil), qt.CellCode(p))
		require.Contains(t, qt.QueryRegion(Rect{Min: p, Max: p}, nil), qt.CellCode(p))
	}
}

func TestEmptyShapes(t *testing.T) {
	ot := MustNewOctree[int](DefaultConfig())
	ot.Insert(mgl32.Vec3{0.5, 0.5, 0.5}, 1)

	require.Empty(t, ot.QueryRadius(mgl32.Vec3{0.5, 0.5, 0.5}, -1, nil))
	inverted := AABB{Min: mgl32.Vec3{1, 1, 1}, Max: mgl32.Vec3{0, 0, 0}}
	require.Empty(t, ot.QueryRegion(inverted, nil))
	require.Len(t, ot.QueryRegion(AABB{Max: mgl32.Vec3{1, 1, 1}}, nil), 1)
}

func TestPayloadQueries(t *testing.T) {
	qt := MustNewQuadtree[string](unitSquare(4))
	qt.Insert(mgl32.Vec2{0, 0}, "a")
	qt.Insert(mgl32.Vec2{0.01, 0.01}, "b")
	qt.Insert(mgl32.Vec2{0.9, 0.9}, "c")

	require.ElementsMatch(t, []string{"a", "b"}, qt.PayloadsInRadius(mgl32.Vec2{0, 0}, 0.1, nil))
	require.ElementsMatch(t, []string{"a", "b", "c"},
		qt.PayloadsInRegion(Rect{Min: mgl32.Vec2{-1, -1}, Max: mgl32.Vec2{1, 1}}, nil))

	ot := MustNewOctree[string](DefaultConfig())
	ot.Insert(mgl32.Vec3{0.1, 0.1, 0.1}, "x")
	ot.Insert(mgl32.Vec3{0.9, 0.9, 0.9}, "y")
	out := []string{"keep"}
	out = ot.PayloadsInRegion(AABB{Max: mgl32.Vec3{0.5, 0.5, 0.5}}, out)
	require.Equal(t, []string{"keep", "x"}, out)
	require.Equal(t, []string{"y"}, ot.PayloadsInRadius(mgl32.Vec3{1, 1, 1}, 0.2, nil))
}

func requireUnique(t *testing.T, cells []CellCode) {
	seen := make(map[CellCode]struct{}, len(cells))
	for _, c := range cells {
		_, dup := seen[c]
		require.False(t, dup, "cell %d reported twice", c)
		seen[c] = struct{}{}
	}
}

func BenchmarkQuadtreeQueryRadius(b *testing.B) {
	qt := MustNewQuadtree[int](unitSquare(8))
	for i, p := range randomPoints2(20000, 17, -1, 1) {
		qt.Insert(p, i)
	}
	centers := randomPoints2(1024, 18, -1, 1)
	out := make([]CellCode, 0, 1024)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = qt.QueryRadius(centers[i&1023], 0.05, out[:0])
	}
}
