package hashtree

import (
	"github.com/go-gl/mathgl/mgl32"
)

type shapeKind uint8

const (
	shapeSphere shapeKind = iota
	shapeBox
)

func (k shapeKind) String() string {
	if k == shapeBox {
		return "region"
	}
	return "radius"
}

// queryShape is a tagged union so descent does not go through an interface or closure.
type queryShape struct {
	kind   shapeKind
	center mgl32.Vec3
	radius float32
	box    AABB
}

func sphereShape(center mgl32.Vec3, radius float32) queryShape {
	return queryShape{kind: shapeSphere, center: center, radius: radius}
}

func boxShape(box AABB) queryShape {
	return queryShape{kind: shapeBox, box: box}
}

func (q *queryShape) empty() bool {
	if q.kind == shapeBox {
		return !q.box.Valid()
	}
	return q.radius < 0 || q.radius != q.radius
}

func (q *queryShape) intersects(b AABB) bool {
	if q.kind == shapeBox {
		return q.box.Intersects(b)
	}
	return b.IntersectsSphere(q.center, q.radius)
}

// query appends every occupied max-depth cell intersecting q to out, each exactly once.
func (t *tree[T]) query(q queryShape, out []CellCode) []CellCode {
	if len(t.nodes) == 0 || q.empty() {
		return out
	}
	return t.queryNode(&q, 0, 0, out)
}

func (t *tree[T]) queryNode(q *queryShape, code uint64, depth int, out []CellCode) []CellCode {
	m, ok := t.nodes[nodeKey(t.dims, code, depth)]
	if !ok {
		return out
	}
	if !q.intersects(t.bounds(code, depth, true)) {
		return out
	}
	if depth == t.cfg.MaxDepth {
		return append(out, CellCode(code))
	}
	fanout := 1 << uint(t.dims)
	for i := 0; i < fanout; i++ {
		if m.childMask&(1<<uint(i)) != 0 {
			out = t.queryNode(q, code<<uint(t.dims)|uint64(i), depth+1, out)
		}
	}
	return out
}

func (t *tree[T]) queryRadius(center mgl32.Vec3, radius float32, out []CellCode) []CellCode {
	singleRadiusQueries.Inc()
	return t.query(sphereShape(center, radius), out)
}

func (t *tree[T]) queryRegion(box AABB, out []CellCode) []CellCode {
	singleRegionQueries.Inc()
	return t.query(boxShape(box), out)
}

// gather appends the payloads of cells to out.
func (t *tree[T]) gather(cells []CellCode, out []T) []T {
	for _, c := range cells {
		out = append(out, t.buckets[c]...)
	}
	return out
}

// queryBufs 单次查询的临时缓冲，经 sync.Pool 复用以降低 GC 压力
type queryBufs struct {
	cells []CellCode
}

const cellsBufCap = 256

func newQueryBufs() *queryBufs {
	return &queryBufs{cells: make([]CellCode, 0, cellsBufCap)}
}

func (b *queryBufs) reset() {
	b.cells = b.cells[:0]
}
