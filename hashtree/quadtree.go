package hashtree

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ic-timon/hashtree/cellset"
	"github.com/ic-timon/hashtree/intersect"
	"github.com/ic-timon/hashtree/jobs"
)

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min mgl32.Vec2
	Max mgl32.Vec2
}

// AABB returns r as a flat box with z = 0.
func (r Rect) AABB() AABB {
	return AABB{Min: r.Min.Vec3(0), Max: r.Max.Vec3(0)}
}

// Quadtree is a hashed quadtree over the rectangle [Origin, Origin+Scale] (x and y only).
type Quadtree[T comparable] struct {
	tree[T]
}

// NewQuadtree creates an empty quadtree. It fails on a depth outside 1..MaxDepth2D or a
// non-positive scale.
func NewQuadtree[T comparable](cfg Config) (*Quadtree[T], error) {
	q := &Quadtree[T]{}
	if err := q.init(2, cfg); err != nil {
		return nil, err
	}
	return q, nil
}

// MustNewQuadtree is like NewQuadtree but panics on an invalid configuration.
func MustNewQuadtree[T comparable](cfg Config) *Quadtree[T] {
	q, err := NewQuadtree[T](cfg)
	if err != nil {
		panic(err)
	}
	return q
}

// Insert files v under the cell of p. Duplicates are allowed.
func (q *Quadtree[T]) Insert(p mgl32.Vec2, v T) {
	q.insert(p.Vec3(0), v)
}

// Remove deletes the first v filed under the cell of p. Returns false if there is none.
func (q *Quadtree[T]) Remove(p mgl32.Vec2, v T) bool {
	return q.remove(p.Vec3(0), v)
}

// Update moves v from the cell of oldP to the cell of newP. Returns false, and inserts
// nothing, if v is not filed under oldP.
func (q *Quadtree[T]) Update(v T, oldP, newP mgl32.Vec2) bool {
	return q.update(v, oldP.Vec3(0), newP.Vec3(0))
}

// GetCellCoordinates returns the integer cell coordinates of p at max depth.
func (q *Quadtree[T]) GetCellCoordinates(p mgl32.Vec2) CellCoord {
	return q.cellCoordinates(p.Vec3(0))
}

// CellCode returns the cell code of p at max depth.
func (q *Quadtree[T]) CellCode(p mgl32.Vec2) CellCode {
	return CellCode(encode(2, q.cellCoordinates(p.Vec3(0))))
}

// QueryRadius appends every occupied cell touching the circle to out.
func (q *Quadtree[T]) QueryRadius(center mgl32.Vec2, radius float32, out []CellCode) []CellCode {
	return q.queryRadius(center.Vec3(0), radius, out)
}

// QueryRegion appends every occupied cell touching r to out.
func (q *Quadtree[T]) QueryRegion(r Rect, out []CellCode) []CellCode {
	return q.queryRegion(r.AABB(), out)
}

// PayloadsInRadius appends the payloads of the cells QueryRadius finds. They are
// broadphase candidates.
func (q *Quadtree[T]) PayloadsInRadius(center mgl32.Vec2, radius float32, out []T) []T {
	bufs := bufsPool.Get().(*queryBufs)
	defer releaseBufs(bufs)
	bufs.cells = q.queryRadius(center.Vec3(0), radius, bufs.cells[:0])
	return q.gather(bufs.cells, out)
}

// PayloadsInRegion appends the payloads of the cells QueryRegion finds.
func (q *Quadtree[T]) PayloadsInRegion(r Rect, out []T) []T {
	bufs := bufsPool.Get().(*queryBufs)
	defer releaseBufs(bufs)
	bufs.cells = q.queryRegion(r.AABB(), bufs.cells[:0])
	return q.gather(bufs.cells, out)
}

// Raycast appends hits for the occupied cells the ray enters, nearest first.
// Hit points have z = 0.
func (q *Quadtree[T]) Raycast(origin, direction mgl32.Vec2, maxDistance float32, hits []intersect.Hit[CellCode]) []intersect.Hit[CellCode] {
	r := intersect.Ray{Origin: origin.Vec3(0), Direction: direction.Vec3(0)}
	return q.raycast(r, maxDistance, hits)
}

// ScheduleRadiusBatch schedules one circle query per (centers[i], radii[i]) after dep and
// merges every cell found into result. A nil scheduler runs the batch inline.
func (q *Quadtree[T]) ScheduleRadiusBatch(s *jobs.Scheduler, centers []mgl32.Vec2, radii []float32, result *cellset.Set, opts BatchOptions, dep jobs.Handle) jobs.Handle {
	if len(centers) != len(radii) {
		panic(mismatch("centers/radii", len(centers), len(radii)))
	}
	return q.scheduleBatch(s, shapeSphere, len(centers), func(i int) queryShape {
		return sphereShape(centers[i].Vec3(0), radii[i])
	}, result, opts, dep)
}

// ScheduleRegionBatch schedules one rectangle query per rects[i] after dep.
func (q *Quadtree[T]) ScheduleRegionBatch(s *jobs.Scheduler, rects []Rect, result *cellset.Set, opts BatchOptions, dep jobs.Handle) jobs.Handle {
	return q.scheduleBatch(s, shapeBox, len(rects), func(i int) queryShape {
		return boxShape(rects[i].AABB())
	}, result, opts, dep)
}

// QueryRadiusBatch runs ScheduleRadiusBatch and waits for it.
func (q *Quadtree[T]) QueryRadiusBatch(s *jobs.Scheduler, centers []mgl32.Vec2, radii []float32, result *cellset.Set, opts BatchOptions) {
	q.ScheduleRadiusBatch(s, centers, radii, result, opts, jobs.Handle{}).Complete()
}

// QueryRegionBatch runs ScheduleRegionBatch and waits for it.
func (q *Quadtree[T]) QueryRegionBatch(s *jobs.Scheduler, rects []Rect, result *cellset.Set, opts BatchOptions) {
	q.ScheduleRegionBatch(s, rects, result, opts, jobs.Handle{}).Complete()
}
