package hashtree

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ic-timon/hashtree/cellset"
	"github.com/ic-timon/hashtree/intersect"
	"github.com/ic-timon/hashtree/jobs"
)

// Octree is a hashed octree over the box [Origin, Origin+Scale].
type Octree[T comparable] struct {
	tree[T]
}

// NewOctree creates an empty octree. It fails on a depth outside 1..MaxDepth3D or a
// non-positive scale.
func NewOctree[T comparable](cfg Config) (*Octree[T], error) {
	o := &Octree[T]{}
	if err := o.init(3, cfg); err != nil {
		return nil, err
	}
	return o, nil
}

// MustNewOctree is like NewOctree but panics on an invalid configuration.
func MustNewOctree[T comparable](cfg Config) *Octree[T] {
	o, err := NewOctree[T](cfg)
	if err != nil {
		panic(err)
	}
	return o
}

// Insert files v under the cell of p. Duplicates are allowed.
func (o *Octree[T]) Insert(p mgl32.Vec3, v T) {
	o.insert(p, v)
}

// Remove deletes the first v filed under the cell of p. Returns false if there is none.
func (o *Octree[T]) Remove(p mgl32.Vec3, v T) bool {
	return o.remove(p, v)
}

// Update moves v from the cell of oldP to the cell of newP. Returns false, and inserts
// nothing, if v is not filed under oldP.
func (o *Octree[T]) Update(v T, oldP, newP mgl32.Vec3) bool {
	return o.update(v, oldP, newP)
}

// GetCellCoordinates returns the integer cell coordinates of p at max depth.
func (o *Octree[T]) GetCellCoordinates(p mgl32.Vec3) CellCoord {
	return o.cellCoordinates(p)
}

// CellCode returns the cell code of p at max depth.
func (o *Octree[T]) CellCode(p mgl32.Vec3) CellCode {
	return CellCode(encode(3, o.cellCoordinates(p)))
}

// QueryRadius appends every occupied cell touching the sphere to out.
func (o *Octree[T]) QueryRadius(center mgl32.Vec3, radius float32, out []CellCode) []CellCode {
	return o.queryRadius(center, radius, out)
}

// QueryRegion appends every occupied cell touching box to out.
func (o *Octree[T]) QueryRegion(box AABB, out []CellCode) []CellCode {
	return o.queryRegion(box, out)
}

// PayloadsInRadius appends the payloads of the cells QueryRadius finds. They are
// broadphase candidates: a payload may lie outside the sphere but inside a touching cell.
func (o *Octree[T]) PayloadsInRadius(center mgl32.Vec3, radius float32, out []T) []T {
	bufs := bufsPool.Get().(*queryBufs)
	defer releaseBufs(bufs)
	bufs.cells = o.queryRadius(center, radius, bufs.cells[:0])
	return o.gather(bufs.cells, out)
}

// PayloadsInRegion appends the payloads of the cells QueryRegion finds.
func (o *Octree[T]) PayloadsInRegion(box AABB, out []T) []T {
	bufs := bufsPool.Get().(*queryBufs)
	defer releaseBufs(bufs)
	bufs.cells = o.queryRegion(box, bufs.cells[:0])
	return o.gather(bufs.cells, out)
}

// Raycast appends hits for the occupied cells r enters, nearest first.
func (o *Octree[T]) Raycast(r intersect.Ray, maxDistance float32, hits []intersect.Hit[CellCode]) []intersect.Hit[CellCode] {
	return o.raycast(r, maxDistance, hits)
}

// ScheduleRadiusBatch schedules one sphere query per (centers[i], radii[i]) after dep and
// merges every cell found into result. A nil scheduler runs the batch inline.
func (o *Octree[T]) ScheduleRadiusBatch(s *jobs.Scheduler, centers []mgl32.Vec3, radii []float32, result *cellset.Set, opts BatchOptions, dep jobs.Handle) jobs.Handle {
	if len(centers) != len(radii) {
		panic(mismatch("centers/radii", len(centers), len(radii)))
	}
	return o.scheduleBatch(s, shapeSphere, len(centers), func(i int) queryShape {
		return sphereShape(centers[i], radii[i])
	}, result, opts, dep)
}

// ScheduleRegionBatch schedules one box query per boxes[i] after dep.
func (o *Octree[T]) ScheduleRegionBatch(s *jobs.Scheduler, boxes []AABB, result *cellset.Set, opts BatchOptions, dep jobs.Handle) jobs.Handle {
	return o.scheduleBatch(s, shapeBox, len(boxes), func(i int) queryShape {
		return boxShape(boxes[i])
	}, result, opts, dep)
}

// QueryRadiusBatch runs ScheduleRadiusBatch and waits for it.
func (o *Octree[T]) QueryRadiusBatch(s *jobs.Scheduler, centers []mgl32.Vec3, radii []float32, result *cellset.Set, opts BatchOptions) {
	o.ScheduleRadiusBatch(s, centers, radii, result, opts, jobs.Handle{}).Complete()
}

// QueryRegionBatch runs ScheduleRegionBatch and waits for it.
func (o *Octree[T]) QueryRegionBatch(s *jobs.Scheduler, boxes []AABB, result *cellset.Set, opts BatchOptions) {
	o.ScheduleRegionBatch(s, boxes, result, opts, jobs.Handle{}).Complete()
}
