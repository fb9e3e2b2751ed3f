package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ic-timon/hashtree/hashtree"
	"github.com/ic-timon/hashtree/cellset"
	"github.com/ic-timon/hashtree/jobs"
)

// benchIndex 屏蔽四叉树与八叉树的坐标类型差异，压测统一使用 Vec3（2D 时忽略 z）
type benchIndex interface {
	Insert(p mgl32.Vec3, id uint32)
	Update(id uint32, oldP, newP mgl32.Vec3) bool
	QueryRadius(c mgl32.Vec3, r float32, out []hashtree.CellCode) []hashtree.CellCode
	ScheduleRadiusBatch(s *jobs.Scheduler, centers []mgl32.Vec3, radii []float32, result *cellset.Set, opts hashtree.BatchOptions) jobs.Handle
	Count() int
	CellCount() int
	NodeCount() int
	Dispose()
}

func newBenchIndex(dims, depth int, lo, hi float32) (benchIndex, error) {
	cfg := hashtree.DefaultConfig()
	cfg.MaxDepth = depth
	cfg.Origin = mgl32.Vec3{lo, lo, lo}
	cfg.Scale = mgl32.Vec3{hi - lo, hi - lo, hi - lo}
	if dims == 2 {
		qt, err := hashtree.NewQuadtree[uint32](cfg)
		if err != nil {
			return nil, err
		}
		return &quadIndex{qt: qt}, nil
	}
	ot, err := hashtree.NewOctree[uint32](cfg)
	if err != nil {
		return nil, err
	}
	return &octIndex{ot: ot}, nil
}

type quadIndex struct {
	qt *hashtree.Quadtree[uint32]
}

func (q *quadIndex) Insert(p mgl32.Vec3, id uint32) { q.qt.Insert(p.Vec2(), id) }

func (q *quadIndex) Update(id uint32, oldP, newP mgl32.Vec3) bool {
	return q.qt.Update(id, oldP.Vec2(), newP.Vec2())
}

func (q *quadIndex) QueryRadius(c mgl32.Vec3, r float32, out []hashtree.CellCode) []hashtree.CellCode {
	return q.qt.QueryRadius(c.Vec2(), r, out)
}

func (q *quadIndex) ScheduleRadiusBatch(s *jobs.Scheduler, centers []mgl32.Vec3, radii []float32, result *cellset.Set, opts hashtree.BatchOptions) jobs.Handle {
	flat := make([]mgl32.Vec2, len(centers))
	for i, c := range centers {
		flat[i] = c.Vec2()
	}
	return q.qt.ScheduleRadiusBatch(s, flat, radii, result, opts, jobs.Handle{})
}

func (q *quadIndex) Count() int     { return q.qt.Count() }
func (q *quadIndex) CellCount() int { return len(q.qt.Buckets()) }
func (q *quadIndex) NodeCount() int { return q.qt.NodeCount() }
func (q *quadIndex) Dispose()       { q.qt.Dispose() }

type octIndex struct {
	ot *hashtree.Octree[uint32]
}

func (o *octIndex) Insert(p mgl32.Vec3, id uint32) { o.ot.Insert(p, id) }

func (o *octIndex) Update(id uint32, oldP, newP mgl32.Vec3) bool {
	return o.ot.Update(id, oldP, newP)
}

func (o *octIndex) QueryRadius(c mgl32.Vec3, r float32, out []hashtree.CellCode) []hashtree.CellCode {
	return o.ot.QueryRadius(c, r, out)
}

func (o *octIndex) ScheduleRadiusBatch(s *jobs.Scheduler, centers []mgl32.Vec3, radii []float32, result *cellset.Set, opts hashtree.BatchOptions) jobs.Handle {
	return o.ot.ScheduleRadiusBatch(s, centers, radii, result, opts, jobs.Handle{})
}

func (o *octIndex) Count() int     { return o.ot.Count() }
func (o *octIndex) CellCount() int { return len(o.ot.Buckets()) }
func (o *octIndex) NodeCount() int { return o.ot.NodeCount() }
func (o *octIndex) Dispose()       { o.ot.Dispose() }

// build 插入全部点并返回索引
func build(dims, depth int, lo, hi float32, points []mgl32.Vec3) (benchIndex, error) {
	idx, err := newBenchIndex(dims, depth, lo, hi)
	if err != nil {
		return nil, err
	}
	for i, p := range points {
		idx.Insert(p, uint32(i))
	}
	return idx, nil
}

func constRadii(n int, r float32) []float32 {
	radii := make([]float32, n)
	for i := range radii {
		radii[i] = r
	}
	return radii
}
