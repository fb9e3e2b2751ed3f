// Package hashtree provides hashed quadtrees and octrees for point-located payloads.
//
// The tree is implicit: payloads are filed in buckets keyed by the Morton code of their
// cell at the maximum depth, and a flat table keeps metadata only for non-empty nodes.
// Children and parents are derived from a node's code by shifting, so there are no
// per-node allocations.
//
// Quick start:
//
//	cfg := hashtree.DefaultConfig()
//	cfg.MaxDepth = 6
//	cfg.Origin = mgl32.Vec3{-100, -100, 0}
//	cfg.Scale = mgl32.Vec3{200, 200, 0}
//	qt := hashtree.MustNewQuadtree[uint32](cfg)
//	qt.Insert(mgl32.Vec2{1, 2}, 42)
//	cells := qt.QueryRadius(mgl32.Vec2{0, 0}, 5, nil)
//
// Batched queries fan out over a jobs.Scheduler and merge into a cellset.Set:
//
//	s := jobs.NewScheduler(0, 0)
//	result := cellset.New(1024)
//	h := qt.ScheduleRadiusBatch(s, centers, radii, result, hashtree.BatchOptions{}, jobs.Handle{})
//	h.Complete()
//
// Mutations (Insert, Remove, Update, Clear, Dispose) must not run while a query
// scheduled against the same tree is outstanding. The tree does not lock.
package hashtree
