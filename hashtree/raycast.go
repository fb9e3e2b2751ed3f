package hashtree

import (
	"github.com/ic-timon/hashtree/intersect"
)

// DefaultRayEpsilon is the squared-distance tolerance to pass to intersect.First and
// RayHitComparer when comparing raycast hits.
const DefaultRayEpsilon = 1e-6

// raycast appends a hit for every occupied cell the ray enters within maxDistance
// (measured in units of the ray direction length; <= 0 means unbounded), ranked nearest first.
// Hits are computed against the finite cell geometry, so positions clamped in from
// outside the region are not reported.
func (t *tree[T]) raycast(r intersect.Ray, maxDistance float32, hits []intersect.Hit[CellCode]) []intersect.Hit[CellCode] {
	if len(t.nodes) == 0 {
		return hits
	}
	start := len(hits)
	hits = t.raycastNode(&r, maxDistance, 0, 0, hits)
	intersect.Rank(hits[start:], r.Origin)
	return hits
}

func (t *tree[T]) raycastNode(r *intersect.Ray, maxDistance float32, code uint64, depth int, hits []intersect.Hit[CellCode]) []intersect.Hit[CellCode] {
	m, ok := t.nodes[nodeKey(t.dims, code, depth)]
	if !ok {
		return hits
	}
	if depth == t.cfg.MaxDepth {
		b := t.bounds(code, depth, false)
		tmin, _, ok := r.Slab(b)
		if !ok || (maxDistance > 0 && tmin > maxDistance) {
			return hits
		}
		if h, ok := intersect.IntersectAABB(*r, b, CellCode(code)); ok {
			hits = append(hits, h)
		}
		return hits
	}
	tmin, _, ok := r.Slab(t.bounds(code, depth, true))
	if !ok || (maxDistance > 0 && tmin > maxDistance) {
		return hits
	}
	fanout := 1 << uint(t.dims)
	for i := 0; i < fanout; i++ {
		if m.childMask&(1<<uint(i)) != 0 {
			hits = t.raycastNode(r, maxDistance, code<<uint(t.dims)|uint64(i), depth+1, hits)
		}
	}
	return hits
}
