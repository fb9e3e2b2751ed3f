package intersect

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ic-timon/hashtree/sortutil"
)

// MaxHitPoints is the number of points a Hit can carry (entry and exit).
const MaxHitPoints = 2

// Hit is a snapshot of one ray/shape intersection. It copies the shape value and does
// not own whatever the shape refers to.
type Hit[S any] struct {
	Shape  S
	Points [MaxHitPoints]mgl32.Vec3
	Count  int
}

// NewHit builds a hit for shape. Panics if more than MaxHitPoints points are given.
func NewHit[S any](shape S, points ...mgl32.Vec3) Hit[S] {
	if len(points) > MaxHitPoints {
		panic("intersect: too many hit points")
	}
	h := Hit[S]{Shape: shape, Count: len(points)}
	copy(h.Points[:], points)
	return h
}

// HitPoints returns the recorded points.
func (h *Hit[S]) HitPoints() []mgl32.Vec3 {
	return h.Points[:h.Count]
}

// DistanceSq returns the smallest squared distance from origin to any hit point,
// or +Inf when the hit has no points.
func (h Hit[S]) DistanceSq(origin mgl32.Vec3) float32 {
	best := inf
	for i := 0; i < h.Count && i < MaxHitPoints; i++ {
		if d := DistanceSq(origin, h.Points[i]); d < best {
			best = d
		}
	}
	return best
}

// RayHitComparer orders hits by DistanceSq from Origin. Distances within Epsilon compare equal.
type RayHitComparer[S any] struct {
	Origin  mgl32.Vec3
	Epsilon float32
}

// Compare implements sortutil.Comparer.
func (c RayHitComparer[S]) Compare(a, b Hit[S]) int {
	da := a.DistanceSq(c.Origin)
	db := b.DistanceSq(c.Origin)
	switch {
	case da == inf && db == inf:
		return 0
	case da == inf:
		return 1
	case db == inf:
		return -1
	}
	diff := da - db
	if diff < 0 {
		diff = -diff
	}
	if diff <= c.Epsilon {
		return 0
	}
	if da < db {
		return -1
	}
	return 1
}

// distanceOrder is the exact order on DistanceSq used for ranking. Unlike
// RayHitComparer it is transitive, so a chain of near-equal hits cannot hide a
// clearly nearer one behind a farther one.
type distanceOrder[S any] struct {
	origin mgl32.Vec3
}

func (o distanceOrder[S]) Compare(a, b Hit[S]) int {
	da := a.DistanceSq(o.origin)
	db := b.DistanceSq(o.origin)
	switch {
	case da < db:
		return -1
	case da > db:
		return 1
	}
	return 0
}

// Rank sorts hits in place, nearest first, by exact distance. Hits at equal distance
// keep their input order, so re-ranking a ranked list is a no-op.
func Rank[S any](hits []Hit[S], origin mgl32.Vec3) {
	sortutil.Insertion(hits, distanceOrder[S]{origin: origin})
}

// First returns the nearest hit without reordering hits.
func First[S any](hits []Hit[S], origin mgl32.Vec3, epsilon float32) (Hit[S], bool) {
	if len(hits) == 0 {
		return Hit[S]{}, false
	}
	c := RayHitComparer[S]{Origin: origin, Epsilon: epsilon}
	best := 0
	for i := 1; i < len(hits); i++ {
		if c.Compare(hits[i], hits[best]) < 0 {
			best = i
		}
	}
	return hits[best], hits[best].Count > 0
}
