// Package intersect tests rays against bounding volumes and ranks the resulting hits
// by distance from the ray origin.
package intersect

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box. 2D callers leave the z components at zero.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// BoxAround returns the box of half-extent r around c.
func BoxAround(c mgl32.Vec3, r float32) AABB {
	ext := mgl32.Vec3{r, r, r}
	return AABB{Min: c.Sub(ext), Max: c.Add(ext)}
}

// Valid reports whether Min <= Max on every axis.
func (b AABB) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Center returns the box centre.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extent per axis.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside or on the boundary of b.
func (b AABB) Contains(p mgl32.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Intersects reports whether b and o overlap. Touching boxes overlap.
func (b AABB) Intersects(o AABB) bool {
	return b.Max[0] >= o.Min[0] && b.Min[0] <= o.Max[0] &&
		b.Max[1] >= o.Min[1] && b.Min[1] <= o.Max[1] &&
		b.Max[2] >= o.Min[2] && b.Min[2] <= o.Max[2]
}

// ClosestPoint clamps p into b.
func (b AABB) ClosestPoint(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		mgl32.Clamp(p[0], b.Min[0], b.Max[0]),
		mgl32.Clamp(p[1], b.Min[1], b.Max[1]),
		mgl32.Clamp(p[2], b.Min[2], b.Max[2]),
	}
}

// DistanceSq returns the squared distance from p to b, zero when p is inside.
func (b AABB) DistanceSq(p mgl32.Vec3) float32 {
	return DistanceSq(p, b.ClosestPoint(p))
}

// IntersectsSphere reports whether the sphere (or circle, with z = 0) touches b.
func (b AABB) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	if radius < 0 {
		return false
	}
	return b.DistanceSq(center) <= radius*radius
}

// DistanceSq returns the squared euclidean distance between a and b.
func DistanceSq(a, b mgl32.Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}

var inf = float32(math.Inf(1))
