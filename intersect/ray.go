package intersect

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line. Direction need not be normalised.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns Origin + Direction*t.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Slab returns the parametric entry and exit of r through b.
// ok is false when the ray misses b or b lies entirely behind the origin.
func (r Ray) Slab(b AABB) (tmin, tmax float32, ok bool) {
	tmin, tmax = -inf, inf
	for a := 0; a < 3; a++ {
		o, d := r.Origin[a], r.Direction[a]
		if d == 0 {
			if o < b.Min[a] || o > b.Max[a] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (b.Min[a] - o) * inv
		t2 := (b.Max[a] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, 0, false
		}
	}
	if tmax < 0 {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// IntersectAABB tests r against box and records entry and exit points for shape.
// A ray starting inside the box only records its exit point.
func IntersectAABB[S any](r Ray, box AABB, shape S) (Hit[S], bool) {
	tmin, tmax, ok := r.Slab(box)
	if !ok {
		return Hit[S]{Shape: shape}, false
	}
	if tmin <= 0 {
		return NewHit(shape, r.At(tmax)), true
	}
	return NewHit(shape, r.At(tmin), r.At(tmax)), true
}

// IntersectSphere tests r against the sphere (center, radius). 2D callers pass circles with z = 0.
func IntersectSphere[S any](r Ray, center mgl32.Vec3, radius float32, shape S) (Hit[S], bool) {
	a := r.Direction.Dot(r.Direction)
	if a == 0 || radius < 0 {
		return Hit[S]{Shape: shape}, false
	}
	oc := r.Origin.Sub(center)
	b := 2 * r.Direction.Dot(oc)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return Hit[S]{Shape: shape}, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t1 < 0 {
		return Hit[S]{Shape: shape}, false
	}
	if t0 < 0 {
		return NewHit(shape, r.At(t1)), true
	}
	return NewHit(shape, r.At(t0), r.At(t1)), true
}
