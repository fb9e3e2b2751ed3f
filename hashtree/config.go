package hashtree

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// ErrTypeInvalidConfig is the error type returned for unusable configurations.
	ErrTypeInvalidConfig = "hashtree_invalid_config"
	// ErrTypeDisposed is the error type of the panic raised when mutating a disposed tree.
	ErrTypeDisposed = "hashtree_disposed"
	// ErrTypeBatchMismatch is the error type of the panic raised when batch inputs differ in length.
	ErrTypeBatchMismatch = "hashtree_batch_mismatch"
)

const (
	// MaxDepth2D is the deepest quadtree level whose node keys fit in 64 bits.
	MaxDepth2D = 31
	// MaxDepth3D is the deepest octree level whose node keys fit in 64 bits.
	MaxDepth3D = 21
)

// Allocator selects how long bucket storage is kept around.
type Allocator uint8

const (
	// AllocTemp drops bucket slices as soon as they empty.
	AllocTemp Allocator = iota
	// AllocPersistent recycles emptied bucket slices through a pool.
	AllocPersistent
)

func (a Allocator) String() string {
	switch a {
	case AllocTemp:
		return "temp"
	case AllocPersistent:
		return "persistent"
	default:
		return "unknown"
	}
}

// Config holds tree parameters. Quadtrees ignore the z components of Origin and Scale.
type Config struct {
	Allocator       Allocator  // bucket storage lifetime, default AllocPersistent
	InitialCapacity int        // expected number of occupied cells, default 64
	BucketCapacity  int        // initial capacity of a new bucket, default 4
	MaxDepth        int        // bucketing depth, 1..MaxDepth2D or 1..MaxDepth3D
	Origin          mgl32.Vec3 // min corner of the indexed region
	Scale           mgl32.Vec3 // extent of the indexed region per axis, must be > 0
}

// DefaultConfig returns the default configuration: the unit square/cube at depth 8.
func DefaultConfig() Config {
	return Config{
		Allocator:       AllocPersistent,
		InitialCapacity: 64,
		BucketCapacity:  4,
		MaxDepth:        8,
		Scale:           mgl32.Vec3{1, 1, 1},
	}
}

// Validate checks c for a tree with dims axes and normalises the capacity hints.
// Depth, origin and scale are never defaulted: a bad value there would corrupt every cell code.
func (c *Config) Validate(dims int) error {
	limit := MaxDepth3D
	if dims == 2 {
		limit = MaxDepth2D
	}
	if c.MaxDepth < 1 || c.MaxDepth > limit {
		return errors.New("max depth out of range").
			WithType(ErrTypeInvalidConfig).
			WithTag("max_depth", c.MaxDepth).
			WithTag("limit", limit)
	}
	for a := 0; a < dims; a++ {
		s := float64(c.Scale[a])
		if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
			return errors.New("scale must be positive and finite").
				WithType(ErrTypeInvalidConfig).
				WithTag("axis", a).
				WithTag("scale", c.Scale[a])
		}
		o := float64(c.Origin[a])
		if math.IsNaN(o) || math.IsInf(o, 0) {
			return errors.New("origin must be finite").
				WithType(ErrTypeInvalidConfig).
				WithTag("axis", a)
		}
	}
	if c.Allocator != AllocTemp && c.Allocator != AllocPersistent {
		return errors.New("unknown allocator").
			WithType(ErrTypeInvalidConfig).
			WithTag("allocator", int(c.Allocator))
	}
	if c.InitialCapacity < 0 {
		c.InitialCapacity = 0
	}
	if c.BucketCapacity <= 0 {
		c.BucketCapacity = 4
	}
	return nil
}
