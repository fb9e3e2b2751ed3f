package hashtree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ic-timon/hashtree/intersect"
	"github.com/ic-timon/hashtree/sortutil"
)

// AABB is an axis-aligned box; quadtrees use z = 0.
type AABB = intersect.AABB

// tree is the dimension-agnostic core shared by Quadtree and Octree.
// Positions are mgl32.Vec3; a quadtree only reads x and y.
type tree[T comparable] struct {
	cfg       Config
	dims      int
	side      uint32 // cells per axis at max depth
	childBits uint64 // mask selecting a child index from a code
	buckets   map[CellCode][]T
	nodes     map[uint64]nodeMeta
	pool      *bucketPool[T]
	count     int
	created   bool
}

func (t *tree[T]) init(dims int, cfg Config) error {
	if err := cfg.Validate(dims); err != nil {
		return err
	}
	t.cfg = cfg
	t.dims = dims
	t.side = 1 << uint(cfg.MaxDepth)
	t.childBits = 1<<uint(dims) - 1
	t.buckets = make(map[CellCode][]T, cfg.InitialCapacity)
	t.nodes = make(map[uint64]nodeMeta, cfg.InitialCapacity*2)
	if cfg.Allocator == AllocPersistent {
		t.pool = newBucketPool[T](cfg.BucketCapacity)
	}
	t.created = true

	logs.WithTag("dims", dims).
		WithTag("max_depth", cfg.MaxDepth).
		WithTag("allocator", cfg.Allocator.String()).
		Debug("hash tree created")
	return nil
}

// Config returns the configuration the tree was created with.
func (t *tree[T]) Config() Config {
	return t.cfg
}

// Dims returns 2 for a quadtree and 3 for an octree.
func (t *tree[T]) Dims() int {
	return t.dims
}

// Count returns the number of live payloads.
func (t *tree[T]) Count() int {
	return t.count
}

// IsCreated reports whether the tree holds storage, i.e. it was created and not disposed.
func (t *tree[T]) IsCreated() bool {
	return t.created
}

func (t *tree[T]) mustBeCreated() {
	if !t.created {
		panic(errors.New("tree is disposed").WithType(ErrTypeDisposed))
	}
}

func (t *tree[T]) insert(p mgl32.Vec3, v T) {
	t.mustBeCreated()
	code := encode(t.dims, t.cellCoordinates(p))
	t.insertCode(CellCode(code), v)
}

func (t *tree[T]) insertCode(code CellCode, v T) {
	b, ok := t.buckets[code]
	if !ok && t.pool != nil {
		b = t.pool.Get()
	}
	t.buckets[code] = append(b, v)
	t.link(uint64(code))
	t.count++
}

func (t *tree[T]) remove(p mgl32.Vec3, v T) bool {
	t.mustBeCreated()
	code := CellCode(encode(t.dims, t.cellCoordinates(p)))
	return t.removeCode(code, v)
}

// removeCode deletes the first v in the bucket, keeping the order of the rest.
func (t *tree[T]) removeCode(code CellCode, v T) bool {
	b, ok := t.buckets[code]
	if !ok {
		return false
	}
	i := indexOf(b, v)
	if i < 0 {
		return false
	}
	copy(b[i:], b[i+1:])
	var zero T
	b[len(b)-1] = zero
	b = b[:len(b)-1]
	if len(b) == 0 {
		delete(t.buckets, code)
		if t.pool != nil {
			t.pool.Put(b)
		}
	} else {
		t.buckets[code] = b
	}
	t.unlink(uint64(code))
	t.count--
	return true
}

func (t *tree[T]) update(v T, oldP, newP mgl32.Vec3) bool {
	t.mustBeCreated()
	oldCode := CellCode(encode(t.dims, t.cellCoordinates(oldP)))
	newCode := CellCode(encode(t.dims, t.cellCoordinates(newP)))
	if oldCode == newCode {
		return indexOf(t.buckets[oldCode], v) >= 0
	}
	if !t.removeCode(oldCode, v) {
		return false
	}
	t.insertCode(newCode, v)
	return true
}

func indexOf[T comparable](b []T, v T) int {
	for i := range b {
		if b[i] == v {
			return i
		}
	}
	return -1
}

// Clear removes every payload, keeping the configuration and pooled storage.
func (t *tree[T]) Clear() {
	t.mustBeCreated()
	if t.pool != nil {
		for _, b := range t.buckets {
			t.pool.Put(b)
		}
	}
	clear(t.buckets)
	clear(t.nodes)
	t.count = 0
}

// Dispose releases all storage. The tree cannot be mutated afterwards; queries return nothing.
func (t *tree[T]) Dispose() {
	if !t.created {
		return
	}
	if t.pool != nil {
		t.pool.Close()
		t.pool = nil
	}
	t.buckets = nil
	t.nodes = nil
	t.count = 0
	t.created = false
	logs.WithTag("dims", t.dims).Debug("hash tree disposed")
}

// Bucket returns the payloads filed under code. The slice is owned by the tree and
// must not be modified or retained across mutations.
func (t *tree[T]) Bucket(code CellCode) []T {
	return t.buckets[code]
}

// Buckets returns the live cell code to payloads multi-map for external iteration.
// It is read-only by contract.
func (t *tree[T]) Buckets() map[CellCode][]T {
	return t.buckets
}

// ForEachBucket calls fn for each occupied cell until fn returns false.
func (t *tree[T]) ForEachBucket(fn func(code CellCode, payloads []T) bool) {
	for code, b := range t.buckets {
		if !fn(code, b) {
			return
		}
	}
}

// Cells appends the codes of all occupied cells to dst.
func (t *tree[T]) Cells(dst []CellCode) []CellCode {
	for code := range t.buckets {
		dst = append(dst, code)
	}
	return dst
}

// SortBucket orders the bucket of code in place with insertion sort.
func (t *tree[T]) SortBucket(code CellCode, cmp sortutil.Comparer[T]) {
	if b := t.buckets[code]; len(b) > 1 {
		sortutil.InsertionSort(b, 0, len(b), cmp)
	}
}

// SortBuckets orders every bucket in place with insertion sort.
func (t *tree[T]) SortBuckets(cmp sortutil.Comparer[T]) {
	for _, b := range t.buckets {
		if len(b) > 1 {
			sortutil.InsertionSort(b, 0, len(b), cmp)
		}
	}
}

// DecodeCell returns the integer coordinates of a max-depth cell code.
func (t *tree[T]) DecodeCell(code CellCode) CellCoord {
	return decode(t.dims, uint64(code))
}

// EncodeCell returns the cell code of integer coordinates at max depth.
func (t *tree[T]) EncodeCell(cc CellCoord) CellCode {
	return CellCode(encode(t.dims, cc))
}
