package hashtree

// maxPooledBuckets caps how many empty buckets a pool keeps.
const maxPooledBuckets = 4096

// bucketPool 回收空桶切片，供 AllocPersistent 树复用。
// 只由树的唯一写者访问，不加锁
type bucketPool[T any] struct {
	free           [][]T
	bucketCapacity int
}

func newBucketPool[T any](bucketCapacity int) *bucketPool[T] {
	if bucketCapacity <= 0 {
		bucketCapacity = 4
	}
	return &bucketPool[T]{bucketCapacity: bucketCapacity}
}

// Get returns an empty bucket, reusing a recycled one when available.
func (p *bucketPool[T]) Get() []T {
	n := len(p.free)
	if n == 0 {
		return make([]T, 0, p.bucketCapacity)
	}
	b := p.free[n-1]
	p.free[n-1] = nil
	p.free = p.free[:n-1]
	return b
}

// Put hands an emptied bucket back. Its elements are zeroed so payloads can be collected.
func (p *bucketPool[T]) Put(b []T) {
	clear(b[:cap(b)])
	if len(p.free) >= maxPooledBuckets {
		return
	}
	p.free = append(p.free, b[:0])
}

// Len returns the number of pooled buckets.
func (p *bucketPool[T]) Len() int {
	return len(p.free)
}

// Close drops every pooled bucket.
func (p *bucketPool[T]) Close() {
	p.free = nil
}
