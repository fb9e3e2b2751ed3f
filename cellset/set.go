// Package cellset provides a lock-striped set of cell codes that many goroutines
// can insert into at once. Batched tree queries merge their per-shape results into it.
package cellset

import (
	"runtime"
	"sync"

	"golang.org/x/sys/cpu"
)

const defaultShards = 32

// shard 独立加锁的分段，尾部填充到缓存行避免伪共享
type shard struct {
	mu    sync.Mutex
	items map[uint64]struct{}
	_     cpu.CacheLinePad
}

// Set is a concurrency-safe set of uint64 cell codes. The zero value is not usable; call New.
type Set struct {
	shards []shard
	mask   uint64
}

// New creates a set with capacity hint spread across shards.
// The shard count is the next power of two >= max(32, 4*NumCPU).
func New(capacity int) *Set {
	n := nextPow2(max(defaultShards, 4*runtime.NumCPU()))
	s := &Set{
		shards: make([]shard, n),
		mask:   uint64(n - 1),
	}
	per := capacity / n
	for i := range s.shards {
		s.shards[i].items = make(map[uint64]struct{}, per)
	}
	return s
}

func (s *Set) shardFor(code uint64) *shard {
	// fibonacci hashing spreads neighbouring morton codes across shards
	h := code * 0x9E3779B97F4A7C15
	return &s.shards[(h>>32)&s.mask]
}

// Add inserts code. Returns false if it was already present; duplicates are not errors.
func (s *Set) Add(code uint64) bool {
	sh := s.shardFor(code)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.items[code]; ok {
		return false
	}
	sh.items[code] = struct{}{}
	return true
}

// AddAll inserts every code in codes.
func (s *Set) AddAll(codes []uint64) {
	for _, c := range codes {
		s.Add(c)
	}
}

// Contains reports whether code is in the set.
func (s *Set) Contains(code uint64) bool {
	sh := s.shardFor(code)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, ok := sh.items[code]
	return ok
}

// Len returns the number of codes. Concurrent writers make the result approximate.
func (s *Set) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.items)
		sh.mu.Unlock()
	}
	return n
}

// AppendTo appends every code to dst in unspecified order.
func (s *Set) AppendTo(dst []uint64) []uint64 {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for c := range sh.items {
			dst = append(dst, c)
		}
		sh.mu.Unlock()
	}
	return dst
}

// Slice returns the codes as a new slice.
func (s *Set) Slice() []uint64 {
	return s.AppendTo(make([]uint64, 0, s.Len()))
}

// ForEach calls fn for each code until fn returns false. fn must not call back into s.
func (s *Set) ForEach(fn func(code uint64) bool) {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for c := range sh.items {
			if !fn(c) {
				sh.mu.Unlock()
				return
			}
		}
		sh.mu.Unlock()
	}
}

// Clear removes all codes, keeping allocated shard storage.
func (s *Set) Clear() {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		clear(sh.items)
		sh.mu.Unlock()
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
