// Package jobs schedules small units of work on a fixed pool of resident workers.
//
// Work is expressed as a graph: Schedule takes the Handle of the work it must wait for
// and returns a Handle for the newly scheduled work. Handle.Complete is the only call
// that blocks. There is no cancellation; once scheduled, work runs to completion.
package jobs

import "sync/atomic"

// Handle represents scheduled work. The zero Handle is already complete.
type Handle struct {
	done <-chan struct{}
}

// Complete blocks until the work behind h and everything it depended on has finished.
func (h Handle) Complete() {
	if h.done != nil {
		<-h.done
	}
}

// IsCompleted reports whether h has finished without blocking.
func (h Handle) IsCompleted() bool {
	if h.done == nil {
		return true
	}
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when h completes, for use in select.
// It is nil for the zero Handle.
func (h Handle) Done() <-chan struct{} {
	return h.done
}

// Combine returns a Handle that completes once every handle in hs has completed.
func Combine(hs ...Handle) Handle {
	pending := make([]Handle, 0, len(hs))
	for _, h := range hs {
		if !h.IsCompleted() {
			pending = append(pending, h)
		}
	}
	switch len(pending) {
	case 0:
		return Handle{}
	case 1:
		return pending[0]
	}
	done := make(chan struct{})
	go func() {
		for _, h := range pending {
			h.Complete()
		}
		close(done)
	}()
	return Handle{done: done}
}

// group tracks the outstanding units of one Schedule call.
type group struct {
	pending atomic.Int64
	done    chan struct{}
}

func newGroup(units int) *group {
	g := &group{done: make(chan struct{})}
	g.pending.Store(int64(units))
	return g
}

func (g *group) finish() {
	if g.pending.Add(-1) == 0 {
		close(g.done)
	}
}

func (g *group) handle() Handle {
	return Handle{done: g.done}
}
