package jobs

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// ErrTypeSchedulerClosed is the error type of the panic raised when scheduling on a closed Scheduler.
const ErrTypeSchedulerClosed = "scheduler_closed"

// DefaultQueueSize is the unit queue length used when NewScheduler gets queueSize <= 0.
const DefaultQueueSize = 256

// unit 一次 Schedule 调用中的连续下标区间 [begin, end)
type unit struct {
	fn    func(i int)
	begin int
	end   int
	group *group
}

// Scheduler runs work units on a fixed set of resident workers.
//
// A nil *Scheduler is valid and runs everything inline on the calling goroutine.
type Scheduler struct {
	units       chan unit
	workers     int
	wg          sync.WaitGroup
	dispatchers sync.WaitGroup
	mu          sync.Mutex // guards closed and dispatchers.Add against Close
	closed      bool
	closeOnce   sync.Once
}

// NewScheduler starts workers goroutines (runtime.NumCPU when <= 0) sharing a queue
// of queueSize units.
func NewScheduler(workers, queueSize int) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	s := &Scheduler{
		units:   make(chan unit, queueSize),
		workers: workers,
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	logs.WithTag("workers", workers).
		WithTag("queue_size", queueSize).
		Debug("job scheduler started")
	return s
}

// Workers returns the number of worker goroutines, 0 for the inline scheduler.
func (s *Scheduler) Workers() int {
	if s == nil {
		return 0
	}
	return s.workers
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for u := range s.units {
		run(u)
	}
}

func run(u unit) {
	defer u.group.finish()
	for i := u.begin; i < u.end; i++ {
		call(u.fn, i)
	}
}

// call 单个下标的 panic 只跳过该下标，同一 unit 的其余下标照常执行
func call(fn func(i int), i int) {
	defer func() {
		if r := recover(); r != nil {
			logs.Error(errors.New("job unit panicked").
				WithTag("panic", fmt.Sprint(r)).
				WithTag("index", i))
		}
	}()
	fn(i)
}

// Schedule runs fn(i) for every i in [0, n) once dep has completed, grouping grain
// consecutive indices per unit (grain <= 0 means 1). It never blocks the caller.
// The returned Handle completes when every unit has run.
func (s *Scheduler) Schedule(dep Handle, n, grain int, fn func(i int)) Handle {
	if grain <= 0 {
		grain = 1
	}
	if n <= 0 {
		return dep
	}
	units := (n + grain - 1) / grain
	g := newGroup(units)

	if s == nil {
		dep.Complete()
		for b := 0; b < n; b += grain {
			run(unit{fn: fn, begin: b, end: min(b+grain, n), group: g})
		}
		return g.handle()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		panic(errors.New("schedule on closed scheduler").WithType(ErrTypeSchedulerClosed))
	}
	s.dispatchers.Add(1)
	s.mu.Unlock()
	go func() {
		defer s.dispatchers.Done()
		dep.Complete()
		for b := 0; b < n; b += grain {
			s.units <- unit{fn: fn, begin: b, end: min(b+grain, n), group: g}
		}
	}()
	return g.handle()
}

// Run schedules a single unit calling fn after dep.
func (s *Scheduler) Run(dep Handle, fn func()) Handle {
	return s.Schedule(dep, 1, 1, func(int) { fn() })
}

// Close waits for every scheduled unit to be dispatched and run, then stops the workers.
// Scheduling after Close panics.
func (s *Scheduler) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.dispatchers.Wait()
		close(s.units)
		s.wg.Wait()
		logs.WithTag("workers", s.workers).Debug("job scheduler stopped")
	})
}
