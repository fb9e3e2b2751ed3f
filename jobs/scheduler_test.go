package jobs

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestScheduleRunsEveryIndexOnce(t *testing.T) {
	s := NewScheduler(4, 8)
	defer s.Close()

	for _, grain := range []int{0, 1, 3, 64, 1000} {
		const n = 257
		var hits [n]atomic.Int32
		h := s.Schedule(Handle{}, n, grain, func(i int) {
			hits[i].Add(1)
		})
		h.Complete()
		require.True(t, h.IsCompleted())
		for i := range hits {
			require.Equal(t, int32(1), hits[i].Load(), "grain %d index %d", grain, i)
		}
	}
}

func TestScheduleWaitsForDependency(t *testing.T) {
	s := NewScheduler(2, 0)
	defer s.Close()

	var order []string
	var step atomic.Int32
	release := make(chan struct{})

	first := s.Run(Handle{}, func() {
		<-release
		step.Store(1)
		order = append(order, "first")
	})
	var seen int32
	second := s.Run(first, func() {
		seen = step.Load()
		order = append(order, "second")
	})

	time.Sleep(10 * time.Millisecond)
	require.False(t, second.IsCompleted())

	close(release)
	second.Complete()
	require.Equal(t, int32(1), seen)
	require.Equal(t, []string{"first", "second"}, order)
}

func TestCombine(t *testing.T) {
	s := NewScheduler(2, 0)
	defer s.Close()

	require.True(t, Combine().IsCompleted())
	require.True(t, Combine(Handle{}, Handle{}).IsCompleted())

	var n atomic.Int32
	a := s.Schedule(Handle{}, 10, 1, func(int) { n.Add(1) })
	b := s.Schedule(Handle{}, 5, 2, func(int) { n.Add(1) })
	var seen int32
	c := s.Run(Combine(a, b), func() {
		seen = n.Load()
	})
	c.Complete()
	require.Equal(t, int32(15), seen)
}

func TestEmptyScheduleReturnsDependency(t *testing.T) {
	s := NewScheduler(1, 0)
	defer s.Close()

	release := make(chan struct{})
	dep := s.Run(Handle{}, func() { <-release })
	h := s.Schedule(dep, 0, 1, func(int) {})
	require.False(t, h.IsCompleted())
	close(release)
	h.Complete()
}

func TestNilSchedulerRunsInline(t *testing.T) {
	var s *Scheduler
	var sum int
	h := s.Schedule(Handle{}, 10, 4, func(i int) { sum += i })
	require.True(t, h.IsCompleted())
	require.Equal(t, 45, sum)
	require.Zero(t, s.Workers())
	s.Close()
}

func TestPanickingUnitStillCompletes(t *testing.T) {
	s := NewScheduler(2, 0)
	defer s.Close()

	var ran atomic.Int32
	h := s.Schedule(Handle{}, 4, 1, func(i int) {
		if i == 2 {
			panic("boom")
		}
		ran.Add(1)
	})
	h.Complete()
	require.Equal(t, int32(3), ran.Load())

	// workers survive the panic
	s.Run(Handle{}, func() { ran.Add(1) }).Complete()
	require.Equal(t, int32(4), ran.Load())
}

func TestScheduleAfterClosePanics(t *testing.T) {
	s := NewScheduler(1, 0)
	s.Close()
	s.Close()
	require.Panics(t, func() {
		s.Run(Handle{}, func() {})
	})
}

func TestPanicSkipsOnlyItsIndex(t *testing.T) {
	s := NewScheduler(2, 0)
	defer s.Close()

	for _, sched := range []*Scheduler{s, nil} {
		var hits [8]atomic.Int32
		h := sched.Schedule(Handle{}, len(hits), 4, func(i int) {
			if i == 1 {
				panic("boom")
			}
			hits[i].Add(1)
		})
		h.Complete()
		for i := range hits {
			want := int32(1)
			if i == 1 {
				want = 0
			}
			require.Equal(t, want, hits[i].Load(), "index %d", i)
		}
	}
}

func TestScheduleRacingClose(t *testing.T) {
	for round := 0; round < 50; round++ {
		s := NewScheduler(2, 1)

		var ran, rejected atomic.Int32
		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 20; i++ {
					if !scheduleOrReject(s, &ran, &rejected) {
						return
					}
				}
			}()
		}
		s.Close()
		wg.Wait()

		require.Positive(t, ran.Load()+rejected.Load())
	}
}

// scheduleOrReject schedules one unit and waits for it. It returns false once the
// scheduler rejects work as closed.
func scheduleOrReject(s *Scheduler, ran, rejected *atomic.Int32) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			err, isErr := r.(error)
			if !isErr || !errors.IsType(err, ErrTypeSchedulerClosed) {
				panic(r)
			}
			rejected.Add(1)
			ok = false
		}
	}()
	s.Run(Handle{}, func() { ran.Add(1) }).Complete()
	return true
}
