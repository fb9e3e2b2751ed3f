package hashtree

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ic-timon/hashtree/cellset"
	"github.com/ic-timon/hashtree/jobs"
)

// DefaultBatchGrain is the number of queries per scheduled unit. Single queries vary
// widely in cost, so small units balance better than large chunks.
const DefaultBatchGrain = 1

// BatchOptions tunes batched queries. They never change the result.
type BatchOptions struct {
	Grain   int  // queries per unit, default DefaultBatchGrain
	Presort bool // order queries by the cell code of their centre before scheduling
}

// OrDefault returns o with unset fields filled in.
func (o BatchOptions) OrDefault() BatchOptions {
	if o.Grain <= 0 {
		o.Grain = DefaultBatchGrain
	}
	return o
}

var bufsPool = sync.Pool{
	New: func() interface{} { return newQueryBufs() },
}

// releaseBufs 清空后归还，池中的缓冲不得携带上一次查询的结果
func releaseBufs(b *queryBufs) {
	b.reset()
	bufsPool.Put(b)
}

// scheduleBatch schedules n independent queries whose union lands in result.
// shapeAt must be safe to call from any goroutine.
func (t *tree[T]) scheduleBatch(s *jobs.Scheduler, kind shapeKind, n int, shapeAt func(i int) queryShape, result *cellset.Set, opts BatchOptions, dep jobs.Handle) jobs.Handle {
	opts = opts.OrDefault()
	if n == 0 {
		return dep
	}
	instrumentBatch(kind, n)
	start := time.Now()

	var order []int
	if opts.Presort {
		order = t.presort(n, shapeAt)
	}

	h := s.Schedule(dep, n, opts.Grain, func(i int) {
		if order != nil {
			i = order[i]
		}
		bufs := bufsPool.Get().(*queryBufs)
		bufs.cells = t.query(shapeAt(i), bufs.cells[:0])
		for _, c := range bufs.cells {
			result.Add(uint64(c))
		}
		releaseBufs(bufs)
	})
	return s.Run(h, func() {
		batchDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
	})
}

// presort returns query indices ordered by the leaf code of each query's centre so that
// consecutive units walk neighbouring parts of the tree.
func (t *tree[T]) presort(n int, shapeAt func(i int) queryShape) []int {
	codes := make([]uint64, n)
	order := make([]int, n)
	for i := 0; i < n; i++ {
		q := shapeAt(i)
		c := q.center
		if q.kind == shapeBox {
			c = q.box.Center()
		}
		codes[i] = t.centerCode(c)
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Compare(codes[a], codes[b])
	})
	return order
}

func mismatch(what string, a, b int) error {
	return errors.New("batch inputs differ in length").
		WithType(ErrTypeBatchMismatch).
		WithTag("inputs", what).
		WithTag("len_a", a).
		WithTag("len_b", b)
}
