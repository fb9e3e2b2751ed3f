package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ic-timon/hashtree/hashtree"
	"github.com/ic-timon/hashtree/cellset"
	"github.com/ic-timon/hashtree/cmd/bench/metrics"
	"github.com/ic-timon/hashtree/jobs"
)

type execMode struct {
	name     string
	parallel bool
	presort  bool
}

// runStageD 执行策略：单线程 vs 并行，是否按空间局部性预排序。各模式结果集必须一致
func runStageD(ctx context.Context, conf config) (any, error) {
	const batchRuns = 20

	modes := []execMode{
		{name: "inline"},
		{name: "inline+presort", presort: true},
		{name: "parallel", parallel: true},
		{name: "parallel+presort", parallel: true, presort: true},
	}

	points := benchPoints(conf, conf.Points, conf.Seed)
	centers := benchPoints(conf, conf.Queries, conf.Seed+1)
	radii := constRadii(len(centers), benchRadius(conf))

	idx, err := build(conf.Dims, conf.Depth, regionLo, regionHi, points)
	if err != nil {
		return nil, err
	}
	defer idx.Dispose()
	fmt.Printf("阶段 D: 构建 %d 点索引 dims=%d MaxDepth=%d\n", idx.Count(), conf.Dims, conf.Depth)

	s := jobs.NewScheduler(0, 0)
	defer s.Close()

	result := cellset.New(len(centers) * 4)
	expected := -1
	var rows []metrics.StageDRow
	for _, mode := range modes {
		var sched *jobs.Scheduler
		if mode.parallel {
			sched = s
		}
		opts := hashtree.BatchOptions{Grain: 16, Presort: mode.presort}

		durations := make([]time.Duration, batchRuns)
		for i := 0; i < batchRuns; i++ {
			if err := ctx.Err(); err != nil {
				return rows, err
			}
			result.Clear()
			t0 := time.Now()
			idx.ScheduleRadiusBatch(sched, centers, radii, result, opts).Complete()
			durations[i] = time.Since(t0)
		}
		stats := metrics.LatencyStatsFromDurations(durations)

		if expected < 0 {
			expected = result.Len()
		} else if result.Len() != expected {
			return rows, errors.New("execution modes disagree").
				WithTag("mode", mode.name).
				WithTag("cells", result.Len()).
				WithTag("expected", expected)
		}

		qps := 0.0
		if stats.AvgMs > 0 {
			qps = float64(len(centers)) / (stats.AvgMs / 1e3)
		}
		rows = append(rows, metrics.StageDRow{
			Mode:        mode.name,
			QueryCount:  len(centers),
			BatchP50Ms:  stats.P50Ms,
			BatchP99Ms:  stats.P99Ms,
			QPS:         qps,
			ResultCells: result.Len(),
		})
		fmt.Printf("阶段 D: %s P50=%.2fms P99=%.2fms QPS=%.0f Cells=%d\n",
			mode.name, stats.P50Ms, stats.P99Ms, qps, result.Len())
	}

	path := metrics.ReportPath(conf.ReportDir, "bench_report_stage_d_", ".csv")
	if err := metrics.WriteStageDCSV(rows, path); err != nil {
		return rows, err
	}
	fmt.Printf("报告已写入 %s\n", path)
	return rows, nil
}
