package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/ic-timon/hashtree/hashtree"
	"github.com/ic-timon/hashtree/cellset"
	"github.com/ic-timon/hashtree/cmd/bench/metrics"
	"github.com/ic-timon/hashtree/jobs"
)

// runStageC 批量并行：比较不同 worker 数与粒度下整批半径查询的吞吐
func runStageC(ctx context.Context, conf config) (any, error) {
	workerList := []int{1, 2, 4, 8, runtime.NumCPU()}
	grainList := []int{1, 8, 64}

	points := benchPoints(conf, conf.Points, conf.Seed)
	centers := benchPoints(conf, conf.Queries, conf.Seed+1)
	radii := constRadii(len(centers), benchRadius(conf))

	idx, err := build(conf.Dims, conf.Depth, regionLo, regionHi, points)
	if err != nil {
		return nil, err
	}
	defer idx.Dispose()
	fmt.Printf("阶段 C: 构建 %d 点索引 dims=%d MaxDepth=%d\n", idx.Count(), conf.Dims, conf.Depth)

	result := cellset.New(len(centers) * 4)
	var rows []metrics.StageCRow
	for _, workers := range workerList {
		s := jobs.NewScheduler(workers, 0)
		for _, grain := range grainList {
			if err := ctx.Err(); err != nil {
				s.Close()
				return rows, err
			}
			result.Clear()
			t0 := time.Now()
			idx.ScheduleRadiusBatch(s, centers, radii, result, hashtree.BatchOptions{Grain: grain}).Complete()
			elapsed := time.Since(t0)

			snap := metrics.Take()
			rows = append(rows, metrics.StageCRow{
				Workers:      workers,
				Grain:        grain,
				QueryCount:   len(centers),
				BatchDurMs:   float64(elapsed.Nanoseconds()) / 1e6,
				QPS:          float64(len(centers)) / elapsed.Seconds(),
				ResultCells:  result.Len(),
				NumGoroutine: snap.NumGoroutine,
			})
			fmt.Printf("阶段 C: workers=%d grain=%d Batch=%.2fms QPS=%.0f Cells=%d\n",
				workers, grain, rows[len(rows)-1].BatchDurMs, rows[len(rows)-1].QPS, result.Len())
		}
		s.Close()
	}

	path := metrics.ReportPath(conf.ReportDir, "bench_report_stage_c_", ".csv")
	if err := metrics.WriteStageCCSV(rows, path); err != nil {
		return rows, err
	}
	fmt.Printf("报告已写入 %s\n", path)
	return rows, nil
}
