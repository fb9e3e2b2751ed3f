package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ic-timon/hashtree/hashtree"
	"github.com/ic-timon/hashtree/cmd/bench/metrics"
)

// runStageA 深度扫描：固定点数，比较不同最大深度下的构建耗时与单次半径查询延迟
func runStageA(ctx context.Context, conf config) (any, error) {
	const searchRuns = 1000

	depths := []int{4, 6, 8, 10, 12}
	points := benchPoints(conf, conf.Points, conf.Seed)
	queries := benchPoints(conf, searchRuns, conf.Seed+1)
	radius := benchRadius(conf)

	var rows []metrics.StageARow
	for _, depth := range depths {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		fmt.Printf("阶段 A: dims=%d MaxDepth=%d 点数=%d\n", conf.Dims, depth, len(points))

		metrics.GC()
		t0 := time.Now()
		idx, err := build(conf.Dims, depth, regionLo, regionHi, points)
		if err != nil {
			return rows, err
		}
		buildDur := time.Since(t0)

		// 单次查询延迟统计
		durations := make([]time.Duration, searchRuns)
		out := make([]hashtree.CellCode, 0, 1024)
		var cells int
		for i, q := range queries {
			t1 := time.Now()
			out = idx.QueryRadius(q, radius, out[:0])
			durations[i] = time.Since(t1)
			cells += len(out)
		}
		stats := metrics.LatencyStatsFromDurations(durations)

		metrics.GC()
		after := metrics.Take()

		rows = append(rows, metrics.StageARow{
			Dims:        conf.Dims,
			MaxDepth:    depth,
			PointCount:  idx.Count(),
			Cells:       idx.CellCount(),
			Nodes:       idx.NodeCount(),
			BuildDurMs:  float64(buildDur.Nanoseconds()) / 1e6,
			QueryP50Ms:  stats.P50Ms,
			QueryP99Ms:  stats.P99Ms,
			AvgCells:    float64(cells) / float64(searchRuns),
			HeapAllocMB: metrics.MB(after.HeapAlloc),
		})
		r := rows[len(rows)-1]
		fmt.Printf("  Build=%.0fms Cells=%d Nodes=%d QueryP50=%.3fms P99=%.3fms AvgCells=%.1f Heap=%.1fMB\n",
			r.BuildDurMs, r.Cells, r.Nodes, r.QueryP50Ms, r.QueryP99Ms, r.AvgCells, r.HeapAllocMB)
		idx.Dispose()
	}

	path := metrics.ReportPath(conf.ReportDir, "bench_report_stage_a_", ".csv")
	if err := metrics.WriteStageACSV(rows, path); err != nil {
		return rows, err
	}
	fmt.Printf("报告已写入 %s\n", path)
	return rows, nil
}
