package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ic-timon/hashtree/hashtree"
	"github.com/ic-timon/hashtree/cmd/bench/gen"
	"github.com/ic-timon/hashtree/cmd/bench/metrics"
)

// runStageB 容量扩展：逐级增大点数，观察构建、逐帧 Update 与查询的开销
func runStageB(ctx context.Context, conf config) (any, error) {
	const searchRuns = 500

	counts := []int{conf.Points / 8, conf.Points / 4, conf.Points / 2, conf.Points}
	queries := benchPoints(conf, searchRuns, conf.Seed+1)
	radius := benchRadius(conf)
	step := (regionHi - regionLo) / float32(int(1)<<uint(conf.Depth))

	var rows []metrics.StageBRow
	for _, n := range counts {
		if n <= 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		fmt.Printf("阶段 B: 点数=%d MaxDepth=%d\n", n, conf.Depth)

		points := benchPoints(conf, n, conf.Seed)
		metrics.GC()
		t0 := time.Now()
		idx, err := build(conf.Dims, conf.Depth, regionLo, regionHi, points)
		if err != nil {
			return rows, err
		}
		buildDur := time.Since(t0)

		// 模拟一帧：每个点移动至多一个格子
		moved := gen.Jitter(points, conf.Dims, step, conf.Seed+2)
		before := metrics.Take()
		for i := range points {
			idx.Update(uint32(i), points[i], moved[i])
		}
		delta := metrics.Diff(before, metrics.Take())

		durations := make([]time.Duration, searchRuns)
		out := make([]hashtree.CellCode, 0, 1024)
		for i, q := range queries {
			t1 := time.Now()
			out = idx.QueryRadius(q, radius, out[:0])
			durations[i] = time.Since(t1)
		}
		stats := metrics.LatencyStatsFromDurations(durations)
		snap := metrics.Take()

		rows = append(rows, metrics.StageBRow{
			PointCount:   n,
			BuildDurMs:   float64(buildDur.Nanoseconds()) / 1e6,
			UpdateNsOp:   float64(delta.Elapsed.Nanoseconds()) / float64(n),
			UpdateAllocs: delta.AllocsPerOp(n),
			QueryP50Ms:   stats.P50Ms,
			QueryP99Ms:   stats.P99Ms,
			HeapSysMB:    metrics.MB(snap.HeapSys),
		})
		r := rows[len(rows)-1]
		fmt.Printf("  Build=%.0fms Update=%.0fns/op allocs/op=%.2f QueryP50=%.3fms P99=%.3fms HeapSys=%.1fMB\n",
			r.BuildDurMs, r.UpdateNsOp, r.UpdateAllocs, r.QueryP50Ms, r.QueryP99Ms, r.HeapSysMB)
		idx.Dispose()
	}

	path := metrics.ReportPath(conf.ReportDir, "bench_report_stage_b_", ".csv")
	if err := metrics.WriteStageBCSV(rows, path); err != nil {
		return rows, err
	}
	fmt.Printf("报告已写入 %s\n", path)
	return rows, nil
}
