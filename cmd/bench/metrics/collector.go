// Package metrics 提供运行时指标采集与压测报告输出
package metrics

import (
	"runtime"
	"runtime/debug"
	"time"
)

// Snapshot 运行时指标快照
type Snapshot struct {
	TS           time.Time
	HeapAlloc    uint64
	HeapSys      uint64
	HeapObjects  uint64
	Mallocs      uint64
	NumGC        uint32
	NumGoroutine int
}

// Take 采集当前运行时指标
func Take() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Snapshot{
		TS:           time.Now(),
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		HeapObjects:  m.HeapObjects,
		Mallocs:      m.Mallocs,
		NumGC:        m.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

// GC 触发 GC 并释放回 OS
func GC() {
	runtime.GC()
	debug.FreeOSMemory()
}

// Delta 两次快照之间的差值
type Delta struct {
	Elapsed time.Duration
	Mallocs uint64
	NumGC   uint32
}

// AllocsPerOp 平均每次操作的堆分配次数
func (d Delta) AllocsPerOp(ops int) float64 {
	if ops <= 0 {
		return 0
	}
	return float64(d.Mallocs) / float64(ops)
}

// Diff 计算两次快照间的耗时、分配次数与 GC 次数差
func Diff(before, after Snapshot) Delta {
	d := Delta{Elapsed: after.TS.Sub(before.TS)}
	if after.Mallocs >= before.Mallocs {
		d.Mallocs = after.Mallocs - before.Mallocs
	}
	if after.NumGC >= before.NumGC {
		d.NumGC = after.NumGC - before.NumGC
	}
	return d
}

// MB 字节数换算为 MiB
func MB(b uint64) float64 {
	return float64(b) / 1024 / 1024
}
