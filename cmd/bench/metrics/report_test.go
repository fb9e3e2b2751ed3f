package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func TestLatencyStatsFromDurations(t *testing.T) {
	durations := make([]time.Duration, 100)
	for i := range durations {
		durations[len(durations)-1-i] = time.Duration(i+1) * time.Millisecond
	}
	stats := LatencyStatsFromDurations(durations)
	require.Equal(t, 100, stats.N)
	require.InDelta(t, 50.5, stats.AvgMs, 1e-9)
	require.InDelta(t, 50, stats.P50Ms, 1e-9)
	require.InDelta(t, 95, stats.P95Ms, 1e-9)
	require.InDelta(t, 99, stats.P99Ms, 1e-9)

	require.Equal(t, LatencyStats{}, LatencyStatsFromDurations(nil))
}

func TestPercentileBounds(t *testing.T) {
	sorted := []float64{1, 2, 3}
	require.Equal(t, 1.0, Percentile(sorted, -5))
	require.Equal(t, 3.0, Percentile(sorted, 100))
	require.Equal(t, 0.0, Percentile(nil, 50))
}

func TestWriteStageDCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "d.csv")
	rows := []StageDRow{
		{Mode: "inline", QueryCount: 10, BatchP50Ms: 1.234, BatchP99Ms: 2, QPS: 100, ResultCells: 7},
		{Mode: "parallel", QueryCount: 10, BatchP50Ms: 0.5, BatchP99Ms: 1, QPS: 400, ResultCells: 7},
	}
	require.NoError(t, WriteStageDCSV(rows, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "Mode", records[0][0])
	require.Equal(t, []string{"inline", "10", "1.23", "2.00", "100.00", "7"}, records[1])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	report := Report{RunID: "abc", Stage: "c", Dims: 2, Rows: []StageCRow{{Workers: 4, Grain: 8}}}
	require.NoError(t, WriteJSON(report, path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, "abc", got["run_id"])
	require.Equal(t, float64(2), got["dims"])
	require.Len(t, got["rows"], 1)
}

func TestDiff(t *testing.T) {
	before := Snapshot{TS: time.Unix(0, 0), Mallocs: 10, NumGC: 1}
	after := Snapshot{TS: time.Unix(2, 0), Mallocs: 30, NumGC: 3}
	d := Diff(before, after)
	require.Equal(t, 2*time.Second, d.Elapsed)
	require.Equal(t, uint64(20), d.Mallocs)
	require.Equal(t, uint32(2), d.NumGC)
	require.Equal(t, 2.0, d.AllocsPerOp(10))
	require.Equal(t, 0.0, d.AllocsPerOp(0))
}
