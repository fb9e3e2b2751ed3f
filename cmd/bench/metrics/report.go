package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ic-timon/hashtree/sortutil"
	"github.com/segmentio/encoding/json"
)

// LatencyStats 延迟统计
type LatencyStats struct {
	P50Ms float64
	P95Ms float64
	P99Ms float64
	AvgMs float64
	N     int
}

// StageARow 阶段 A（深度扫描）单行数据
type StageARow struct {
	Dims        int
	MaxDepth    int
	PointCount  int
	Cells       int
	Nodes       int
	BuildDurMs  float64
	QueryP50Ms  float64
	QueryP99Ms  float64
	AvgCells    float64
	HeapAllocMB float64
}

// StageBRow 阶段 B（容量扩展）单行数据
type StageBRow struct {
	PointCount   int
	BuildDurMs   float64
	UpdateNsOp   float64
	UpdateAllocs float64
	QueryP50Ms   float64
	QueryP99Ms   float64
	HeapSysMB    float64
}

// StageCRow 阶段 C（批量并行）单行数据
type StageCRow struct {
	Workers      int
	Grain        int
	QueryCount   int
	BatchDurMs   float64
	QPS          float64
	ResultCells  int
	NumGoroutine int
}

// StageDRow 阶段 D（预排序 vs 单线程）单行数据
type StageDRow struct {
	Mode        string
	QueryCount  int
	BatchP50Ms  float64
	BatchP99Ms  float64
	QPS         float64
	ResultCells int
}

// Percentile 计算切片中第 p 百分位（0-100），输入需已排序
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	return sorted[int(float64(len(sorted)-1)*p/100)]
}

// LatencyStatsFromDurations 从耗时列表计算 P50/P95/P99
func LatencyStatsFromDurations(durations []time.Duration) LatencyStats {
	if len(durations) == 0 {
		return LatencyStats{}
	}
	ms := make([]float64, len(durations))
	var sum float64
	for i, d := range durations {
		ms[i] = float64(d.Nanoseconds()) / 1e6
		sum += ms[i]
	}
	sortutil.Selection(ms, sortutil.Ordered[float64]{})
	return LatencyStats{
		P50Ms: Percentile(ms, 50),
		P95Ms: Percentile(ms, 95),
		P99Ms: Percentile(ms, 99),
		AvgMs: sum / float64(len(ms)),
		N:     len(ms),
	}
}

func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// WriteStageACSV 写入阶段 A 报告
func WriteStageACSV(rows []StageARow, path string) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Dims),
			strconv.Itoa(r.MaxDepth),
			strconv.Itoa(r.PointCount),
			strconv.Itoa(r.Cells),
			strconv.Itoa(r.Nodes),
			f2(r.BuildDurMs),
			f2(r.QueryP50Ms),
			f2(r.QueryP99Ms),
			f2(r.AvgCells),
			f2(r.HeapAllocMB),
		})
	}
	return writeCSV(path, []string{"Dims", "MaxDepth", "PointCount", "Cells", "Nodes", "BuildDurMs", "QueryP50Ms", "QueryP99Ms", "AvgCells", "HeapAllocMB"}, records)
}

// WriteStageBCSV 写入阶段 B 报告
func WriteStageBCSV(rows []StageBRow, path string) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.PointCount),
			f2(r.BuildDurMs),
			f2(r.UpdateNsOp),
			f2(r.UpdateAllocs),
			f2(r.QueryP50Ms),
			f2(r.QueryP99Ms),
			f2(r.HeapSysMB),
		})
	}
	return writeCSV(path, []string{"PointCount", "BuildDurMs", "UpdateNsOp", "UpdateAllocs", "QueryP50Ms", "QueryP99Ms", "HeapSysMB"}, records)
}

// WriteStageCCSV 写入阶段 C 报告
func WriteStageCCSV(rows []StageCRow, path string) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Workers),
			strconv.Itoa(r.Grain),
			strconv.Itoa(r.QueryCount),
			f2(r.BatchDurMs),
			f2(r.QPS),
			strconv.Itoa(r.ResultCells),
			strconv.Itoa(r.NumGoroutine),
		})
	}
	return writeCSV(path, []string{"Workers", "Grain", "QueryCount", "BatchDurMs", "QPS", "ResultCells", "NumGoroutine"}, records)
}

// WriteStageDCSV 写入阶段 D 报告
func WriteStageDCSV(rows []StageDRow, path string) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Mode,
			strconv.Itoa(r.QueryCount),
			f2(r.BatchP50Ms),
			f2(r.BatchP99Ms),
			f2(r.QPS),
			strconv.Itoa(r.ResultCells),
		})
	}
	return writeCSV(path, []string{"Mode", "QueryCount", "BatchP50Ms", "BatchP99Ms", "QPS", "ResultCells"}, records)
}

func writeCSV(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReportPath 生成 dir 目录下带日期的报告路径
func ReportPath(dir, prefix, ext string) string {
	return filepath.Join(dir, prefix+time.Now().Format("20060102")+ext)
}

// Report JSON 汇总报告
type Report struct {
	RunID    string    `json:"run_id"`
	Stage    string    `json:"stage"`
	Dims     int       `json:"dims"`
	Started  time.Time `json:"started"`
	Duration string    `json:"duration"`
	Rows     any       `json:"rows"`
}

// WriteJSON 写入 JSON 报告
func WriteJSON(v any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
