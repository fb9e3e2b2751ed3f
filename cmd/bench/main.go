// 压测入口：-stage a|b|c|d
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"runtime"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"
	"github.com/ic-timon/hashtree/cmd/bench/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

// 保留 config 的反射信息，避免混淆后 cli 生成的选项名错乱
var _ = reflect.TypeOf(config{})

type config struct {
	Stage       string  `cli:"" env:"HASHTREE_BENCH_STAGE"        help:"压测阶段: a(深度扫描) | b(容量扩展) | c(批量并行) | d(预排序 vs 单线程)."`
	Dims        int     `cli:"" env:"HASHTREE_BENCH_DIMS"         help:"维度: 2(四叉树) | 3(八叉树)."`
	Points      int     `cli:"" env:"HASHTREE_BENCH_POINTS"       help:"插入点数（阶段 b 为最大点数）."`
	Queries     int     `cli:"" env:"HASHTREE_BENCH_QUERIES"      help:"每批查询数."`
	Radius      float64 `cli:"" env:"HASHTREE_BENCH_RADIUS"       help:"查询半径（相对区域边长）."`
	Depth       int     `cli:"" env:"HASHTREE_BENCH_DEPTH"        help:"阶段 b/c/d 使用的最大深度."`
	Seed        int64   `cli:"" env:"HASHTREE_BENCH_SEED"         help:"随机种子."`
	Clustered   bool    `cli:"" env:"HASHTREE_BENCH_CLUSTERED"    help:"使用聚集分布而非均匀分布."`
	ReportDir   string  `cli:"" env:"HASHTREE_BENCH_REPORT_DIR"   help:"报告输出目录."`
	MetricsAddr string  `cli:"" env:"HASHTREE_BENCH_METRICS_ADDR" help:"Prometheus /metrics 监听地址，留空则不启动."`
	LogLevel    string  `cli:"" env:"HASHTREE_BENCH_LOG_LEVEL"    help:"Log level (debug|info|warning|error)."`
	Help        bool    `cli:"" env:"-"                           help:"Show help."`
}

type stageFunc func(ctx context.Context, conf config) (any, error)

var stages = map[string]stageFunc{
	"a": runStageA,
	"b": runStageB,
	"c": runStageC,
	"d": runStageD,
}

func main() {
	conf := config{
		Dims:      3,
		Points:    100_000,
		Queries:   4096,
		Radius:    0.02,
		Depth:     8,
		Seed:      42,
		ReportDir: "report",
		LogLevel:  logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Runs hashed quadtree/octree benchmarks.").
		Options(&conf)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	errors.Encoder = json.Marshal

	run, ok := stages[conf.Stage]
	if !ok {
		logs.Fatal(errors.New("请指定 -stage a|b|c|d").WithTag("stage", conf.Stage))
	}
	if conf.Dims != 2 && conf.Dims != 3 {
		logs.Fatal(errors.New("dims 只能为 2 或 3").WithTag("dims", conf.Dims))
	}

	if conf.MetricsAddr != "" {
		var admin http.ServeMux
		admin.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: conf.MetricsAddr, Handler: &admin}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logs.Error(errors.New("metrics server failed").
					WithTag("addr", conf.MetricsAddr).
					Wrap(err))
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	runID := uuid.NewString()
	started := time.Now()
	logs.WithTag("run_id", runID).
		WithTag("stage", conf.Stage).
		WithTag("dims", conf.Dims).
		WithTag("cpus", runtime.NumCPU()).
		Info("benchmark started")

	rows, err := run(ctx, conf)
	if err != nil {
		logs.Fatal(errors.New("benchmark stage failed").
			WithTag("run_id", runID).
			WithTag("stage", conf.Stage).
			Wrap(err))
	}

	report := metrics.Report{
		RunID:    runID,
		Stage:    conf.Stage,
		Dims:     conf.Dims,
		Started:  started,
		Duration: time.Since(started).String(),
		Rows:     rows,
	}
	path := metrics.ReportPath(conf.ReportDir, "bench_report_stage_"+conf.Stage+"_", ".json")
	if err := metrics.WriteJSON(report, path); err != nil {
		logs.Fatal(errors.New("writing json report failed").WithTag("path", path).Wrap(err))
	}
	fmt.Printf("报告已写入 %s\n", path)
	fmt.Println("压测完成")
}
