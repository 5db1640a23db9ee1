package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"jobShop/internal/jobshop"
	"jobShop/internal/observability"
	"jobShop/internal/opt"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) (opt.Optimizer, error)
}

// Case — экземпляр задачи с известным оптимумом (0 — неизвестен).
type Case struct {
	Name     string
	Instance *jobshop.Instance
	Optimum  int
}

type Record struct {
	Algo     string
	Instance string
	Jobs     int
	Machines int
	Runs     int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	MakespanBest int
	MakespanMean float64
	MakespanStd  float64

	// GapPercent — отклонение лучшего makespan от оптимума, %; 0 при неизвестном оптимуме.
	Optimum    int
	GapPercent float64
	// Timeouts — число запусков, остановленных по дедлайну.
	Timeouts int
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
	Log           logrus.FieldLogger
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	if r.Runs < 1 {
		return Record{}, fmt.Errorf("количество запусков должно быть >= 1 (получено %d)", r.Runs)
	}
	inst := c.Instance
	log := opt.Logger(r.Log).WithFields(logrus.Fields{"instance": c.Name, "algo": algo.Name})

	results := make([]opt.Result, 0, r.Runs)

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		op, err := algo.Factory(runSeed)
		if err != nil {
			return Record{}, fmt.Errorf("run %d: %w", i, err)
		}

		res, err := r.runOnce(ctx, c, algo.Name, runSeed, op)
		if err != nil {
			return Record{}, fmt.Errorf("run %d: solve error: %w", i, err)
		}
		if err := res.Order.Validate(); err != nil {
			return Record{}, fmt.Errorf("run %d: invalid order: %w", i, err)
		}
		if !res.Schedule.IsValid() {
			return Record{}, fmt.Errorf("run %d: invalid schedule", i)
		}

		log.WithFields(logrus.Fields{
			"run":      i,
			"makespan": res.Makespan,
			"exit":     res.ExitCause,
		}).Debug("запуск завершён")
		results = append(results, res)
	}

	msStats := CalcIntStats(lo.Map(results, func(res opt.Result, _ int) int { return res.Makespan }))
	tStats := CalcFloatStats(lo.Map(results, func(res opt.Result, _ int) float64 {
		return float64(res.Duration.Microseconds()) / 1000.0
	}))

	return Record{
		Algo:     algo.Name,
		Instance: c.Name,
		Jobs:     inst.Jobs,
		Machines: inst.Machines,
		Runs:     r.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		MakespanBest: msStats.Best,
		MakespanMean: msStats.Mean,
		MakespanStd:  msStats.Std,

		Optimum:    c.Optimum,
		GapPercent: Gap(msStats.Best, c.Optimum),
		Timeouts: lo.CountBy(results, func(res opt.Result) bool {
			return res.ExitCause == opt.Timeout
		}),
	}, nil
}

func (r Runner) runOnce(ctx context.Context, c Case, algo string, seed int64, op opt.Optimizer) (opt.Result, error) {
	ctx, span := observability.StartSpan(ctx, "bench.run",
		attribute.String("instance", c.Name),
		attribute.String("algo", algo),
		attribute.Int64("seed", seed),
	)
	defer span.End()

	runCtx := ctx
	cancel := func() {}
	if r.PerRunTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
	}
	defer cancel()

	res, err := op.Solve(runCtx, c.Instance)
	if err != nil {
		span.RecordError(err)
		return opt.Result{}, err
	}
	span.SetAttributes(
		attribute.Int("makespan", res.Makespan),
		attribute.String("exit_cause", string(res.ExitCause)),
		attribute.String("reason", string(res.Reason)),
	)
	return res, nil
}

// Gap возвращает отклонение makespan от оптимума в процентах.
func Gap(makespan, optimum int) float64 {
	if optimum <= 0 {
		return 0
	}
	return float64(makespan-optimum) * 100 / float64(optimum)
}

func WriteCSV(path string, records []Record) error {
	if d := dirOf(path); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"algo", "instance", "jobs", "machines", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"makespan_best", "makespan_mean", "makespan_std",
		"optimum", "gap_percent", "timeouts",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Algo,
			r.Instance,
			itoa(r.Jobs),
			itoa(r.Machines),
			itoa(r.Runs),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			itoa(r.MakespanBest),
			ftoa(r.MakespanMean),
			ftoa(r.MakespanStd),

			itoa(r.Optimum),
			ftoa(r.GapPercent),
			itoa(r.Timeouts),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
