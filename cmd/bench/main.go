package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"jobShop/internal/bench"
	"jobShop/internal/config"
	"jobShop/internal/descent"
	"jobShop/internal/ga"
	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/observability"
	"jobShop/internal/opt"
	"jobShop/internal/sa"
	"jobShop/internal/ts"
)

// Фабрики

func newGreedyFactory(cfg greedy.Config) func(seed int64) (opt.Optimizer, error) {
	return func(int64) (opt.Optimizer, error) {
		return greedy.New(cfg)
	}
}

func newDescentFactory(cfg descent.Config, log logrus.FieldLogger) func(seed int64) (opt.Optimizer, error) {
	return func(int64) (opt.Optimizer, error) {
		solver, err := descent.New(cfg)
		if err != nil {
			return nil, err
		}
		solver.Log = log
		return solver, nil
	}
}

func newTSFactory(cfg ts.Config, log logrus.FieldLogger) func(seed int64) (opt.Optimizer, error) {
	return func(int64) (opt.Optimizer, error) {
		solver, err := ts.New(cfg)
		if err != nil {
			return nil, err
		}
		solver.Log = log
		return solver, nil
	}
}

func newSAFactory(cfg sa.Config, log logrus.FieldLogger) func(seed int64) (opt.Optimizer, error) {
	return func(seed int64) (opt.Optimizer, error) {
		solver, err := sa.New(cfg, rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil, err
		}
		solver.Log = log
		return solver, nil
	}
}

func newGAFactory(cfg ga.Config, log logrus.FieldLogger) func(seed int64) (opt.Optimizer, error) {
	return func(seed int64) (opt.Optimizer, error) {
		solver, err := ga.New(cfg, rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil, err
		}
		solver.Log = log
		return solver, nil
	}
}

func main() {
	// CLI флаги; явно заданные флаги перекрывают значения из конфигурации
	var (
		configPath   = flag.String("config", "", "путь к YAML-конфигурации запуска")
		instancesDir = flag.String("instances", "", "каталог с экземплярами задачи (все файлы каталога)")
		out          = flag.String("out", "artifacts/results.csv", "путь к выходному CSV-файлу")
		algos        = flag.String("algos", "GREEDY,DESCENT,TS,SA,GA", "список алгоритмов: GREEDY, DESCENT, TS, SA, GA (через запятую)")
		runs         = flag.Int("runs", 10, "количество запусков каждого алгоритма (с разными сидами)")
		baseSeed     = flag.Int64("seed", 1000, "базовый сид для запусков алгоритмов")
		perRunTO     = flag.Duration("per_run_timeout", 0, "таймаут одного запуска; 0 — без ограничения")
		workers      = flag.Int("workers", 1, "число горутин оценки соседей (DESCENT, TS)")
		verbose      = flag.Bool("v", false, "подробный лог (уровень debug)")
		traceExp     = flag.String("trace", "none", "экспорт трассировки: none | stdout")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fail(2, "Ошибка в конфигурации:", err)
		}
		cfg = loaded
	}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["out"] || cfg.Out == "" {
		cfg.Out = *out
	}
	if set["runs"] {
		cfg.Runs = *runs
	}
	if set["seed"] {
		cfg.Seed = *baseSeed
	}
	if set["per_run_timeout"] {
		cfg.Deadline = *perRunTO
	}
	if set["workers"] {
		cfg.Workers = *workers
	}
	if set["trace"] {
		cfg.TraceExporter = *traceExp
	}
	if *verbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		fail(2, "Конфликт в конфигурации:", err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(cfg.Level())

	shutdown, err := observability.InitTracing(cfg.TraceExporter, "jobshop-bench", nil)
	if err != nil {
		fail(2, "Ошибка инициализации трассировки:", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("остановка трассировки")
		}
	}()

	cases, err := loadCases(cfg, *instancesDir)
	if err != nil {
		fail(2, "Ошибка загрузки экземпляров:", err)
	}
	if len(cases) == 0 {
		fail(2, "Конфликт:", fmt.Errorf("не задан ни один экземпляр (-instances или instances в конфигурации)"))
	}

	greedyCfg, _ := cfg.Greedy()
	descentCfg, _ := cfg.Descent()
	tsCfg, _ := cfg.Tabu()
	saCfg, _ := cfg.SA()
	gaCfg, _ := cfg.GA()

	available := map[string]bench.Algorithm{
		"GREEDY":  {Name: "GREEDY", Factory: newGreedyFactory(greedyCfg)},
		"DESCENT": {Name: "DESCENT", Factory: newDescentFactory(descentCfg, log)},
		"TS":      {Name: "TS", Factory: newTSFactory(tsCfg, log)},
		"SA":      {Name: "SA", Factory: newSAFactory(saCfg, log)},
		"GA":      {Name: "GA", Factory: newGAFactory(gaCfg, log)},
	}

	var selected []bench.Algorithm
	for _, a := range splitCSV(*algos) {
		al, ok := available[strings.ToUpper(a)]
		if !ok {
			fail(2, "Конфликт:", fmt.Errorf("алгоритм %q не предоставлен в программе; доступные: %v", a, keys(available)))
		}
		selected = append(selected, al)
	}

	runner := bench.Runner{
		Runs:          cfg.Runs,
		BaseSeed:      cfg.Seed,
		PerRunTimeout: cfg.Deadline,
		Log:           log,
	}

	ctx := context.Background()
	var records []bench.Record
	for _, c := range cases {
		for _, a := range selected {
			log.WithFields(logrus.Fields{
				"algo":     a.Name,
				"instance": c.Name,
				"jobs":     c.Instance.Jobs,
				"machines": c.Instance.Machines,
				"runs":     runner.Runs,
			}).Info("запуск алгоритма")

			rec, err := runner.RunCase(ctx, c, a)
			if err != nil {
				fail(1, "Ошибка:", err)
			}
			records = append(records, rec)

			fmt.Printf("%-8s %-10s makespan: лучшее=%d среднее=%.2f отклонение=%.2f gap=%.2f%% | время: среднее=%.2fms отклонение=%.2fms | таймауты=%d\n",
				rec.Algo, rec.Instance,
				rec.MakespanBest, rec.MakespanMean, rec.MakespanStd, rec.GapPercent,
				rec.TimeMeanMs, rec.TimeStdMs, rec.Timeouts,
			)
		}
	}

	if err := bench.WriteCSV(cfg.Out, records); err != nil {
		fail(1, "Ошибка при записи в CSV:", err)
	}
	log.WithField("path", cfg.Out).Info("результаты сохранены")
}

// helpers

// loadCases собирает экземпляры из конфигурации и, если задан, из каталога dir.
func loadCases(cfg *config.Config, dir string) ([]bench.Case, error) {
	var cases []bench.Case
	for _, ref := range cfg.Instances {
		inst, err := jobshop.LoadFile(ref.Path)
		if err != nil {
			return nil, err
		}
		name := ref.Name
		if name == "" {
			name = inst.Name
		}
		cases = append(cases, bench.Case{Name: name, Instance: inst, Optimum: ref.Optimum})
	}
	if dir == "" {
		return cases, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return filepath.Join(dir, e.Name()), !e.IsDir() && !strings.HasPrefix(e.Name(), ".")
	})
	for _, path := range files {
		inst, err := jobshop.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cases = append(cases, bench.Case{Name: inst.Name, Instance: inst})
	}
	return cases, nil
}

func splitCSV(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	}))
}

func keys(m map[string]bench.Algorithm) []string {
	out := lo.Keys(m)
	sort.Strings(out)
	return out
}

func fail(code int, msg string, err error) {
	fmt.Fprintln(os.Stderr, msg, err)
	os.Exit(code)
}

