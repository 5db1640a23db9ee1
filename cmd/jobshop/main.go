package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

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

// options — параметры командной строки; нулевые значения не перекрывают конфигурацию.
type options struct {
	solver   string
	priority string
	iter     int
	tenure   int
	workers  int
	seed     int64
}

func main() {
	var (
		instancePath = flag.String("instance", "", "путь к файлу экземпляра задачи (обязателен)")
		solverName   = flag.String("solver", "tabu", "алгоритм: greedy | descent | tabu | sa | ga")
		priority     = flag.String("priority", "", "правило жадного построения: SPT | LRPT | EST_SPT | EST_LRPT")
		deadline     = flag.Duration("deadline", 0, "ограничение времени решения; 0 — из конфигурации или без ограничения")
		iter         = flag.Int("iter", 0, "лимит итераций (tabu, sa) или поколений (ga); 0 — из конфигурации")
		tenure       = flag.Int("tenure", 0, "срок запрета хода (tabu); 0 — из конфигурации")
		workers      = flag.Int("workers", 0, "число горутин оценки соседей (descent, tabu); 0 — из конфигурации")
		seed         = flag.Int64("seed", 1, "сид генератора случайных чисел (sa, ga)")
		configPath   = flag.String("config", "", "путь к YAML-конфигурации")
		printWhat    = flag.String("print", "", "что вывести после решения: order, schedule (через запятую)")
		verbose      = flag.Bool("v", false, "подробный лог (уровень debug)")
		traceExp     = flag.String("trace", "", "экспорт трассировки: none | stdout")
	)
	flag.Parse()

	if *instancePath == "" {
		fail(2, "Конфликт:", fmt.Errorf("не задан -instance"))
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fail(2, "Ошибка в конфигурации:", err)
		}
		cfg = loaded
	}
	if *deadline > 0 {
		cfg.Deadline = *deadline
	}
	if *traceExp != "" {
		cfg.TraceExporter = *traceExp
	}
	if *verbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(cfg.Level())

	shutdown, err := observability.InitTracing(cfg.TraceExporter, "jobshop", os.Stderr)
	if err != nil {
		fail(2, "Ошибка инициализации трассировки:", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("остановка трассировки")
		}
	}()

	inst, err := jobshop.LoadFile(*instancePath)
	if err != nil {
		fail(2, "Ошибка загрузки экземпляра:", err)
	}

	solver, err := buildSolver(cfg, options{
		solver:   strings.ToLower(*solverName),
		priority: *priority,
		iter:     *iter,
		tenure:   *tenure,
		workers:  *workers,
		seed:     *seed,
	}, log)
	if err != nil {
		fail(2, "Конфликт в конфигурации алгоритма:", err)
	}

	ctx := context.Background()
	if cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Deadline)
		defer cancel()
	}
	ctx, span := observability.StartSpan(ctx, "solve",
		attribute.String("instance", inst.Name),
		attribute.String("solver", *solverName),
	)
	res, err := solver.Solve(ctx, inst)
	if err != nil {
		span.RecordError(err)
		span.End()
		fail(1, "Ошибка:", err)
	}
	span.SetAttributes(
		attribute.Int("makespan", res.Makespan),
		attribute.String("exit_cause", string(res.ExitCause)),
	)
	span.End()

	fmt.Printf("instance=%s solver=%s makespan=%d exit=%s reason=%s iterations=%d evaluations=%d time=%s\n",
		inst.Name, *solverName, res.Makespan, res.ExitCause, res.Reason,
		res.Iterations, res.Evaluations, res.Duration.Round(time.Microsecond),
	)
	for _, what := range lo.Compact(strings.Split(*printWhat, ",")) {
		switch strings.TrimSpace(what) {
		case "order":
			fmt.Print(res.Order.String())
		case "schedule":
			fmt.Print(res.Schedule.String())
		default:
			log.WithField("print", what).Warn("неизвестный вывод")
		}
	}
}

// buildSolver собирает солвер из конфигурации с учётом флагов.
func buildSolver(cfg *config.Config, o options, log logrus.FieldLogger) (opt.Optimizer, error) {
	p := greedy.Priority(strings.ToUpper(o.priority))

	switch o.solver {
	case "greedy":
		c, err := cfg.Greedy()
		if err != nil {
			return nil, err
		}
		if p != "" {
			c.Priority = p
		}
		s, err := greedy.New(c)
		if err != nil {
			return nil, err
		}
		s.Log = log
		return s, nil

	case "descent":
		c, err := cfg.Descent()
		if err != nil {
			return nil, err
		}
		if p != "" {
			c.InitialPriority = p
		}
		if o.workers > 0 {
			c.Workers = o.workers
		}
		s, err := descent.New(c)
		if err != nil {
			return nil, err
		}
		s.Log = log
		return s, nil

	case "tabu", "ts":
		c, err := cfg.Tabu()
		if err != nil {
			return nil, err
		}
		if p != "" {
			c.InitialPriority = p
		}
		if o.iter > 0 {
			c.MaxIterations = o.iter
		}
		if o.tenure > 0 {
			c.TabuTenure = o.tenure
		}
		if o.workers > 0 {
			c.Workers = o.workers
		}
		s, err := ts.New(c)
		if err != nil {
			return nil, err
		}
		s.Log = log
		return s, nil

	case "sa":
		c, err := cfg.SA()
		if err != nil {
			return nil, err
		}
		if p != "" {
			c.InitialPriority = p
		}
		if o.iter > 0 {
			c.Iterations = o.iter
		}
		s, err := sa.New(c, rand.New(rand.NewSource(o.seed)))
		if err != nil {
			return nil, err
		}
		s.Log = log
		return s, nil

	case "ga":
		c, err := cfg.GA()
		if err != nil {
			return nil, err
		}
		if p != "" {
			c.InitialPriority = p
		}
		if o.iter > 0 {
			c.Generations = o.iter
		}
		s, err := ga.New(c, rand.New(rand.NewSource(o.seed)))
		if err != nil {
			return nil, err
		}
		s.Log = log
		return s, nil

	default:
		return nil, fmt.Errorf("неизвестный алгоритм %q; доступные: greedy, descent, tabu, sa, ga", o.solver)
	}
}

func fail(code int, msg string, err error) {
	fmt.Fprintln(os.Stderr, msg, err)
	os.Exit(code)
}
