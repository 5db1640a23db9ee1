package descent

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/neighborhood"
	"jobShop/internal/opt"
)

// Solver — локальный поиск наискорейшим спуском в окрестности
// Новицкого-Смутницкого.
type Solver struct {
	Cfg Config
	Log logrus.FieldLogger
}

// New возвращает солвер спуска с валидацией конфигурации.
func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg}, nil
}

// Solve строит начальное решение жадным алгоритмом и на каждой итерации
// переходит к лучшему соседу, если он строго улучшает makespan. Поиск
// останавливается в локальном оптимуме или по дедлайну контекста; в обоих
// случаях возвращается лучшее найденное решение без ошибки.
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()

	// Валидация входных данных
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	log := opt.Logger(s.Log).WithField("solver", "descent")

	best, err := greedy.Construct(inst, s.Cfg.InitialPriority)
	if err != nil {
		return opt.Result{}, err
	}
	dec, err := jobshop.NewDecoder(inst)
	if err != nil {
		return opt.Result{}, err
	}
	eval, err := neighborhood.NewEvaluator(inst, s.Cfg.Workers)
	if err != nil {
		return opt.Result{}, err
	}

	sched, err := dec.Decode(best)
	if err != nil {
		return opt.Result{}, fmt.Errorf("начальное решение недопустимо: %w", err)
	}
	bestCost := sched.Makespan()
	history := []int{bestCost}
	evals := 1
	iter := 0

	var reason opt.StopReason
	var costs []int
	for {
		// Для поддержки отмены через context
		if ctx.Err() != nil {
			reason = opt.Deadline
			break
		}

		swaps := neighborhood.Candidates(neighborhood.BlocksOfCriticalPath(best, sched))
		if len(swaps) == 0 {
			reason = opt.Converged
			break
		}

		costs = resize(costs, len(swaps))
		if err := eval.Evaluate(ctx, best, swaps, costs); err != nil {
			if ctx.Err() != nil {
				// Незавершённая итерация отбрасывается
				reason = opt.Deadline
				break
			}
			return opt.Result{}, err
		}
		evals += len(swaps)

		i := neighborhood.Best(costs)
		if i < 0 || costs[i] >= bestCost {
			reason = opt.Converged
			break
		}

		swaps[i].ApplyOn(best)
		bestCost = costs[i]
		if sched, err = dec.Decode(best); err != nil {
			return opt.Result{}, err
		}
		iter++
		history = append(history, bestCost)

		log.WithFields(logrus.Fields{
			"iteration":  iter,
			"makespan":   bestCost,
			"candidates": len(swaps),
			"move":       swaps[i].String(),
		}).Debug("улучшающий ход")
	}

	res, err := opt.Finish(dec, best, reason, start)
	if err != nil {
		return opt.Result{}, err
	}
	res.Evaluations = evals
	res.Iterations = iter
	res.History = history
	res.Meta = map[string]any{
		"initial_priority": string(s.Cfg.InitialPriority),
		"workers":          s.Cfg.Workers,
	}

	log.WithFields(logrus.Fields{
		"makespan":   res.Makespan,
		"iterations": iter,
		"exit":       res.ExitCause,
		"reason":     res.Reason,
	}).Info("поиск завершён")
	return res, nil
}

// resize возвращает срез длины n, переиспользуя память buf.
func resize(buf []int, n int) []int {
	if cap(buf) < n {
		return make([]int, n)
	}
	return buf[:n]
}
