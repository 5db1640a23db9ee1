package ts

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/neighborhood"
	"jobShop/internal/opt"
)

// Solver — реализация табу-поиска в окрестности Новицкого-Смутницкого.
type Solver struct {
	Cfg Config
	Log logrus.FieldLogger
}

// New возвращает новый TS-солвер с валидацией конфигурации.
func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg}, nil
}

// Solve — основной цикл алгоритма. На каждой итерации выполняется лучший
// незапрещённый ход, даже если он ухудшает текущее решение; обратный ход
// запрещается на TabuTenure итераций. Критерий аспирации не используется.
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()

	// Валидация входных данных
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	log := opt.Logger(s.Log).WithField("solver", "tabu")

	maxIter := s.Cfg.iterations(inst.Jobs)

	curr, err := greedy.Construct(inst, s.Cfg.InitialPriority)
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

	sched, err := dec.Decode(curr)
	if err != nil {
		return opt.Result{}, fmt.Errorf("начальное решение недопустимо: %w", err)
	}
	currCost := sched.Makespan()
	evals := 1

	// Глобально лучшее решение
	best := curr.Copy()
	bestCost := currCost
	history := []int{bestCost}

	tabu := newTabuList(inst.NumOps())

	var reason opt.StopReason
	var costs []int
	k := 0
	for {
		if k >= maxIter {
			reason = opt.IterationLimit
			break
		}
		// Для поддержки отмены через context
		if ctx.Err() != nil {
			reason = opt.Deadline
			break
		}

		swaps := neighborhood.Candidates(neighborhood.BlocksOfCriticalPath(curr, sched))
		allowed := lo.Filter(swaps, func(sw neighborhood.Swap, _ int) bool {
			a, b := pairOf(curr, sw)
			return !tabu.IsTabu(a, b, k)
		})
		// Все ходы запрещены — завершаем поиск
		if len(allowed) == 0 {
			reason = opt.NoCandidate
			break
		}

		costs = resize(costs, len(allowed))
		if err := eval.Evaluate(ctx, curr, allowed, costs); err != nil {
			if ctx.Err() != nil {
				reason = opt.Deadline
				break
			}
			return opt.Result{}, err
		}
		evals += len(allowed)

		i := neighborhood.Best(costs)
		if i < 0 {
			reason = opt.NoCandidate
			break
		}
		move := allowed[i]

		// Применение выбранного хода и запрет обратного:
		// после обмена на позиции T1 стоит b, на T2 — a.
		a, b := pairOf(curr, move)
		move.ApplyOn(curr)
		tabu.Add(b, a, k+s.Cfg.TabuTenure)
		currCost = costs[i]
		if sched, err = dec.Decode(curr); err != nil {
			return opt.Result{}, err
		}

		// Обновление глобально лучшего решения
		if currCost < bestCost {
			bestCost = currCost
			best.CopyFrom(curr)
		}
		k++
		history = append(history, bestCost)

		log.WithFields(logrus.Fields{
			"iteration":  k,
			"current":    currCost,
			"best":       bestCost,
			"candidates": len(allowed),
			"tabu":       len(swaps) - len(allowed),
		}).Debug("итерация табу-поиска")
	}

	res, err := opt.Finish(dec, best, reason, start)
	if err != nil {
		return opt.Result{}, err
	}
	res.Evaluations = evals
	res.Iterations = k
	res.History = history
	res.Meta = map[string]any{
		"max_iterations":   maxIter,
		"tabu_tenure":      s.Cfg.TabuTenure,
		"initial_priority": string(s.Cfg.InitialPriority),
		"workers":          s.Cfg.Workers,
	}

	log.WithFields(logrus.Fields{
		"makespan":   res.Makespan,
		"iterations": k,
		"exit":       res.ExitCause,
		"reason":     res.Reason,
	}).Info("поиск завершён")
	return res, nil
}

// pairOf возвращает индексы операций, стоящих на позициях T1 и T2 хода.
func pairOf(o *jobshop.ResourceOrder, sw neighborhood.Swap) (int, int) {
	inst := o.Instance()
	seq := o.TasksByMachine[sw.Machine]
	return inst.OpIndex(seq[sw.T1]), inst.OpIndex(seq[sw.T2])
}

// tabuList — табу-матрица размера n×n над индексами операций.
// Ячейка (a, b) хранит итерацию, начиная с которой снова разрешён ход,
// ставящий операцию a на позицию T1, а b — на T2.
type tabuList struct {
	n      int
	expiry []int
}

func newTabuList(n int) *tabuList {
	return &tabuList{n: n, expiry: make([]int, n*n)}
}

// IsTabu проверяет, является ли ход табуированным на итерации iter.
func (t *tabuList) IsTabu(a, b, iter int) bool {
	return iter < t.expiry[a*t.n+b]
}

// Add запрещает ход (a, b) до итерации until.
func (t *tabuList) Add(a, b, until int) {
	t.expiry[a*t.n+b] = until
}

// resize возвращает срез длины n, переиспользуя память buf.
func resize(buf []int, n int) []int {
	if cap(buf) < n {
		return make([]int, n)
	}
	return buf[:n]
}
