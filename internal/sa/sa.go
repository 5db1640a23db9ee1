package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/neighborhood"
	"jobShop/internal/opt"
)

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log logrus.FieldLogger
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve — реализация эвристики. Соседнее решение — случайный обмен из
// окрестности критических блоков текущего решения.
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	log := opt.Logger(s.Log).WithField("solver", "sa")

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerJob * inst.Jobs
	}

	// Текущее и кандидатное решения
	curr, err := greedy.Construct(inst, s.Cfg.InitialPriority)
	if err != nil {
		return opt.Result{}, err
	}
	cand := curr.Copy()

	dec, err := jobshop.NewDecoder(inst)
	if err != nil {
		return opt.Result{}, err
	}
	sched, err := dec.Decode(curr)
	if err != nil {
		return opt.Result{}, fmt.Errorf("начальное решение недопустимо: %w", err)
	}

	currCost := sched.Makespan()
	bestCost := currCost
	best := curr.Copy()
	history := []int{bestCost}

	evals := 1
	T := s.Cfg.InitialTemp

	var reason opt.StopReason
	iter := 0
	for ; ; iter++ {
		if iter >= maxIter {
			reason = opt.IterationLimit
			break
		}
		if T <= s.Cfg.FinalTemp {
			reason = opt.Cooled
			break
		}
		// Для поддержки отмены через context
		if ctx.Err() != nil {
			reason = opt.Deadline
			break
		}

		// Путь без блоков состоит из операций одной работы: решение оптимально
		swaps := neighborhood.Candidates(neighborhood.BlocksOfCriticalPath(curr, sched))
		if len(swaps) == 0 {
			reason = opt.Converged
			break
		}

		cand.CopyFrom(curr)
		swaps[s.Rng.Intn(len(swaps))].ApplyOn(cand)
		candCost, ok := dec.Makespan(cand)
		evals++

		accept := false
		if ok {
			delta := candCost - currCost
			if delta <= 0 {
				// Улучшающее решение принимаем всегда
				accept = true
			} else {
				// Критерий Метрополиса:
				// допускает принятие ухудшающих решений
				p := math.Exp(-float64(delta) / T)
				if s.Rng.Float64() < p {
					accept = true
				}
			}
		}

		if accept {
			// Обмен ролей текущего и кандидатного решений
			curr, cand = cand, curr
			currCost = candCost
			if sched, err = dec.Decode(curr); err != nil {
				return opt.Result{}, err
			}

			// Обновление глобально лучшего решения
			if currCost < bestCost {
				bestCost = currCost
				best.CopyFrom(curr)
			}
		}
		history = append(history, bestCost)

		// Охлаждение температуры
		T *= s.Cfg.Alpha
	}

	res, err := opt.Finish(dec, best, reason, start)
	if err != nil {
		return opt.Result{}, err
	}
	res.Evaluations = evals
	res.Iterations = iter
	res.History = history
	res.Meta = map[string]any{
		"initial_temp": s.Cfg.InitialTemp,
		"final_temp":   s.Cfg.FinalTemp,
		"alpha":        s.Cfg.Alpha,
		"T":            T,
	}

	log.WithFields(logrus.Fields{
		"makespan":   res.Makespan,
		"iterations": iter,
		"exit":       res.ExitCause,
		"reason":     res.Reason,
	}).Info("поиск завершён")
	return res, nil
}
