package ga

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

// Solver — реализация генетического алгоритма для задачи job-shop.
// Хромосома — последовательность номеров работ (JobNumbers), поэтому любая
// особь декодируется в допустимое расписание.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log logrus.FieldLogger
}

// New возвращает новый GA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Solve — реализация эвристики.
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()

	// Проверка корректности входных данных и конфигурации
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	log := opt.Logger(s.Log).WithField("solver", "ga")

	dec, err := jobshop.NewDecoder(inst)
	if err != nil {
		return opt.Result{}, err
	}
	// Буферы декодирования хромосомы
	order := jobshop.NewResourceOrder(inst)
	next := make([]int, inst.Jobs)
	fitness := func(c []int) (int, error) {
		if err := jobshop.DecodeJobs(inst, c, order, next); err != nil {
			return 0, err
		}
		ms, ok := dec.Makespan(order)
		if !ok {
			return 0, jobshop.ErrInfeasible
		}
		return ms, nil
	}

	n := inst.NumOps()
	popSize := s.Cfg.Population

	// Вспомогательная анонимная функция для создания двумерного массива хромосом
	makeChromosomes := func() [][]int {
		backing := make([]int, popSize*n)
		chroms := make([][]int, popSize)
		for i := 0; i < popSize; i++ {
			chroms[i] = backing[i*n : (i+1)*n]
		}
		return chroms
	}

	// Две популяции: текущая (A) и следующая (B)
	popA := makeChromosomes()
	popB := makeChromosomes()
	scoresA := make([]int, popSize)
	scoresB := make([]int, popSize)

	// Инициализация начальной популяции
	first := 0
	if s.Cfg.InitialPriority != "" {
		seed, err := greedy.Construct(inst, s.Cfg.InitialPriority)
		if err != nil {
			return opt.Result{}, err
		}
		sched, err := dec.Decode(seed)
		if err != nil {
			return opt.Result{}, fmt.Errorf("начальное решение недопустимо: %w", err)
		}
		copy(popA[0], jobshop.JobNumbersOf(sched).Jobs)
		first = 1
	}
	for i := first; i < popSize; i++ {
		initChromosome(popA[i], inst.Tasks)
		s.Rng.Shuffle(n, func(a, b int) { popA[i][a], popA[i][b] = popA[i][b], popA[i][a] })
	}
	for i := 0; i < popSize; i++ {
		if scoresA[i], err = fitness(popA[i]); err != nil {
			return opt.Result{}, err
		}
	}
	evaluations := popSize

	// Поиск лучшего решения в начальной популяции
	bestChrom := make([]int, n)
	bestMakespan := scoresA[0]
	copy(bestChrom, popA[0])
	for i := 1; i < popSize; i++ {
		if scoresA[i] < bestMakespan {
			bestMakespan = scoresA[i]
			copy(bestChrom, popA[i])
		}
	}
	history := []int{bestMakespan}

	// mark и stamp используются кроссовером для отметки сохраняемых работ
	mark := make([]int, inst.Jobs)
	stamp := 0

	// Временный буфер для второго потомка,
	// если в популяции остаётся нечётное число мест
	scratchChild := make([]int, n)

	// Индексы для сортировки популяции по приспособленности
	idxs := make([]int, popSize)
	for i := range idxs {
		idxs[i] = i
	}

	reason := opt.IterationLimit
	gen := 0
	for ; gen < s.Cfg.Generations; gen++ {
		// Для поддержки отмены через context
		if ctx.Err() != nil {
			reason = opt.Deadline
			break
		}

		// Сортировка индексов по возрастанию значения целевой функции
		sort.SliceStable(idxs, func(i, j int) bool {
			return scoresA[idxs[i]] < scoresA[idxs[j]]
		})

		write := 0

		// Элитизм (переносим лучших особей без изменений)
		for e := 0; e < s.Cfg.Elite; e++ {
			src := idxs[e]
			copy(popB[write], popA[src])
			scoresB[write] = scoresA[src]
			write++
		}

		// Генерация остальных особей нового поколения
		for write < popSize {
			// Турнирный отбор
			p1 := tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
			p2 := tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
			for p2 == p1 {
				p2 = tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
			}

			child1 := popB[write]
			hasSecond := write+1 < popSize
			child2 := scratchChild
			if hasSecond {
				child2 = popB[write+1]
			}

			// Кроссовер
			if s.Rng.Float64() < s.Cfg.CrossoverRate {
				jobOrderCrossover(popA[p1], popA[p2], child1, child2, s.Rng, mark, &stamp)
			} else {
				copy(child1, popA[p1])
				copy(child2, popA[p2])
			}

			// Мутация
			if s.Rng.Float64() < s.Cfg.MutationRate {
				mutateSwap(child1, s.Rng)
			}
			if hasSecond && s.Rng.Float64() < s.Cfg.MutationRate {
				mutateSwap(child2, s.Rng)
			}

			// Оценка потомков
			children := [][]int{child1}
			if hasSecond {
				children = append(children, child2)
			}
			for _, child := range children {
				ms, err := fitness(child)
				if err != nil {
					return opt.Result{}, err
				}
				scoresB[write] = ms
				evaluations++
				if ms < bestMakespan {
					bestMakespan = ms
					copy(bestChrom, child)
				}
				write++
			}
		}

		// Смена поколений
		popA, popB = popB, popA
		scoresA, scoresB = scoresB, scoresA
		history = append(history, bestMakespan)

		log.WithFields(logrus.Fields{
			"generation": gen + 1,
			"best":       bestMakespan,
		}).Debug("поколение")
	}

	if err := jobshop.DecodeJobs(inst, bestChrom, order, next); err != nil {
		return opt.Result{}, err
	}
	res, err := opt.Finish(dec, order, reason, start)
	if err != nil {
		return opt.Result{}, err
	}
	res.Evaluations = evaluations
	res.Iterations = gen
	res.History = history
	res.Meta = map[string]any{
		"population":  s.Cfg.Population,
		"generations": s.Cfg.Generations,
		"elite":       s.Cfg.Elite,
	}

	log.WithFields(logrus.Fields{
		"makespan":    res.Makespan,
		"generations": gen,
		"exit":        res.ExitCause,
		"reason":      res.Reason,
	}).Info("поиск завершён")
	return res, nil
}
