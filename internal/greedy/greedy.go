package greedy

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

// Solver строит одно решение жадным алгоритмом и не улучшает его.
type Solver struct {
	Cfg Config
	Log logrus.FieldLogger
}

// New возвращает жадный солвер с валидацией конфигурации.
func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg}, nil
}

func (s *Solver) Solve(_ context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}

	order, err := Construct(inst, s.Cfg.Priority)
	if err != nil {
		return opt.Result{}, err
	}
	dec, err := jobshop.NewDecoder(inst)
	if err != nil {
		return opt.Result{}, err
	}

	res, err := opt.Finish(dec, order, opt.Constructed, start)
	if err != nil {
		return opt.Result{}, err
	}
	res.Evaluations = 1
	res.History = []int{res.Makespan}
	res.Meta = map[string]any{"priority": string(s.Cfg.Priority)}

	opt.Logger(s.Log).WithFields(logrus.Fields{
		"solver":   "greedy",
		"priority": s.Cfg.Priority,
		"makespan": res.Makespan,
	}).Info("построено начальное решение")
	return res, nil
}

// candidate — реализуемая операция на текущем шаге построения.
type candidate struct {
	task      jobshop.Task
	machine   int
	duration  int
	est       int
	remaining int
}

// Construct строит порядок на машинах, добавляя на каждом шаге одну
// реализуемую операцию (следующую невыполненную операцию какой-либо работы),
// выбранную правилом p. Операции каждой работы попадают в порядок по
// возрастанию позиции, поэтому результат всегда допустим.
func Construct(inst *jobshop.Instance, p Priority) (*jobshop.ResourceOrder, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	next := make([]int, inst.Jobs)
	jobFree := make([]int, inst.Jobs)
	machineFree := make([]int, inst.Machines)
	remaining := make([]int, inst.Jobs)
	for j := range remaining {
		remaining[j] = inst.RemainingWork(j, 0)
	}

	order := jobshop.NewResourceOrder(inst)
	cands := make([]candidate, 0, inst.Jobs)

	for step := 0; step < inst.NumOps(); step++ {
		cands = cands[:0]
		for j := 0; j < inst.Jobs; j++ {
			if next[j] == inst.Tasks {
				continue
			}
			t := jobshop.Task{Job: j, Task: next[j]}
			m := inst.MachineOfTask(t)
			cands = append(cands, candidate{
				task:      t,
				machine:   m,
				duration:  inst.DurationOf(t),
				est:       max(jobFree[j], machineFree[m]),
				remaining: remaining[j],
			})
		}

		pool := cands
		if p.usesEST() {
			minEST := lo.MinBy(cands, func(a, b candidate) bool { return a.est < b.est }).est
			pool = lo.Filter(cands, func(c candidate, _ int) bool { return c.est == minEST })
		}

		var chosen candidate
		switch p {
		case SPT, ESTSPT:
			chosen = lo.MinBy(pool, func(a, b candidate) bool { return a.duration < b.duration })
		case LRPT, ESTLRPT:
			chosen = lo.MaxBy(pool, func(a, b candidate) bool { return a.remaining > b.remaining })
		}

		order.Append(chosen.task)
		end := chosen.est + chosen.duration
		j := chosen.task.Job
		jobFree[j] = end
		machineFree[chosen.machine] = end
		remaining[j] -= chosen.duration
		next[j]++
	}
	return order, nil
}
