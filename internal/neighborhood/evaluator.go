package neighborhood

import (
	"context"
	"fmt"
	"sync"

	"jobShop/internal/jobshop"
)

// Evaluator prices candidate swaps against a base order. Each worker owns a
// decoder and a scratch order, so the base order is never modified.
type Evaluator struct {
	workers  []worker
	parallel bool
}

type worker struct {
	dec     *jobshop.Decoder
	scratch *jobshop.ResourceOrder
}

func NewEvaluator(inst *jobshop.Instance, workers int) (*Evaluator, error) {
	if workers < 1 {
		return nil, fmt.Errorf("workers must be >= 1 (got %d)", workers)
	}
	e := &Evaluator{workers: make([]worker, workers), parallel: workers > 1}
	for i := range e.workers {
		dec, err := jobshop.NewDecoder(inst)
		if err != nil {
			return nil, err
		}
		e.workers[i] = worker{dec: dec, scratch: jobshop.NewResourceOrder(inst)}
	}
	return e, nil
}

// Evaluate stores in costs[i] the makespan of base with swaps[i] applied, or
// jobshop.Infeasible. It returns the context error, with costs partially
// filled, if ctx is done before the batch completes.
func (e *Evaluator) Evaluate(ctx context.Context, base *jobshop.ResourceOrder, swaps []Swap, costs []int) error {
	if len(costs) < len(swaps) {
		return fmt.Errorf("costs length must be >= %d (got %d)", len(swaps), len(costs))
	}
	if !e.parallel || len(swaps) < 2 {
		return e.workers[0].run(ctx, base, swaps, costs, 0, 1)
	}

	n := min(len(e.workers), len(swaps))
	errs := make([]error, n)
	var wg sync.WaitGroup
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			errs[w] = e.workers[w].run(ctx, base, swaps, costs, w, n)
		}(w)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// run handles the candidates with index offset, offset+stride, ...
func (w worker) run(ctx context.Context, base *jobshop.ResourceOrder, swaps []Swap, costs []int, offset, stride int) error {
	for i := offset; i < len(swaps); i += stride {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.scratch.CopyFrom(base)
		swaps[i].ApplyOn(w.scratch)
		costs[i], _ = w.dec.Makespan(w.scratch)
	}
	return nil
}

// Best returns the index of the lowest cost, the first one on ties, or -1
// when every candidate is infeasible.
func Best(costs []int) int {
	best := -1
	for i, c := range costs {
		if c == jobshop.Infeasible {
			continue
		}
		if best < 0 || c < costs[best] {
			best = i
		}
	}
	return best
}
