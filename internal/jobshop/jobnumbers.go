package jobshop

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
)

// JobNumbers is the job-sequence encoding: the k-th occurrence of job j stands
// for operation (j, k). Any sequence in which every job appears Tasks times
// yields a feasible resource order.
type JobNumbers struct {
	inst *Instance
	Jobs []int
}

func NewJobNumbers(inst *Instance) *JobNumbers {
	return &JobNumbers{inst: inst, Jobs: make([]int, 0, inst.NumOps())}
}

// RandomJobNumbers returns a uniformly shuffled job sequence.
func RandomJobNumbers(inst *Instance, rng *rand.Rand) *JobNumbers {
	e := NewJobNumbers(inst)
	for j := 0; j < inst.Jobs; j++ {
		for t := 0; t < inst.Tasks; t++ {
			e.Add(j)
		}
	}
	rng.Shuffle(len(e.Jobs), func(a, b int) { e.Jobs[a], e.Jobs[b] = e.Jobs[b], e.Jobs[a] })
	return e
}

func (e *JobNumbers) Add(job int) { e.Jobs = append(e.Jobs, job) }

func (e *JobNumbers) ToResourceOrder() (*ResourceOrder, error) {
	o := NewResourceOrder(e.inst)
	if err := DecodeJobs(e.inst, e.Jobs, o, make([]int, e.inst.Jobs)); err != nil {
		return nil, err
	}
	return o, nil
}

// DecodeJobs overwrites dst with the resource order encoded by jobs. next is
// scratch space of length inst.Jobs.
func DecodeJobs(inst *Instance, jobs []int, dst *ResourceOrder, next []int) error {
	if len(jobs) != inst.NumOps() {
		return fmt.Errorf("job sequence length must be %d (got %d)", inst.NumOps(), len(jobs))
	}
	clear(next)
	dst.Reset()
	for i, j := range jobs {
		if j < 0 || j >= inst.Jobs {
			return fmt.Errorf("jobs[%d]=%d out of range [0,%d)", i, j, inst.Jobs)
		}
		if next[j] == inst.Tasks {
			return fmt.Errorf("job %d appears more than %d times", j, inst.Tasks)
		}
		dst.Append(Task{Job: j, Task: next[j]})
		next[j]++
	}
	return nil
}

// JobNumbersOf returns the job sequence listing the operations of s by start
// time (ties by job). It decodes back to FromSchedule(s).
func JobNumbersOf(s *Schedule) *JobNumbers {
	inst := s.Instance()
	ops := make([]Task, 0, inst.NumOps())
	for op := 0; op < inst.NumOps(); op++ {
		ops = append(ops, inst.TaskAt(op))
	}
	slices.SortStableFunc(ops, func(a, b Task) int {
		return cmp.Compare(s.Start(a), s.Start(b))
	})
	e := NewJobNumbers(inst)
	for _, t := range ops {
		e.Add(t.Job)
	}
	return e
}
