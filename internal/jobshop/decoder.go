package jobshop

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Infeasible is the makespan assigned to an order that has no schedule.
const Infeasible = math.MaxInt

var ErrInfeasible = errors.New("resource order contains a precedence cycle")

// Decoder turns resource orders into schedules. Its buffers are reused between
// calls, so a Decoder must not be shared by concurrent goroutines.
type Decoder struct {
	inst *Instance

	start    []int
	jobNext  []int
	jobFree  []int
	machNext []int
	machFree []int
	pending  []int
}

func NewDecoder(inst *Instance) (*Decoder, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{
		inst:     inst,
		start:    make([]int, inst.NumOps()),
		jobNext:  make([]int, inst.Jobs),
		jobFree:  make([]int, inst.Jobs),
		machNext: make([]int, inst.Machines),
		machFree: make([]int, inst.Machines),
		pending:  make([]int, 0, inst.Machines+inst.NumOps()),
	}, nil
}

// Makespan decodes o into the scratch buffers and returns its makespan.
// ok is false when o contains a cycle, in which case the makespan is Infeasible.
func (d *Decoder) Makespan(o *ResourceOrder) (makespan int, ok bool) {
	if !d.simulate(o) {
		return Infeasible, false
	}
	for _, end := range d.jobFree {
		if end > makespan {
			makespan = end
		}
	}
	return makespan, true
}

// Decode returns a freshly allocated schedule for o, or ErrInfeasible.
func (d *Decoder) Decode(o *ResourceOrder) (*Schedule, error) {
	if o == nil || o.inst != d.inst {
		return nil, fmt.Errorf("resource order is not bound to the decoder's instance")
	}
	if !d.simulate(o) {
		return nil, ErrInfeasible
	}
	s := &Schedule{
		inst:        d.inst,
		start:       slices.Clone(d.start),
		machinePred: make([]int, d.inst.NumOps()),
	}
	for _, seq := range o.TasksByMachine {
		prev := -1
		for _, t := range seq {
			op := d.inst.OpIndex(t)
			s.machinePred[op] = prev
			prev = op
		}
	}
	return s, nil
}

// simulate computes start times with list scheduling. A machine is revisited
// only when the job predecessor of its next operation completes, so every
// operation is handled once.
func (d *Decoder) simulate(o *ResourceOrder) bool {
	inst := d.inst
	if len(o.TasksByMachine) != inst.Machines {
		return false
	}
	clear(d.jobNext)
	clear(d.jobFree)
	clear(d.machNext)
	clear(d.machFree)

	d.pending = d.pending[:0]
	for m := inst.Machines - 1; m >= 0; m-- {
		d.pending = append(d.pending, m)
	}

	done := 0
	for len(d.pending) > 0 {
		m := d.pending[len(d.pending)-1]
		d.pending = d.pending[:len(d.pending)-1]

		seq := o.TasksByMachine[m]
		for d.machNext[m] < len(seq) {
			t := seq[d.machNext[m]]
			if t.Job < 0 || t.Job >= inst.Jobs || d.jobNext[t.Job] != t.Task {
				break
			}
			op := inst.OpIndex(t)
			st := max(d.jobFree[t.Job], d.machFree[m])
			end := st + inst.Durations[op]
			d.start[op] = st
			d.jobFree[t.Job] = end
			d.machFree[m] = end
			d.jobNext[t.Job]++
			d.machNext[m]++
			done++

			if next := d.jobNext[t.Job]; next < inst.Tasks {
				if nm := inst.Machine(t.Job, next); nm != m {
					d.pending = append(d.pending, nm)
				}
			}
		}
	}
	return done == inst.NumOps()
}
