package jobshop

import (
	"fmt"
	"slices"
	"strings"
)

// ResourceOrder encodes a solution as the processing sequence of every machine.
type ResourceOrder struct {
	inst           *Instance
	TasksByMachine [][]Task
}

// NewResourceOrder returns an order with empty machine sequences, sized to
// hold every operation of the instance.
func NewResourceOrder(inst *Instance) *ResourceOrder {
	o := &ResourceOrder{inst: inst, TasksByMachine: make([][]Task, inst.Machines)}
	for m := range o.TasksByMachine {
		o.TasksByMachine[m] = make([]Task, 0, inst.MachineLoad(m))
	}
	return o
}

func (o *ResourceOrder) Instance() *Instance { return o.inst }

// Append puts t at the end of its machine's sequence.
func (o *ResourceOrder) Append(t Task) {
	m := o.inst.MachineOfTask(t)
	o.TasksByMachine[m] = append(o.TasksByMachine[m], t)
}

// Copy returns a deep copy; no machine sequence is shared with o.
func (o *ResourceOrder) Copy() *ResourceOrder {
	c := &ResourceOrder{inst: o.inst, TasksByMachine: make([][]Task, len(o.TasksByMachine))}
	for m, seq := range o.TasksByMachine {
		c.TasksByMachine[m] = slices.Clone(seq)
	}
	return c
}

// CopyFrom overwrites o with src, reusing o's buffers when they are large enough.
func (o *ResourceOrder) CopyFrom(src *ResourceOrder) {
	o.inst = src.inst
	if len(o.TasksByMachine) != len(src.TasksByMachine) {
		o.TasksByMachine = make([][]Task, len(src.TasksByMachine))
	}
	for m, seq := range src.TasksByMachine {
		o.TasksByMachine[m] = append(o.TasksByMachine[m][:0], seq...)
	}
}

// Reset empties every machine sequence, keeping the buffers.
func (o *ResourceOrder) Reset() {
	for m := range o.TasksByMachine {
		o.TasksByMachine[m] = o.TasksByMachine[m][:0]
	}
}

func (o *ResourceOrder) SwapTasks(machine, i, j int) {
	seq := o.TasksByMachine[machine]
	seq[i], seq[j] = seq[j], seq[i]
}

// IndexOf returns the position of t in machine's sequence, or -1.
func (o *ResourceOrder) IndexOf(machine int, t Task) int {
	return slices.Index(o.TasksByMachine[machine], t)
}

func (o *ResourceOrder) Equal(other *ResourceOrder) bool {
	if len(o.TasksByMachine) != len(other.TasksByMachine) {
		return false
	}
	for m := range o.TasksByMachine {
		if !slices.Equal(o.TasksByMachine[m], other.TasksByMachine[m]) {
			return false
		}
	}
	return true
}

// Validate checks that every machine sequence is a permutation of the
// operations the instance assigns to that machine.
func (o *ResourceOrder) Validate() error {
	if o == nil || o.inst == nil {
		return fmt.Errorf("resource order is not bound to an instance")
	}
	inst := o.inst
	if len(o.TasksByMachine) != inst.Machines {
		return fmt.Errorf("resource order has %d machines (want %d)", len(o.TasksByMachine), inst.Machines)
	}
	seen := make([]bool, inst.NumOps())
	total := 0
	for m, seq := range o.TasksByMachine {
		for i, t := range seq {
			if t.Job < 0 || t.Job >= inst.Jobs || t.Task < 0 || t.Task >= inst.Tasks {
				return fmt.Errorf("machine %d position %d: task %v out of range", m, i, t)
			}
			if inst.MachineOfTask(t) != m {
				return fmt.Errorf("machine %d position %d: task %v requires machine %d", m, i, t, inst.MachineOfTask(t))
			}
			op := inst.OpIndex(t)
			if seen[op] {
				return fmt.Errorf("machine %d position %d: duplicate task %v", m, i, t)
			}
			seen[op] = true
			total++
		}
	}
	if total != inst.NumOps() {
		return fmt.Errorf("resource order holds %d tasks (want %d)", total, inst.NumOps())
	}
	return nil
}

// FromSchedule builds the order in which s processes operations on every machine.
func FromSchedule(s *Schedule) *ResourceOrder {
	o := NewResourceOrder(s.inst)
	for op := 0; op < s.inst.NumOps(); op++ {
		o.Append(s.inst.TaskAt(op))
	}
	for _, seq := range o.TasksByMachine {
		slices.SortStableFunc(seq, func(a, b Task) int {
			return s.Start(a) - s.Start(b)
		})
	}
	return o
}

func (o *ResourceOrder) String() string {
	var sb strings.Builder
	for m, seq := range o.TasksByMachine {
		fmt.Fprintf(&sb, "machine %d :", m)
		for _, t := range seq {
			sb.WriteByte(' ')
			sb.WriteString(t.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
