package jobshop

import (
	"fmt"
	"slices"
	"strings"
)

// Schedule holds the start time of every operation, as decoded from one
// resource order.
type Schedule struct {
	inst  *Instance
	start []int
	// machinePred is the operation index preceding each operation on its
	// machine in the decoded order, -1 for the first one.
	machinePred []int
}

func (s *Schedule) Instance() *Instance { return s.inst }

func (s *Schedule) Start(t Task) int { return s.start[s.inst.OpIndex(t)] }

func (s *Schedule) End(t Task) int { return s.endOf(s.inst.OpIndex(t)) }

func (s *Schedule) endOf(op int) int { return s.start[op] + s.inst.Durations[op] }

func (s *Schedule) Makespan() int {
	ms := 0
	for op := range s.start {
		ms = max(ms, s.endOf(op))
	}
	return ms
}

func (s *Schedule) JobPredecessor(t Task) (Task, bool) {
	if t.Task == 0 {
		return Task{}, false
	}
	return Task{Job: t.Job, Task: t.Task - 1}, true
}

func (s *Schedule) MachinePredecessor(t Task) (Task, bool) {
	p := s.machinePred[s.inst.OpIndex(t)]
	if p < 0 {
		return Task{}, false
	}
	return s.inst.TaskAt(p), true
}

// IsValid reports whether jobs respect their operation order and no machine
// processes two operations at once.
func (s *Schedule) IsValid() bool {
	inst := s.inst
	for j := 0; j < inst.Jobs; j++ {
		for t := 0; t < inst.Tasks; t++ {
			op := j*inst.Tasks + t
			if s.start[op] < 0 {
				return false
			}
			if t > 0 && s.start[op] < s.endOf(op-1) {
				return false
			}
			if p := s.machinePred[op]; p >= 0 && s.start[op] < s.endOf(p) {
				return false
			}
		}
	}
	byMachine := make([][]int, inst.Machines)
	for op, m := range inst.MachineOf {
		byMachine[m] = append(byMachine[m], op)
	}
	for _, ops := range byMachine {
		slices.SortFunc(ops, func(a, b int) int { return s.start[a] - s.start[b] })
		for i := 1; i < len(ops); i++ {
			if s.start[ops[i]] < s.endOf(ops[i-1]) {
				return false
			}
		}
	}
	return true
}

// CriticalPath returns a longest chain of operations ending at the makespan,
// from its first operation to its last. The walk starts at the lowest
// indexed operation finishing at the makespan and, when both predecessors
// end exactly at the current start time, steps to the job predecessor.
func (s *Schedule) CriticalPath() []Task {
	ms := s.Makespan()
	cur := -1
	for op := range s.start {
		if s.endOf(op) == ms {
			cur = op
			break
		}
	}
	if cur < 0 {
		return nil
	}

	var path []Task
	for {
		t := s.inst.TaskAt(cur)
		path = append(path, t)
		st := s.start[cur]
		if t.Task > 0 && s.endOf(cur-1) == st {
			cur--
			continue
		}
		if p := s.machinePred[cur]; p >= 0 && s.endOf(p) == st {
			cur = p
			continue
		}
		break
	}
	slices.Reverse(path)
	return path
}

func (s *Schedule) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "makespan %d\n", s.Makespan())
	for j := 0; j < s.inst.Jobs; j++ {
		fmt.Fprintf(&sb, "job %d :", j)
		for t := 0; t < s.inst.Tasks; t++ {
			task := Task{Job: j, Task: t}
			fmt.Fprintf(&sb, " m%d[%d,%d)", s.inst.MachineOfTask(task), s.Start(task), s.End(task))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
