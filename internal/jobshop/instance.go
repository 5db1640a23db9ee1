package jobshop

import (
	"errors"
	"fmt"
	"math/rand"
)

// Task identifies one operation: the Task-th step of job Job.
type Task struct {
	Job  int
	Task int
}

func (t Task) String() string {
	return fmt.Sprintf("(%d,%d)", t.Job, t.Task)
}

type Instance struct {
	Name     string
	Jobs     int
	Machines int
	// Tasks is the number of operations of every job.
	Tasks int
	// MachineOf and Durations are indexed by Jobs*Tasks row-major (see OpIndex).
	MachineOf []int
	Durations []int
}

func NewInstance(name string, jobs, machines int, machineOf, durations []int) (*Instance, error) {
	inst := &Instance{Name: name, Jobs: jobs, Machines: machines, MachineOf: machineOf, Durations: durations}
	if jobs > 0 {
		inst.Tasks = len(machineOf) / jobs
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return errors.New("instance is nil")
	}
	if inst.Jobs <= 0 {
		return fmt.Errorf("jobs must be > 0 (got %d)", inst.Jobs)
	}
	if inst.Machines <= 0 {
		return fmt.Errorf("machines must be > 0 (got %d)", inst.Machines)
	}
	if inst.Tasks <= 0 {
		return fmt.Errorf("tasks per job must be > 0 (got %d)", inst.Tasks)
	}
	n := inst.Jobs * inst.Tasks
	if len(inst.MachineOf) != n {
		return fmt.Errorf("machineOf length must be jobs*tasks=%d (got %d)", n, len(inst.MachineOf))
	}
	if len(inst.Durations) != n {
		return fmt.Errorf("durations length must be jobs*tasks=%d (got %d)", n, len(inst.Durations))
	}
	for i, m := range inst.MachineOf {
		if m < 0 || m >= inst.Machines {
			return fmt.Errorf("machineOf[%d]=%d out of range [0,%d)", i, m, inst.Machines)
		}
	}
	for i, d := range inst.Durations {
		if d <= 0 {
			return fmt.Errorf("durations[%d] must be > 0 (got %d)", i, d)
		}
	}
	return nil
}

func (inst *Instance) NumOps() int { return inst.Jobs * inst.Tasks }

func (inst *Instance) OpIndex(t Task) int { return t.Job*inst.Tasks + t.Task }

func (inst *Instance) TaskAt(op int) Task {
	return Task{Job: op / inst.Tasks, Task: op % inst.Tasks}
}

func (inst *Instance) Machine(job, task int) int {
	return inst.MachineOf[job*inst.Tasks+task]
}

func (inst *Instance) Duration(job, task int) int {
	return inst.Durations[job*inst.Tasks+task]
}

func (inst *Instance) MachineOfTask(t Task) int { return inst.Machine(t.Job, t.Task) }

func (inst *Instance) DurationOf(t Task) int { return inst.Duration(t.Job, t.Task) }

// RemainingWork is the total duration of job's operations from position `from` on.
func (inst *Instance) RemainingWork(job, from int) int {
	sum := 0
	for t := from; t < inst.Tasks; t++ {
		sum += inst.Duration(job, t)
	}
	return sum
}

// MachineLoad returns the number of operations that require machine m.
func (inst *Instance) MachineLoad(m int) int {
	cnt := 0
	for _, mm := range inst.MachineOf {
		if mm == m {
			cnt++
		}
	}
	return cnt
}

// RandomInstance builds a square instance: every job visits each machine once,
// in a random order, with durations drawn from [minTime, maxTime].
func RandomInstance(jobs, machines, minTime, maxTime int, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("random generator is not initialised (nil)")
	}
	if minTime <= 0 || maxTime < minTime {
		panic("invalid time bounds")
	}
	machineOf := make([]int, jobs*machines)
	durations := make([]int, jobs*machines)
	span := maxTime - minTime + 1
	for j := 0; j < jobs; j++ {
		route := rng.Perm(machines)
		for t := 0; t < machines; t++ {
			machineOf[j*machines+t] = route[t]
			durations[j*machines+t] = minTime + rng.Intn(span)
		}
	}
	inst, err := NewInstance(fmt.Sprintf("random-%dx%d", jobs, machines), jobs, machines, machineOf, durations)
	if err != nil {
		panic(err)
	}
	return inst
}
