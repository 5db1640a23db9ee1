package neighborhood

import (
	"fmt"

	"github.com/samber/lo"

	"jobShop/internal/jobshop"
)

// Block is a run of at least two consecutive critical-path operations on one
// machine. FirstTask and LastTask are positions in that machine's sequence.
//
// For the resource order
//
//	machine 0 : (0,1) (1,2) (2,2)
//	machine 1 : (0,2) (2,1) (1,1)
//
// Block{Machine: 1, FirstTask: 0, LastTask: 1} stands for [(0,2) (2,1)].
type Block struct {
	Machine   int
	FirstTask int
	LastTask  int
}

func (b Block) Len() int { return b.LastTask - b.FirstTask + 1 }

func (b Block) String() string {
	return fmt.Sprintf("machine %d : [%d to %d]", b.Machine, b.FirstTask, b.LastTask)
}

// Swap exchanges positions T1 and T2 of one machine's sequence.
type Swap struct {
	Machine int
	T1      int
	T2      int
}

func (s Swap) ApplyOn(o *jobshop.ResourceOrder) {
	o.SwapTasks(s.Machine, s.T1, s.T2)
}

func (s Swap) String() string {
	return fmt.Sprintf("machine %d : swap %d and %d", s.Machine, s.T1, s.T2)
}

// BlocksOfCriticalPath splits the critical path of sched into maximal
// same-machine runs and keeps those of length two or more, in path order.
// sched must be the decoding of order.
func BlocksOfCriticalPath(order *jobshop.ResourceOrder, sched *jobshop.Schedule) []Block {
	inst := order.Instance()
	path := sched.CriticalPath()

	var blocks []Block
	for start := 0; start < len(path); {
		m := inst.MachineOfTask(path[start])
		end := start
		for end+1 < len(path) && inst.MachineOfTask(path[end+1]) == m {
			end++
		}
		if end > start {
			blocks = append(blocks, Block{
				Machine:   m,
				FirstTask: order.IndexOf(m, path[start]),
				LastTask:  order.IndexOf(m, path[end]),
			})
		}
		start = end + 1
	}
	return blocks
}

// Neighbors returns the Nowicki-Smutnicki moves of b: the single swap of a
// two-operation block, otherwise the swap of its first two and of its last
// two operations.
func Neighbors(b Block) []Swap {
	if b.Len() == 2 {
		return []Swap{{Machine: b.Machine, T1: b.FirstTask, T2: b.LastTask}}
	}
	return []Swap{
		{Machine: b.Machine, T1: b.FirstTask, T2: b.FirstTask + 1},
		{Machine: b.Machine, T1: b.LastTask - 1, T2: b.LastTask},
	}
}

// Candidates lists the moves of every block, block by block.
func Candidates(blocks []Block) []Swap {
	return lo.FlatMap(blocks, func(b Block, _ int) []Swap { return Neighbors(b) })
}
