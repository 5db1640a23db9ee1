package jobshop

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoJobs: job 0 = (M0,3) (M1,2) (M2,2), job 1 = (M1,2) (M0,1) (M2,4).
func twoJobs(t *testing.T) *Instance {
	t.Helper()
	inst, err := LoadFile(instanceDirectory + "aaa2")
	require.NoError(t, err)
	return inst
}

func orderOf(inst *Instance, machines ...[]Task) *ResourceOrder {
	o := NewResourceOrder(inst)
	for _, seq := range machines {
		for _, t := range seq {
			o.Append(t)
		}
	}
	return o
}

var (
	a0 = Task{Job: 0, Task: 0}
	a1 = Task{Job: 0, Task: 1}
	a2 = Task{Job: 0, Task: 2}
	b0 = Task{Job: 1, Task: 0}
	b1 = Task{Job: 1, Task: 1}
	b2 = Task{Job: 1, Task: 2}
)

func TestDecode(t *testing.T) {
	inst := twoJobs(t)
	dec, err := NewDecoder(inst)
	require.NoError(t, err)

	t.Run("Greedy order", func(t *testing.T) {
		o := orderOf(inst, []Task{a0, b1}, []Task{b0, a1}, []Task{b2, a2})
		require.NoError(t, o.Validate())

		s, err := dec.Decode(o)
		require.NoError(t, err)

		assert.True(t, s.IsValid())
		assert.Equal(t, 10, s.Makespan())
		for task, want := range map[Task]int{a0: 0, a1: 3, a2: 8, b0: 0, b1: 3, b2: 4} {
			assert.Equal(t, want, s.Start(task), "start of %v", task)
		}
		assert.Equal(t, 10, s.End(a2))

		ms, ok := dec.Makespan(o)
		assert.True(t, ok)
		assert.Equal(t, 10, ms)
	})

	t.Run("Machine-first order", func(t *testing.T) {
		o := orderOf(inst, []Task{a0, b1}, []Task{a1, b0}, []Task{a2, b2})

		s, err := dec.Decode(o)
		require.NoError(t, err)

		assert.True(t, s.IsValid())
		assert.Equal(t, 12, s.Makespan())
		assert.Equal(t, 5, s.Start(b0))
		assert.Equal(t, 7, s.Start(b1))
		assert.Equal(t, 8, s.Start(b2))
	})

	t.Run("Cycle", func(t *testing.T) {
		// b1 waits for b0, b0 waits for a1 on M1, a1 waits for a0, a0 waits for b1 on M0.
		o := orderOf(inst, []Task{b1, a0}, []Task{a1, b0}, []Task{a2, b2})
		require.NoError(t, o.Validate())

		s, err := dec.Decode(o)
		assert.ErrorIs(t, err, ErrInfeasible)
		assert.Nil(t, s)

		ms, ok := dec.Makespan(o)
		assert.False(t, ok)
		assert.Equal(t, Infeasible, ms)
	})

	t.Run("Reuse after infeasible", func(t *testing.T) {
		bad := orderOf(inst, []Task{b1, a0}, []Task{a1, b0}, []Task{a2, b2})
		good := orderOf(inst, []Task{a0, b1}, []Task{b0, a1}, []Task{b2, a2})

		_, ok := dec.Makespan(bad)
		require.False(t, ok)
		ms, ok := dec.Makespan(good)
		assert.True(t, ok)
		assert.Equal(t, 10, ms)
	})
}

func TestDecodeIsDeterministic(t *testing.T) {
	inst := twoJobs(t)
	dec, err := NewDecoder(inst)
	require.NoError(t, err)
	o := orderOf(inst, []Task{a0, b1}, []Task{b0, a1}, []Task{b2, a2})

	first, err := dec.Decode(o)
	require.NoError(t, err)
	second, err := dec.Decode(o)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeRandomOrders(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	inst := RandomInstance(8, 5, 1, 20, rng)
	dec, err := NewDecoder(inst)
	require.NoError(t, err)

	for run := 0; run < 50; run++ {
		// Arrange
		o, err := RandomJobNumbers(inst, rng).ToResourceOrder()
		require.NoError(t, err)
		require.NoError(t, o.Validate())

		// Act
		s, err := dec.Decode(o)
		require.NoError(t, err)

		// Assert
		assert.True(t, s.IsValid())
		ms, ok := dec.Makespan(o)
		assert.True(t, ok)
		assert.Equal(t, s.Makespan(), ms)
		assert.True(t, FromSchedule(s).Equal(o))
		back, err := JobNumbersOf(s).ToResourceOrder()
		require.NoError(t, err)
		assert.True(t, back.Equal(o))
		for m, seq := range o.TasksByMachine {
			for i := 1; i < len(seq); i++ {
				pred, ok := s.MachinePredecessor(seq[i])
				assert.True(t, ok)
				assert.Equal(t, seq[i-1], pred, "machine %d", m)
				assert.GreaterOrEqual(t, s.Start(seq[i]), s.End(seq[i-1]))
			}
		}
	}
}

func TestResourceOrderCopy(t *testing.T) {
	inst := twoJobs(t)
	o := orderOf(inst, []Task{a0, b1}, []Task{b0, a1}, []Task{b2, a2})

	c := o.Copy()
	c.SwapTasks(0, 0, 1)

	assert.Equal(t, []Task{a0, b1}, o.TasksByMachine[0])
	assert.Equal(t, []Task{b1, a0}, c.TasksByMachine[0])
	assert.False(t, o.Equal(c))

	c.CopyFrom(o)
	assert.True(t, o.Equal(c))
	c.SwapTasks(2, 0, 1)
	assert.Equal(t, []Task{b2, a2}, o.TasksByMachine[2])
	assert.Equal(t, 1, o.IndexOf(1, a1))
	assert.Equal(t, -1, o.IndexOf(1, a0))
}

func TestResourceOrderValidate(t *testing.T) {
	inst := twoJobs(t)

	t.Run("Missing task", func(t *testing.T) {
		o := orderOf(inst, []Task{a0, b1}, []Task{b0, a1}, []Task{b2})
		assert.Error(t, o.Validate())
	})
	t.Run("Duplicate task", func(t *testing.T) {
		o := orderOf(inst, []Task{a0, b1}, []Task{b0, a1}, []Task{b2, a2})
		o.TasksByMachine[0][1] = a0
		assert.Error(t, o.Validate())
	})
	t.Run("Wrong machine", func(t *testing.T) {
		o := orderOf(inst, []Task{a0, b1}, []Task{b0, a1}, []Task{b2, a2})
		o.TasksByMachine[0][1], o.TasksByMachine[1][0] = o.TasksByMachine[1][0], o.TasksByMachine[0][1]
		assert.Error(t, o.Validate())
	})
}

func TestJobNumbers(t *testing.T) {
	inst := twoJobs(t)

	enc := NewJobNumbers(inst)
	for _, j := range []int{0, 1, 1, 0, 0, 1} {
		enc.Add(j)
	}
	o, err := enc.ToResourceOrder()
	require.NoError(t, err)
	assert.Equal(t, []Task{a0, b1}, o.TasksByMachine[0])
	assert.Equal(t, []Task{b0, a1}, o.TasksByMachine[1])
	assert.Equal(t, []Task{a2, b2}, o.TasksByMachine[2])

	enc.Add(0)
	_, err = enc.ToResourceOrder()
	assert.Error(t, err)
}

func TestDecodeJobsReusesOrder(t *testing.T) {
	inst := twoJobs(t)
	dst := orderOf(inst, []Task{a0, b1}, []Task{b0, a1}, []Task{b2, a2})
	next := make([]int, inst.Jobs)

	require.NoError(t, DecodeJobs(inst, []int{0, 0, 0, 1, 1, 1}, dst, next))
	assert.Equal(t, []Task{a0, b1}, dst.TasksByMachine[0])
	assert.Equal(t, []Task{a1, b0}, dst.TasksByMachine[1])
	assert.Equal(t, []Task{a2, b2}, dst.TasksByMachine[2])
	assert.NoError(t, dst.Validate())

	assert.Error(t, DecodeJobs(inst, []int{0, 0, 0, 0, 1, 1}, dst, next))
	assert.Error(t, DecodeJobs(inst, []int{0, 0, 0, 1, 1, 2}, dst, next))
	assert.Error(t, DecodeJobs(inst, []int{0, 1}, dst, next))
}
