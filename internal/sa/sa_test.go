package sa

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

const instanceDirectory = "../../instances/"

func loadFt06(t *testing.T) *jobshop.Instance {
	t.Helper()
	inst, err := jobshop.LoadFile(instanceDirectory + "ft06")
	require.NoError(t, err)
	return inst
}

func TestSolve(t *testing.T) {
	inst := loadFt06(t)
	order, err := greedy.Construct(inst, greedy.ESTLRPT)
	require.NoError(t, err)
	dec, err := jobshop.NewDecoder(inst)
	require.NoError(t, err)
	initial, ok := dec.Makespan(order)
	require.True(t, ok)

	cfg := DefaultConfig()
	cfg.Iterations = 2000
	solver, err := New(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	res, err := solver.Solve(context.Background(), inst)
	require.NoError(t, err)

	assert.LessOrEqual(t, res.Makespan, initial)
	assert.GreaterOrEqual(t, res.Makespan, 55)
	assert.Equal(t, opt.Blocked, res.ExitCause)
	assert.True(t, res.Schedule.IsValid())
	assert.Equal(t, res.Makespan, res.History[len(res.History)-1])
	for i := 1; i < len(res.History); i++ {
		assert.LessOrEqual(t, res.History[i], res.History[i-1])
	}
}

func TestSolveIsReproducible(t *testing.T) {
	inst := loadFt06(t)
	cfg := DefaultConfig()
	cfg.Iterations = 500

	first, err := New(cfg, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	second, err := New(cfg, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	a, err := first.Solve(context.Background(), inst)
	require.NoError(t, err)
	b, err := second.Solve(context.Background(), inst)
	require.NoError(t, err)

	assert.Equal(t, a.History, b.History)
	assert.True(t, a.Order.Equal(b.Order))
}

func TestSolveCooled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialTemp = 1
	cfg.FinalTemp = 0.5
	cfg.Alpha = 0.5
	solver, err := New(cfg, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	res, err := solver.Solve(context.Background(), loadFt06(t))
	require.NoError(t, err)

	assert.Equal(t, opt.Cooled, res.Reason)
	assert.Equal(t, 1, res.Iterations)
}

func TestSolveDeadlinePassed(t *testing.T) {
	solver, err := New(DefaultConfig(), rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	res, err := opt.SolveUntil(solver, loadFt06(t), time.Now().Add(-time.Second))
	require.NoError(t, err)

	assert.Equal(t, opt.Timeout, res.ExitCause)
	assert.Equal(t, 0, res.Iterations)
}

func TestNewValidates(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Alpha = 1
	_, err = New(cfg, rand.New(rand.NewSource(1)))
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.FinalTemp = cfg.InitialTemp
	_, err = New(cfg, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
