package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobShop/internal/config"
	"jobShop/internal/descent"
	"jobShop/internal/ga"
	"jobShop/internal/greedy"
	"jobShop/internal/sa"
	"jobShop/internal/ts"
)

func TestBuildSolver(t *testing.T) {
	log := logrus.New()
	cfg := config.Default()

	s, err := buildSolver(cfg, options{solver: "greedy", priority: "spt"}, log)
	require.NoError(t, err)
	require.IsType(t, &greedy.Solver{}, s)
	assert.Equal(t, greedy.SPT, s.(*greedy.Solver).Cfg.Priority)

	s, err = buildSolver(cfg, options{solver: "descent", workers: 3}, log)
	require.NoError(t, err)
	require.IsType(t, &descent.Solver{}, s)
	assert.Equal(t, 3, s.(*descent.Solver).Cfg.Workers)

	s, err = buildSolver(cfg, options{solver: "tabu", iter: 40, tenure: 2}, log)
	require.NoError(t, err)
	require.IsType(t, &ts.Solver{}, s)
	assert.Equal(t, 40, s.(*ts.Solver).Cfg.MaxIterations)
	assert.Equal(t, 2, s.(*ts.Solver).Cfg.TabuTenure)
	assert.Equal(t, greedy.ESTLRPT, s.(*ts.Solver).Cfg.InitialPriority)

	s, err = buildSolver(cfg, options{solver: "sa", iter: 100, seed: 5}, log)
	require.NoError(t, err)
	require.IsType(t, &sa.Solver{}, s)
	assert.Equal(t, 100, s.(*sa.Solver).Cfg.Iterations)

	s, err = buildSolver(cfg, options{solver: "ga", iter: 15, seed: 5}, log)
	require.NoError(t, err)
	require.IsType(t, &ga.Solver{}, s)
	assert.Equal(t, 15, s.(*ga.Solver).Cfg.Generations)
}

func TestBuildSolverErrors(t *testing.T) {
	cfg := config.Default()

	_, err := buildSolver(cfg, options{solver: "aco"}, nil)
	assert.Error(t, err)

	_, err = buildSolver(cfg, options{solver: "tabu", priority: "FIFO"}, nil)
	assert.Error(t, err)
}
