package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobShop/internal/greedy"
	"jobShop/internal/sa"
	"jobShop/internal/ts"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
deadline: 2s
log_level: debug
trace_exporter: stdout
workers: 4
runs: 3
seed: 42
instances:
  - name: ft06
    path: instances/ft06
    optimum: 55
  - path: /abs/aaa2
solvers:
  tabu:
    max_iterations: 300
    tabu_tenure: 5
  sa:
    alpha: 0.9
    initial_temp: 10
  greedy:
    priority: SPT
  ga:
    population: 30
    initial_priority: ""
`)

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Deadline)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 3, cfg.Runs)
	assert.Equal(t, int64(42), cfg.Seed)
	require.Len(t, cfg.Instances, 2)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "instances/ft06"), cfg.Instances[0].Path)
	assert.Equal(t, 55, cfg.Instances[0].Optimum)
	assert.Equal(t, "/abs/aaa2", cfg.Instances[1].Path)

	tabu, err := cfg.Tabu()
	require.NoError(t, err)
	want := ts.DefaultConfig()
	want.MaxIterations = 300
	want.TabuTenure = 5
	want.Workers = 4
	assert.Equal(t, want, tabu)

	saCfg, err := cfg.SA()
	require.NoError(t, err)
	wantSA := sa.DefaultConfig()
	wantSA.Alpha = 0.9
	wantSA.InitialTemp = 10
	assert.Equal(t, wantSA, saCfg)

	g, err := cfg.Greedy()
	require.NoError(t, err)
	assert.Equal(t, greedy.SPT, g.Priority)

	gaCfg, err := cfg.GA()
	require.NoError(t, err)
	assert.Equal(t, 30, gaCfg.Population)
	assert.Equal(t, greedy.Priority(""), gaCfg.InitialPriority)

	d, err := cfg.Descent()
	require.NoError(t, err)
	assert.Equal(t, 4, d.Workers)
	assert.Equal(t, greedy.ESTLRPT, d.InitialPriority)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "instances: []\n"))
	require.NoError(t, err)

	assert.Equal(t, Default(), &Config{
		LogLevel:      cfg.LogLevel,
		TraceExporter: cfg.TraceExporter,
		Workers:       cfg.Workers,
		Runs:          cfg.Runs,
		Seed:          cfg.Seed,
		Out:           cfg.Out,
	})
	tabu, err := cfg.Tabu()
	require.NoError(t, err)
	assert.Equal(t, ts.DefaultConfig(), tabu)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "deadline: [\n"},
		{"negative deadline", "deadline: -1s\n"},
		{"bad log level", "log_level: loud\n"},
		{"bad exporter", "trace_exporter: zipkin\n"},
		{"zero workers", "workers: 0\n"},
		{"missing path", "instances:\n  - name: x\n"},
		{"unknown section", "solvers:\n  aco:\n    ants: 10\n"},
		{"invalid population", "solvers:\n  ga:\n    population: 1\n"},
		{"unknown key", "solvers:\n  tabu:\n    aspiration: true\n"},
		{"invalid tenure", "solvers:\n  tabu:\n    tabu_tenure: 0\n"},
		{"invalid priority", "solvers:\n  descent:\n    initial_priority: FIFO\n"},
		{"invalid alpha", "solvers:\n  sa:\n    alpha: 1.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadExample(t *testing.T) {
	cfg, err := Load("../../configs/bench.yaml")
	require.NoError(t, err)

	require.Len(t, cfg.Instances, 2)
	assert.Equal(t, filepath.Join("../../configs", "../instances/ft06"), cfg.Instances[0].Path)
	_, err = os.Stat(cfg.Instances[0].Path)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join("../../configs", "../artifacts/results.csv"), cfg.Out)
}
