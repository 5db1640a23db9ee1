package bench

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobShop/internal/descent"
	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

const instanceDirectory = "../../instances/"

func TestCalcStats(t *testing.T) {
	s := CalcIntStats([]int{60, 55, 58})
	assert.Equal(t, 3, s.N)
	assert.Equal(t, 55, s.Best)
	assert.InDelta(t, 57.666666, s.Mean, 1e-5)
	assert.InDelta(t, math.Sqrt(19.0/3.0), s.Std, 1e-9)

	single := CalcFloatStats([]float64{1.5})
	assert.Equal(t, 1.5, single.Best)
	assert.Zero(t, single.Std)

	assert.Equal(t, IntStats{}, CalcIntStats(nil))
}

func TestGap(t *testing.T) {
	assert.InDelta(t, 10.0, Gap(55, 50), 1e-9)
	assert.Zero(t, Gap(55, 55))
	assert.Zero(t, Gap(60, 0))
}

func TestRunCase(t *testing.T) {
	inst, err := jobshop.LoadFile(instanceDirectory + "ft06")
	require.NoError(t, err)

	algo := Algorithm{
		Name: "DESCENT",
		Factory: func(int64) (opt.Optimizer, error) {
			return descent.New(descent.DefaultConfig())
		},
	}
	runner := Runner{Runs: 3, BaseSeed: 1}

	rec, err := runner.RunCase(context.Background(), Case{Name: "ft06", Instance: inst, Optimum: 55}, algo)
	require.NoError(t, err)

	assert.Equal(t, "DESCENT", rec.Algo)
	assert.Equal(t, "ft06", rec.Instance)
	assert.Equal(t, 6, rec.Jobs)
	assert.Equal(t, 6, rec.Machines)
	assert.Equal(t, 3, rec.Runs)
	assert.GreaterOrEqual(t, rec.MakespanBest, 55)
	// Спуск детерминирован: все запуски совпадают.
	assert.Equal(t, float64(rec.MakespanBest), rec.MakespanMean)
	assert.Zero(t, rec.MakespanStd)
	assert.InDelta(t, Gap(rec.MakespanBest, 55), rec.GapPercent, 1e-9)
	assert.Zero(t, rec.Timeouts)
}

func TestRunCaseCountsTimeouts(t *testing.T) {
	inst, err := jobshop.LoadFile(instanceDirectory + "ft06")
	require.NoError(t, err)

	algo := Algorithm{
		Name: "DESCENT",
		Factory: func(int64) (opt.Optimizer, error) {
			return descent.New(descent.DefaultConfig())
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec, err := Runner{Runs: 2, PerRunTimeout: time.Second}.RunCase(ctx, Case{Name: "ft06", Instance: inst}, algo)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Timeouts)
	assert.Zero(t, rec.GapPercent)
}

func TestRunCaseFactoryError(t *testing.T) {
	inst, err := jobshop.LoadFile(instanceDirectory + "aaa2")
	require.NoError(t, err)

	algo := Algorithm{
		Name: "BROKEN",
		Factory: func(int64) (opt.Optimizer, error) {
			return greedy.New(greedy.Config{Priority: "FIFO"})
		},
	}
	_, err = Runner{Runs: 1}.RunCase(context.Background(), Case{Name: "aaa2", Instance: inst}, algo)
	assert.Error(t, err)

	_, err = Runner{Runs: 0}.RunCase(context.Background(), Case{Name: "aaa2", Instance: inst}, algo)
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	records := []Record{{
		Algo: "TS", Instance: "ft06", Jobs: 6, Machines: 6, Runs: 2,
		MakespanBest: 55, MakespanMean: 55, Optimum: 55,
	}}

	require.NoError(t, WriteCSV(path, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "algo", rows[0][0])
	assert.Equal(t, "gap_percent", rows[0][12])
	assert.Equal(t, []string{"TS", "ft06", "6", "6", "2"}, rows[1][:5])
	assert.Equal(t, "55", rows[1][8])
	assert.Equal(t, "0", rows[1][13])
}
