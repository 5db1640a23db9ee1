package bench

import (
	"math"

	"github.com/samber/lo"
)

type number interface {
	~int | ~int64 | ~float64
}

// Stats — лучшее (минимальное) значение, среднее и выборочное стандартное отклонение.
type Stats[T number] struct {
	N    int
	Best T
	Mean float64
	Std  float64
}

type IntStats = Stats[int]

type FloatStats = Stats[float64]

func CalcIntStats(values []int) IntStats { return calcStats(values) }

func CalcFloatStats(values []float64) FloatStats { return calcStats(values) }

func calcStats[T number](values []T) Stats[T] {
	s := Stats[T]{N: len(values)}
	if s.N == 0 {
		return s
	}

	s.Best = lo.Min(values)
	s.Mean = lo.SumBy(values, func(v T) float64 { return float64(v) }) / float64(s.N)

	// Несмещённая оценка дисперсии
	if s.N >= 2 {
		variance := lo.SumBy(values, func(v T) float64 {
			d := float64(v) - s.Mean
			return d * d
		}) / float64(s.N-1)
		s.Std = math.Sqrt(variance)
	}
	return s
}
