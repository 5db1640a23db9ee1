package ga

import "math/rand"

// initChromosome заполняет c базовой последовательностью работ:
// каждая работа повторяется tasks раз.
func initChromosome(c []int, tasks int) {
	for i := range c {
		c[i] = i / tasks
	}
}

// tournamentSelect реализует турнирный отбор.
// возвращается индекс особи с наилучшим значением fitness (минимальное значение целевой функции).
func tournamentSelect(scores []int, tournamentSize int, rng *rand.Rand) int {
	best := rng.Intn(len(scores))
	bestScore := scores[best]
	for i := 1; i < tournamentSize; i++ {
		cand := rng.Intn(len(scores))
		if scores[cand] < bestScore {
			best = cand
			bestScore = scores[cand]
		}
	}
	return best
}

// jobOrderCrossover реализует оператор JOX.
// Случайно выбирается подмножество работ: их гены остаются на своих позициях
// родителя, остальные позиции заполняются генами прочих работ в порядке
// второго родителя. Число вхождений каждой работы сохраняется.
func jobOrderCrossover(
	p1, p2, c1, c2 []int,
	rng *rand.Rand,
	mark []int,
	stamp *int,
) {
	*stamp++
	curStamp := *stamp

	// Выбор сохраняемых работ
	for j := range mark {
		if rng.Intn(2) == 0 {
			mark[j] = curStamp
		}
	}

	fillJOX(p1, p2, c1, mark, curStamp)
	fillJOX(p2, p1, c2, mark, curStamp)
}

func fillJOX(keepFrom, fillFrom, child, mark []int, curStamp int) {
	k := 0
	for i, gene := range keepFrom {
		if mark[gene] == curStamp {
			child[i] = gene
			continue
		}
		for mark[fillFrom[k]] == curStamp {
			k++
		}
		child[i] = fillFrom[k]
		k++
	}
}

// mutateSwap реализует оператор мутации Swap.
func mutateSwap(p []int, rng *rand.Rand) {
	if len(p) < 2 {
		return
	}
	i := rng.Intn(len(p))
	j := rng.Intn(len(p) - 1)
	if j >= i {
		j++
	}
	p[i], p[j] = p[j], p[i]
}
