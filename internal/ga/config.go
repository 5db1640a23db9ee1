package ga

import (
	"fmt"

	"jobShop/internal/greedy"
)

type Config struct {
	Population     int     `mapstructure:"population"`
	Generations    int     `mapstructure:"generations"`
	Elite          int     `mapstructure:"elite"`
	TournamentSize int     `mapstructure:"tournament_size"`
	CrossoverRate  float64 `mapstructure:"crossover_rate"`
	MutationRate   float64 `mapstructure:"mutation_rate"`

	// InitialPriority — правило, которым строится одна особь начальной
	// популяции; пустое значение — вся популяция случайна.
	InitialPriority greedy.Priority `mapstructure:"initial_priority"`
}

func (c Config) Validate() error {
	if c.Population <= 1 {
		return fmt.Errorf(
			"размер популяции должен быть > 1 (получено %d)",
			c.Population,
		)
	}
	if c.Generations <= 0 {
		return fmt.Errorf(
			"количество поколений должно быть > 0 (получено %d)",
			c.Generations,
		)
	}
	if c.Elite < 0 || c.Elite >= c.Population {
		return fmt.Errorf(
			"число элитных особей должно быть в диапазоне [0, population) (получено %d)",
			c.Elite,
		)
	}
	if c.TournamentSize <= 0 {
		return fmt.Errorf(
			"размер турнира должен быть > 0 (получено %d)",
			c.TournamentSize,
		)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf(
			"вероятность кроссовера должна быть в диапазоне [0,1] (получено %f)",
			c.CrossoverRate,
		)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf(
			"вероятность мутации должна быть в диапазоне [0,1] (получено %f)",
			c.MutationRate,
		)
	}
	if c.InitialPriority != "" {
		return c.InitialPriority.Validate()
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Population:     60,
		Generations:    200,
		Elite:          2,
		TournamentSize: 4,
		CrossoverRate:  0.90,
		MutationRate:   0.20,

		InitialPriority: greedy.ESTLRPT,
	}
}
