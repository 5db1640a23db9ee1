package ts

import (
	"fmt"

	"jobShop/internal/greedy"
)

type Config struct {
	MaxIterations    int `mapstructure:"max_iterations"`
	IterationsPerJob int `mapstructure:"iterations_per_job"`

	// TabuTenure — число итераций, в течение которых обратный ход запрещён.
	TabuTenure int `mapstructure:"tabu_tenure"`

	InitialPriority greedy.Priority `mapstructure:"initial_priority"`

	Workers int `mapstructure:"workers"`
}

func DefaultConfig() Config {
	return Config{
		MaxIterations:    0,
		IterationsPerJob: 100,

		TabuTenure: 7,

		InitialPriority: greedy.ESTLRPT,
		Workers:         1,
	}
}

// iterations возвращает итоговый лимит итераций для инстанса с jobs работами.
func (c Config) iterations(jobs int) int {
	if c.MaxIterations > 0 {
		return c.MaxIterations
	}
	return c.IterationsPerJob * jobs
}

func (c Config) Validate() error {
	if c.MaxIterations <= 0 && c.IterationsPerJob <= 0 {
		return fmt.Errorf(
			"должно быть задано MaxIterations > 0 или IterationsPerJob > 0",
		)
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf(
			"TabuTenure должно быть > 0 (получено %d)",
			c.TabuTenure,
		)
	}
	if err := c.InitialPriority.Validate(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf(
			"Workers должно быть >= 1 (получено %d)",
			c.Workers,
		)
	}
	return nil
}
