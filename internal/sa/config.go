package sa

import (
	"fmt"

	"jobShop/internal/greedy"
)

type Config struct {
	Iterations       int `mapstructure:"iterations"`
	IterationsPerJob int `mapstructure:"iterations_per_job"`

	InitialTemp float64 `mapstructure:"initial_temp"`
	FinalTemp   float64 `mapstructure:"final_temp"`
	Alpha       float64 `mapstructure:"alpha"`

	InitialPriority greedy.Priority `mapstructure:"initial_priority"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:       0,
		IterationsPerJob: 500,

		InitialTemp: 50.0,
		FinalTemp:   0.05,
		Alpha:       0.995,

		InitialPriority: greedy.ESTLRPT,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerJob <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerJob > 0",
		)
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf(
			"InitialTemp должно быть > 0 (получено %f)",
			c.InitialTemp,
		)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf(
			"FinalTemp должно быть > 0 (получено %f)",
			c.FinalTemp,
		)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf(
			"FinalTemp должно быть < InitialTemp (получено %f >= %f)",
			c.FinalTemp,
			c.InitialTemp,
		)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале (0,1) (получено %f)",
			c.Alpha,
		)
	}
	return c.InitialPriority.Validate()
}
