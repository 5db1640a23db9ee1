package descent

import (
	"fmt"

	"jobShop/internal/greedy"
)

type Config struct {
	// InitialPriority — правило жадного построения начального решения.
	InitialPriority greedy.Priority `mapstructure:"initial_priority"`

	// Workers — число горутин, оценивающих соседей одной итерации.
	Workers int `mapstructure:"workers"`
}

func DefaultConfig() Config {
	return Config{
		InitialPriority: greedy.ESTLRPT,
		Workers:         1,
	}
}

func (c Config) Validate() error {
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
