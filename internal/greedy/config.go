package greedy

import "fmt"

// Priority — правило выбора операции среди реализуемых.
type Priority string

const (
	SPT     Priority = "SPT"
	LRPT    Priority = "LRPT"
	ESTSPT  Priority = "EST_SPT"
	ESTLRPT Priority = "EST_LRPT"
)

// Priorities перечисляет все правила в порядке объявления.
var Priorities = []Priority{SPT, LRPT, ESTSPT, ESTLRPT}

func (p Priority) Validate() error {
	switch p {
	case SPT, LRPT, ESTSPT, ESTLRPT:
		return nil
	default:
		return fmt.Errorf("неизвестное правило приоритета %q", p)
	}
}

// usesEST сообщает, ограничивает ли правило выбор операциями с минимальным EST.
func (p Priority) usesEST() bool {
	return p == ESTSPT || p == ESTLRPT
}

type Config struct {
	Priority Priority `mapstructure:"priority"`
}

func DefaultConfig() Config {
	return Config{Priority: ESTLRPT}
}

func (c Config) Validate() error {
	return c.Priority.Validate()
}
