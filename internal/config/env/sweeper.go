package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type sweeperEnv struct {
	QueueSize int           `env:"SWEEPER_QUEUE_SIZE" envDefault:"256"`
	Interval  time.Duration `env:"SWEEPER_INTERVAL" envDefault:"0s"`
}

type sweeper struct {
	raw sweeperEnv
}

func NewSweeperConfig() (*sweeper, error) {
	var raw sweeperEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &sweeper{raw: raw}, nil
}

func (cfg *sweeper) QueueSize() int { return cfg.raw.QueueSize }

// Interval of the full sweep. Zero disables it.
func (cfg *sweeper) Interval() time.Duration { return cfg.raw.Interval }
