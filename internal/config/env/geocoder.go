package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type geocoderEnv struct {
	BaseURL   string        `env:"GEOCODER_BASE_URL"`
	UserAgent string        `env:"GEOCODER_USER_AGENT" envDefault:"farm-connect"`
	Timeout   time.Duration `env:"GEOCODER_TIMEOUT" envDefault:"3s"`
}

type geocoder struct {
	raw geocoderEnv
}

func NewGeocoderConfig() (*geocoder, error) {
	var raw geocoderEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &geocoder{raw: raw}, nil
}

func (cfg *geocoder) Enabled() bool          { return cfg.raw.BaseURL != "" }
func (cfg *geocoder) BaseURL() string        { return cfg.raw.BaseURL }
func (cfg *geocoder) UserAgent() string      { return cfg.raw.UserAgent }
func (cfg *geocoder) Timeout() time.Duration { return cfg.raw.Timeout }
