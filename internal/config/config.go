package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	envconfig "github.com/you-humble/farm-connect/internal/config/env"
)

var cfg *config

type config struct {
	Server   Server
	Logger   Logger
	Mongo    Mongo
	Postgres Postgres
	Auth     Auth
	Sweeper  Sweeper
	Kafka    Kafka
	Geocoder Geocoder
	Telegram Telegram
}

func Load(path ...string) error {
	const op = "config.Load"

	if shouldLoadDotenv() {
		if err := godotenv.Load(path...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: load .env: %w", op, err)
		}
	}

	serverCfg, err := envconfig.NewHTTPServerConfig()
	if err != nil {
		return fmt.Errorf("%s Server: %w", op, err)
	}

	loggerCfg, err := envconfig.NewLoggerConfig()
	if err != nil {
		return fmt.Errorf("%s Logger: %w", op, err)
	}

	mongoCfg, err := envconfig.NewMongoConfig()
	if err != nil {
		return fmt.Errorf("%s Mongo: %w", op, err)
	}

	postgresCfg, err := envconfig.NewPostgresConfig()
	if err != nil {
		return fmt.Errorf("%s Postgres: %w", op, err)
	}

	authCfg, err := envconfig.NewAuthConfig()
	if err != nil {
		return fmt.Errorf("%s Auth: %w", op, err)
	}

	sweeperCfg, err := envconfig.NewSweeperConfig()
	if err != nil {
		return fmt.Errorf("%s Sweeper: %w", op, err)
	}

	kafkaCfg, err := envconfig.NewKafkaConfig()
	if err != nil {
		return fmt.Errorf("%s Kafka: %w", op, err)
	}

	geocoderCfg, err := envconfig.NewGeocoderConfig()
	if err != nil {
		return fmt.Errorf("%s Geocoder: %w", op, err)
	}

	telegramCfg, err := envconfig.NewTelegramConfig()
	if err != nil {
		return fmt.Errorf("%s Telegram: %w", op, err)
	}

	cfg = &config{
		Server:   serverCfg,
		Logger:   loggerCfg,
		Mongo:    mongoCfg,
		Postgres: postgresCfg,
		Auth:     authCfg,
		Sweeper:  sweeperCfg,
		Kafka:    kafkaCfg,
		Geocoder: geocoderCfg,
		Telegram: telegramCfg,
	}

	return nil
}

func C() *config { return cfg }

func shouldLoadDotenv() bool {
	return os.Getenv("APP_ENV") == "local"
}
