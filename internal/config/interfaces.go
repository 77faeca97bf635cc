package config

import (
	"time"

	"github.com/IBM/sarama"
)

type Server interface {
	Host() string
	Port() int
	Address() string
	ReadTimeout() time.Duration
	ShutdownTimeout() time.Duration
	DBReadTimeout() time.Duration
	DBWriteTimeout() time.Duration
	PurchaseTimeout() time.Duration
	NotifyTimeout() time.Duration
	BootstrapDemoData() bool
}

type Logger interface {
	Level() string
	AsJSON() bool
}

type Mongo interface {
	DatabaseName() string
	InventoryCollection() string
	DSN() string
}

type Postgres interface {
	MigrationDirectory() string
	DSN() string
}

type Auth interface {
	JWTSecret() string
}

type Sweeper interface {
	QueueSize() int
	Interval() time.Duration
}

type Kafka interface {
	Enabled() bool
	Brokers() []string
	ListingTouchedTopic() string
	ConsumerGroupID() string
	ListingTouchedConsumerConfig() *sarama.Config
	ListingTouchedProducerConfig() *sarama.Config
}

type Geocoder interface {
	Enabled() bool
	BaseURL() string
	UserAgent() string
	Timeout() time.Duration
}

type Telegram interface {
	Enabled() bool
	BotToken() string
	ChatIDs() []int64
}
