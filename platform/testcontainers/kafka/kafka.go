package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const (
	defaultImage     = "confluentinc/cp-kafka:7.6.1"
	defaultClusterID = "Mk3OEYBSD34fcwNTJENDM2Qk"
	adminTimeout     = 10 * time.Second
)

type Config struct {
	ImageName string
	ClusterID string
}

type Option func(*Config)

func WithImageName(image string) Option {
	return func(c *Config) { c.ImageName = image }
}

func WithClusterID(id string) Option {
	return func(c *Config) { c.ClusterID = id }
}

// Container is a throwaway single-node Kafka in KRaft mode.
type Container struct {
	container *tckafka.KafkaContainer
	brokers   []string
}

func NewContainer(ctx context.Context, opts ...Option) (*Container, error) {
	cfg := &Config{
		ImageName: defaultImage,
		ClusterID: defaultClusterID,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	kc, err := tckafka.Run(ctx,
		cfg.ImageName,
		tckafka.WithClusterID(cfg.ClusterID),
	)
	if err != nil {
		return nil, errors.Wrap(err, "start kafka container")
	}

	brokers, err := kc.Brokers(ctx)
	if err != nil {
		_ = kc.Terminate(ctx)
		return nil, errors.Wrap(err, "kafka brokers")
	}

	return &Container{container: kc, brokers: brokers}, nil
}

func (c *Container) Brokers() []string { return c.brokers }

// CreateTopics creates single-partition topics and ignores ones that already exist.
func (c *Container) CreateTopics(topics ...string) error {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V4_0_0_0
	cfg.Admin.Timeout = adminTimeout

	admin, err := sarama.NewClusterAdmin(c.brokers, cfg)
	if err != nil {
		return errors.Wrap(err, "kafka cluster admin")
	}
	defer admin.Close()

	for _, topic := range topics {
		err := admin.CreateTopic(topic, &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		}, false)
		if err != nil && !errors.Is(err, sarama.ErrTopicAlreadyExists) {
			return errors.Wrapf(err, "create topic %s", topic)
		}
	}

	return nil
}

func (c *Container) Terminate(ctx context.Context) error {
	return c.container.Terminate(ctx)
}
