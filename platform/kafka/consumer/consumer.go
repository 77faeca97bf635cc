package consumer

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/you-humble/farm-connect/platform/kafka"
)

type Logger interface {
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

type consumer struct {
	group       sarama.ConsumerGroup
	topics      []string
	logger      Logger
	middlewares []kafka.Middleware
}

func NewConsumer(group sarama.ConsumerGroup, topics []string, logger Logger, middlewares ...kafka.Middleware) *consumer {
	return &consumer{
		group:       group,
		topics:      topics,
		logger:      logger,
		middlewares: middlewares,
	}
}

// Consume blocks until ctx is done or the group is closed, rejoining after every rebalance.
func (c *consumer) Consume(ctx context.Context, handler kafka.MessageHandler) error {
	gh := newGroupHandler(kafka.Chain(handler, c.middlewares...), c.logger)

	for {
		if err := c.group.Consume(ctx, c.topics, gh); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}

			c.logger.Error(ctx, "kafka consume", zap.Strings("topics", c.topics), zap.Error(err))
			return errors.Wrap(err, "consume")
		}

		if ctx.Err() != nil {
			return nil
		}

		c.logger.Info(ctx, "kafka consumer group rebalancing", zap.Strings("topics", c.topics))
	}
}
