package consumer

import (
	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/you-humble/farm-connect/platform/kafka"
)

type groupHandler struct {
	handler kafka.MessageHandler
	logger  Logger
}

func newGroupHandler(handler kafka.MessageHandler, logger Logger) *groupHandler {
	return &groupHandler{handler: handler, logger: logger}
}

func (g *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (g *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim marks every record, including the ones the handler failed on.
// Handlers own their retry policy.
func (g *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := session.Context()

	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			if err := g.handler(ctx, toMessage(message)); err != nil {
				g.logger.Error(ctx, "kafka handler",
					zap.String("topic", message.Topic),
					zap.Int32("partition", message.Partition),
					zap.Int64("offset", message.Offset),
					zap.Error(err),
				)
			}

			session.MarkMessage(message, "")

		case <-ctx.Done():
			return nil
		}
	}
}

func toMessage(m *sarama.ConsumerMessage) kafka.Message {
	headers := make(map[string][]byte, len(m.Headers))
	for _, h := range m.Headers {
		if h != nil && h.Key != nil {
			headers[string(h.Key)] = h.Value
		}
	}

	return kafka.Message{
		Key:            m.Key,
		Value:          m.Value,
		Topic:          m.Topic,
		Partition:      m.Partition,
		Offset:         m.Offset,
		Timestamp:      m.Timestamp,
		BlockTimestamp: m.BlockTimestamp,
		Headers:        headers,
	}
}
