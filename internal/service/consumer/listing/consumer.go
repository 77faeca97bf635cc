package lstconsumer

import (
	"context"
	"fmt"

	"github.com/you-humble/farm-connect/internal/model"
	"github.com/you-humble/farm-connect/platform/kafka"
	"github.com/you-humble/farm-connect/platform/logger"
)

type Converter interface {
	PayloadToListingTouched(data []byte) (model.ListingTouched, error)
}

type Sweeper interface {
	Handle(ctx context.Context, event model.ListingTouched)
}

type service struct {
	consumer kafka.Consumer
	conv     Converter
	sweeper  Sweeper
}

func NewListingConsumer(
	consumer kafka.Consumer,
	conv Converter,
	sweeper Sweeper,
) *service {
	return &service{consumer: consumer, conv: conv, sweeper: sweeper}
}

func (s *service) RunListingTouchedConsume(ctx context.Context) error {
	logger.Info(ctx, "Starting listing touched consumer")

	if err := s.consumer.Consume(ctx, s.listingTouchedHandler); err != nil {
		logger.Error(ctx, "Consume from listing.touched topic error", logger.ErrorF(err))
		return err
	}

	return nil
}

func (s *service) listingTouchedHandler(ctx context.Context, msg kafka.Message) error {
	event, err := s.conv.PayloadToListingTouched(msg.Value)
	if err != nil {
		logger.Error(ctx, "Failed to decode ListingTouched", logger.ErrorF(err))
		return fmt.Errorf("converter payload_to_listing_touched error: %w", err)
	}

	s.sweeper.Handle(ctx, event)

	return nil
}
