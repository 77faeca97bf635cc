package lstproducer

import (
	"context"
	"fmt"

	"github.com/you-humble/farm-connect/internal/model"
	"github.com/you-humble/farm-connect/platform/kafka"
	"github.com/you-humble/farm-connect/platform/logger"
)

type Converter interface {
	ListingTouchedToPayload(m model.ListingTouched) ([]byte, error)
}

type service struct {
	producer kafka.Producer
	conv     Converter
}

func NewListingProducer(producer kafka.Producer, conv Converter) *service {
	return &service{producer: producer, conv: conv}
}

func (s *service) SendListingTouched(ctx context.Context, event model.ListingTouched) error {
	payload, err := s.conv.ListingTouchedToPayload(event)
	if err != nil {
		return fmt.Errorf("converter listing_touched_to_payload error: %w", err)
	}

	err = s.producer.Send(ctx, []byte(event.FarmerID), payload,
		kafka.Header{Key: "reason", Value: []byte(event.Reason)},
	)
	if err != nil {
		return fmt.Errorf("producer to listing.touched topic error: %w", err)
	}

	return nil
}

// NotifyListingTouched publishes the event and only logs a failure; the periodic sweep covers lost events.
func (s *service) NotifyListingTouched(ctx context.Context, event model.ListingTouched) {
	if err := s.SendListingTouched(ctx, event); err != nil {
		logger.Error(ctx, "publish listing touched",
			logger.String("farmer_id", event.FarmerID),
			logger.ErrorF(err),
		)
	}
}
