package converter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/you-humble/farm-connect/internal/model"
)

type listingTouchedRecord struct {
	FarmerID   string    `json:"farmer_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

type kafkaConverter struct{}

func NewKafkaConverter() *kafkaConverter { return &kafkaConverter{} }

func (c *kafkaConverter) ListingTouchedToPayload(m model.ListingTouched) ([]byte, error) {
	payload, err := json.Marshal(listingTouchedRecord{
		FarmerID:   m.FarmerID,
		Reason:     string(m.Reason),
		OccurredAt: m.OccurredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal listing touched: %w", err)
	}

	return payload, nil
}

func (c *kafkaConverter) PayloadToListingTouched(data []byte) (model.ListingTouched, error) {
	var rec listingTouchedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.ListingTouched{}, fmt.Errorf("failed to unmarshal listing touched: %w", err)
	}
	if rec.FarmerID == "" {
		return model.ListingTouched{}, fmt.Errorf("listing touched without farmer_id: %w", model.ErrValidation)
	}

	return model.ListingTouched{
		FarmerID:   rec.FarmerID,
		Reason:     model.ListingTouchedReason(rec.Reason),
		OccurredAt: rec.OccurredAt,
	}, nil
}
