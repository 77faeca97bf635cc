package converter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/farm-connect/internal/model"
)

func TestListingTouchedPayload(t *testing.T) {
	t.Parallel()

	conv := NewKafkaConverter()
	ev := model.ListingTouched{
		FarmerID:   "farmer-1",
		Reason:     model.ListingTouchedPurchase,
		OccurredAt: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
	}

	payload, err := conv.ListingTouchedToPayload(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"farmer_id":"farmer-1","reason":"purchase","occurred_at":"2025-10-01T12:00:00Z"}`, string(payload))

	got, err := conv.PayloadToListingTouched(payload)
	require.NoError(t, err)
	assert.Equal(t, ev, got)
}

func TestPayloadToListingTouchedRejectsBadInput(t *testing.T) {
	t.Parallel()

	conv := NewKafkaConverter()

	tests := []struct {
		name    string
		payload string
		wantIs  error
	}{
		{name: "not json", payload: "{"},
		{name: "missing farmer", payload: `{"reason":"adjust"}`, wantIs: model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := conv.PayloadToListingTouched([]byte(tt.payload))
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}
