package geoclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/you-humble/farm-connect/internal/model"
)

var ErrNoMatch = fmt.Errorf("address %w", model.ErrNotFound)

// place is one Nominatim search hit. Coordinates come back as strings.
type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type client struct {
	http *resty.Client
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	return &client{http: rc}
}

// Geocode resolves a free-form address to the best matching coordinate.
func (c *client) Geocode(ctx context.Context, address string) (float64, float64, error) {
	var places []place

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      address,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&places).
		Get("/search")
	if err != nil {
		return 0, 0, errors.Join(model.ErrUpstreamUnavailable, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return 0, 0, fmt.Errorf("geocoder status %d: %w", resp.StatusCode(), model.ErrUpstreamUnavailable)
	default:
		return 0, 0, fmt.Errorf("geocoder request status: %d", resp.StatusCode())
	}

	if len(places) == 0 {
		return 0, 0, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoder latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoder longitude %q: %w", places[0].Lon, err)
	}

	return lat, lon, nil
}
