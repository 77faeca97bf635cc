package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/paulmach/orb"

	"github.com/you-humble/farm-connect/internal/geo"
	"github.com/you-humble/farm-connect/internal/model"
	"github.com/you-humble/farm-connect/platform/logger"
)

type CandidateRepository interface {
	ListNearbyCandidates(ctx context.Context, bound orb.Bound) ([]*model.FarmerInventory, error)
}

type service struct {
	repo          CandidateRepository
	readDBTimeout time.Duration
}

func NewNearbyService(repo CandidateRepository, readDBTimeout time.Duration) *service {
	return &service{repo: repo, readDBTimeout: readDBTimeout}
}

// FindNearby returns approved farmers within the query radius, nearest first.
func (svc *service) FindNearby(ctx context.Context, q model.NearbyQuery) ([]model.NearbyFarmer, error) {
	const op string = "nearby.service.FindNearby"

	lat, lon, maxKm, err := validateQuery(q)
	if err != nil {
		logger.Warn(ctx, "validation", logger.String("op", op), logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log := logger.With(
		logger.Float64("latitude", lat),
		logger.Float64("longitude", lon),
		logger.Int("max_distance_km", maxKm),
	)

	rctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	candidates, err := svc.repo.ListNearbyCandidates(rctx, geo.SearchBound(lat, lon, float64(maxKm)))
	if err != nil {
		log.Error(ctx, "repository list nearby candidates", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, errors.Join(model.ErrUpstreamUnavailable, err))
	}

	out := make([]model.NearbyFarmer, 0, len(candidates))
	for _, inv := range candidates {
		if inv == nil || inv.Details.Status != model.FarmerStatusApproved || !inv.Details.Located() {
			continue
		}
		if len(inv.Crops) == 0 {
			continue
		}

		d := geo.DistanceKm(lat, lon, *inv.Details.Latitude, *inv.Details.Longitude)
		if math.IsNaN(d) || d > float64(maxKm) {
			continue
		}

		out = append(out, toNearbyFarmer(inv, d))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})

	log.Debug(ctx, "nearby farmers found",
		logger.Int("candidates", len(candidates)),
		logger.Int("matched", len(out)),
	)

	return out, nil
}

func toNearbyFarmer(inv *model.FarmerInventory, distanceKm float64) model.NearbyFarmer {
	distance := FormatDistance(distanceKm)

	crops := make([]model.NearbyCrop, 0, len(inv.Crops))
	for _, c := range inv.Crops {
		crops = append(crops, model.NearbyCrop{CropListing: c, Distance: distance})
	}

	return model.NearbyFarmer{
		FarmerID:   inv.FarmerID,
		FarmerName: inv.Details.Name,
		Details:    inv.Details,
		DistanceKm: distanceKm,
		Crops:      crops,
	}
}

// FormatDistance renders km with exactly two decimals.
func FormatDistance(km float64) string {
	return strconv.FormatFloat(km, 'f', 2, 64)
}

func validateQuery(q model.NearbyQuery) (float64, float64, int, error) {
	var errs []error

	switch {
	case q.Latitude == nil:
		errs = append(errs, model.NewFieldError("latitude", "is required"))
	case !geo.ValidLatitude(*q.Latitude):
		errs = append(errs, model.NewFieldError("latitude", "must be between -90 and 90"))
	}

	switch {
	case q.Longitude == nil:
		errs = append(errs, model.NewFieldError("longitude", "is required"))
	case !geo.ValidLongitude(*q.Longitude):
		errs = append(errs, model.NewFieldError("longitude", "must be between -180 and 180"))
	}

	maxKm := model.DefaultMaxDistanceKm
	if q.MaxDistanceKm != nil {
		v := *q.MaxDistanceKm
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v != math.Trunc(v) || v > math.MaxInt32 {
			errs = append(errs, model.NewFieldError("maxDistance", "must be a positive integer"))
		} else {
			maxKm = int(v)
		}
	}

	if len(errs) > 0 {
		return 0, 0, 0, errors.Join(errs...)
	}

	return *q.Latitude, *q.Longitude, maxKm, nil
}
