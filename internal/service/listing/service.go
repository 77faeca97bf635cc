package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/you-humble/farm-connect/internal/geo"
	"github.com/you-humble/farm-connect/internal/model"
	"github.com/you-humble/farm-connect/platform/logger"
)

type ListingRepository interface {
	Inventory(ctx context.Context, farmerID string) (*model.FarmerInventory, error)
	AddCrop(ctx context.Context, params model.AddCropParams) (*model.FarmerInventory, error)
	SetQuantity(ctx context.Context, farmerID, cropID string, qty int64) (*model.StockChange, error)
	ShiftQuantity(ctx context.Context, farmerID, cropID string, delta int64) (*model.StockChange, error)
	SetFarmerStatus(ctx context.Context, farmerID string, status model.FarmerStatus) (*model.FarmerInventory, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lon float64, err error)
}

type ListingNotifier interface {
	NotifyListingTouched(ctx context.Context, event model.ListingTouched)
}

type service struct {
	repo           ListingRepository
	geocoder       Geocoder
	notifier       ListingNotifier
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
}

// NewListingService builds the ledger service. geocoder may be nil.
func NewListingService(
	repo ListingRepository,
	geocoder Geocoder,
	notifier ListingNotifier,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		repo:           repo,
		geocoder:       geocoder,
		notifier:       notifier,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
	}
}

func (svc *service) AddCrop(ctx context.Context, params model.AddCropParams) (*model.FarmerInventory, error) {
	const op string = "listing.service.AddCrop"

	params.FarmerID = strings.TrimSpace(params.FarmerID)
	params.Crop.Name = strings.TrimSpace(params.Crop.Name)
	params.Profile.Address = strings.TrimSpace(params.Profile.Address)

	log := logger.With(
		logger.String("farmer_id", params.FarmerID),
		logger.String("crop_name", params.Crop.Name),
	)

	if err := validateAddCrop(params); err != nil {
		log.Warn(ctx, "validation", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !params.Profile.Located() {
		svc.locate(ctx, &params.Profile)
	}

	params.Crop.ID = uuid.NewString()

	wctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	inv, err := svc.repo.AddCrop(wctx, params)
	if err != nil {
		log.Error(ctx, "repository add crop", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, errors.Join(model.ErrUpstreamUnavailable, err))
	}

	log.Info(ctx, "crop listed", logger.String("crop_id", params.Crop.ID))
	svc.touched(ctx, inv.FarmerID, model.ListingTouchedCreate)

	return inv, nil
}

// locate fills the farmer coordinates from the address. Failures leave the farmer unlocated.
func (svc *service) locate(ctx context.Context, d *model.FarmerDetails) {
	if svc.geocoder == nil || d.Address == "" {
		return
	}

	lat, lon, err := svc.geocoder.Geocode(ctx, d.Address)
	if err != nil {
		logger.Warn(ctx, "geocode address", logger.String("address", d.Address), logger.ErrorF(err))
		return
	}
	if !geo.ValidCoordinate(lat, lon) {
		logger.Warn(ctx, "geocoder returned invalid coordinate",
			logger.Float64("latitude", lat),
			logger.Float64("longitude", lon),
		)
		return
	}

	d.Latitude, d.Longitude = lo.ToPtr(lat), lo.ToPtr(lon)
}

// AdjustQuantity sets or shifts the quantity of one listing and returns the owner's document.
func (svc *service) AdjustQuantity(ctx context.Context, params model.AdjustQuantityParams) (*model.FarmerInventory, error) {
	const op string = "listing.service.AdjustQuantity"

	params.FarmerID = strings.TrimSpace(params.FarmerID)
	params.CropID = strings.TrimSpace(params.CropID)

	log := logger.With(
		logger.String("farmer_id", params.FarmerID),
		logger.String("crop_id", params.CropID),
	)

	if err := validateAdjust(params); err != nil {
		log.Warn(ctx, "validation", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	var (
		change *model.StockChange
		err    error
	)
	if params.Quantity != nil {
		change, err = svc.repo.SetQuantity(wctx, params.FarmerID, params.CropID, *params.Quantity)
	} else {
		change, err = svc.repo.ShiftQuantity(wctx, params.FarmerID, params.CropID, *params.Delta)
	}
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInsufficientStock) {
			log.Warn(ctx, "adjust rejected", logger.ErrorF(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Error(ctx, "repository adjust quantity", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, errors.Join(model.ErrUpstreamUnavailable, err))
	}

	log.Info(ctx, "quantity adjusted", logger.Int64("quantity", change.Crop.Quantity))
	svc.touched(ctx, change.FarmerID, model.ListingTouchedAdjust)

	return change.Inventory, nil
}

func (svc *service) Inventory(ctx context.Context, farmerID string) (*model.FarmerInventory, error) {
	const op string = "listing.service.Inventory"

	farmerID = strings.TrimSpace(farmerID)
	if farmerID == "" {
		return nil, fmt.Errorf("%s: %w", op, model.NewFieldError("farmerId", "is required"))
	}

	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	inv, err := svc.repo.Inventory(ctx, farmerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Error(ctx, "repository inventory", logger.String("farmer_id", farmerID), logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, errors.Join(model.ErrUpstreamUnavailable, err))
	}

	return inv, nil
}

func (svc *service) SetFarmerStatus(ctx context.Context, farmerID string, status model.FarmerStatus) (*model.FarmerInventory, error) {
	const op string = "listing.service.SetFarmerStatus"

	farmerID = strings.TrimSpace(farmerID)
	log := logger.With(
		logger.String("farmer_id", farmerID),
		logger.String("status", string(status)),
	)

	var errs []error
	if farmerID == "" {
		errs = append(errs, model.NewFieldError("farmerId", "is required"))
	}
	if !status.Valid() {
		errs = append(errs, model.NewFieldError("status", "must be one of pending, approved, rejected"))
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn(ctx, "validation", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	inv, err := svc.repo.SetFarmerStatus(wctx, farmerID, status)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Error(ctx, "repository set farmer status", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, errors.Join(model.ErrUpstreamUnavailable, err))
	}

	log.Info(ctx, "farmer status changed")

	return inv, nil
}

func (svc *service) touched(ctx context.Context, farmerID string, reason model.ListingTouchedReason) {
	if svc.notifier == nil {
		return
	}
	svc.notifier.NotifyListingTouched(context.WithoutCancel(ctx), model.ListingTouched{
		FarmerID:   farmerID,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	})
}

func validateAddCrop(params model.AddCropParams) error {
	var errs []error

	if params.FarmerID == "" {
		errs = append(errs, model.NewFieldError("farmerId", "is required"))
	}
	if params.Profile.Name == "" {
		errs = append(errs, model.NewFieldError("farmerDetails.name", "is required"))
	}

	c := params.Crop
	if c.Name == "" {
		errs = append(errs, model.NewFieldError("name", "is required"))
	}
	if !c.Type.Valid() {
		errs = append(errs, model.NewFieldError("type", "must be one of vegetables, fruits"))
	}
	if !c.Unit.Valid() {
		errs = append(errs, model.NewFieldError("unit", "must be one of kg, dozen, unit"))
	}
	if c.Quantity < 0 {
		errs = append(errs, model.NewFieldError("quantity", "must not be negative"))
	}
	if c.Price < 0 || math.IsNaN(c.Price) || math.IsInf(c.Price, 0) {
		errs = append(errs, model.NewFieldError("price", "must be a non-negative number"))
	}

	lat, lon := params.Profile.Latitude, params.Profile.Longitude
	switch {
	case (lat == nil) != (lon == nil):
		errs = append(errs, model.NewFieldError("location", "latitude and longitude go together"))
	case lat != nil && !geo.ValidCoordinate(*lat, *lon):
		errs = append(errs, model.NewFieldError("location", "coordinate out of range"))
	}

	return errors.Join(errs...)
}

func validateAdjust(params model.AdjustQuantityParams) error {
	var errs []error

	if params.CropID == "" {
		errs = append(errs, model.NewFieldError("cropId", "is required"))
	}

	switch {
	case params.Quantity == nil && params.Delta == nil:
		errs = append(errs, model.NewFieldError("quantity", "quantity or delta is required"))
	case params.Quantity != nil && params.Delta != nil:
		errs = append(errs, model.NewFieldError("quantity", "quantity and delta are mutually exclusive"))
	case params.Quantity != nil && *params.Quantity < 0:
		errs = append(errs, model.NewFieldError("quantity", "must not be negative"))
	case params.Delta != nil && *params.Delta == 0:
		errs = append(errs, model.NewFieldError("delta", "must not be zero"))
	}

	return errors.Join(errs...)
}
