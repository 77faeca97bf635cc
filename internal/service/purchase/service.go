package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/you-humble/farm-connect/internal/model"
	"github.com/you-humble/farm-connect/platform/logger"
)

type StockRepository interface {
	Inventory(ctx context.Context, farmerID string) (*model.FarmerInventory, error)
	InventoryByCrop(ctx context.Context, cropID string) (*model.FarmerInventory, error)
	DecrementStock(ctx context.Context, farmerID, cropID string, qty int64) (*model.StockChange, error)
	RestoreStock(ctx context.Context, farmerID string, snapshot model.CropListing, qty int64) error
}

type PurchaseRepository interface {
	Create(ctx context.Context, p *model.Purchase) error
	PurchaseByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*model.Purchase, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]*model.Purchase, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.PurchaseStatus) error
}

type ListingNotifier interface {
	NotifyListingTouched(ctx context.Context, event model.ListingTouched)
}

type ActivityNotifier interface {
	NotifyPurchaseRecorded(ctx context.Context, event model.PurchaseRecorded) error
}

type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Purchase time.Duration
	Notify   time.Duration
}

type service struct {
	stock     StockRepository
	purchases PurchaseRepository
	listings  ListingNotifier
	activity  ActivityNotifier
	timeouts  Timeouts
	now       func() time.Time

	notifying sync.WaitGroup
}

func NewPurchaseService(
	stock StockRepository,
	purchases PurchaseRepository,
	listings ListingNotifier,
	activity ActivityNotifier,
	timeouts Timeouts,
) *service {
	return &service{
		stock:     stock,
		purchases: purchases,
		listings:  listings,
		activity:  activity,
		timeouts:  timeouts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Purchase takes stock from one listing and records the purchase.
// A lost race on the stock guard is retried once before ErrConcurrencyConflict is returned.
func (svc *service) Purchase(ctx context.Context, params model.PurchaseParams) (*model.Purchase, error) {
	const op string = "purchase.service.Purchase"

	params.CustomerID = strings.TrimSpace(params.CustomerID)
	params.FarmerID = strings.TrimSpace(params.FarmerID)
	params.CropID = strings.TrimSpace(params.CropID)

	log := logger.With(
		logger.String("customer_id", params.CustomerID),
		logger.String("farmer_id", params.FarmerID),
		logger.String("crop_id", params.CropID),
		logger.Int64("quantity", params.Quantity),
	)

	if err := validatePurchase(params); err != nil {
		log.Warn(ctx, "validation", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if svc.timeouts.Purchase > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.timeouts.Purchase)
		defer cancel()
	}

	var (
		p          *model.Purchase
		farmerName string
		err        error
	)
	for attempt := 1; attempt <= 2; attempt++ {
		p, farmerName, err = svc.attempt(ctx, params)
		if !errors.Is(err, model.ErrConcurrencyConflict) {
			break
		}
		log.Warn(ctx, "stock guard lost the race", logger.Int("attempt", attempt))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info(ctx, "purchase recorded",
		logger.String("purchase_id", p.ID.String()),
		logger.String("total_price", p.TotalPrice.StringFixed(2)),
	)

	svc.afterCommit(ctx, p, farmerName)

	return p, nil
}

// attempt runs one read, decrement and insert cycle. It also returns the farmer name for notifications.
func (svc *service) attempt(ctx context.Context, params model.PurchaseParams) (*model.Purchase, string, error) {
	log := logger.With(
		logger.String("customer_id", params.CustomerID),
		logger.String("crop_id", params.CropID),
	)

	listing, farmerID, err := svc.loadListing(ctx, params.FarmerID, params.CropID)
	if err != nil {
		return nil, "", err
	}
	if listing.Quantity < params.Quantity {
		log.Warn(ctx, "insufficient stock", logger.String("farmer_id", farmerID))
		return nil, "", model.ErrInsufficientStock
	}

	wctx, cancel := svc.writeCtx(ctx)
	change, err := svc.stock.DecrementStock(wctx, farmerID, params.CropID, params.Quantity)
	cancel()
	if err != nil {
		switch {
		case errors.Is(err, model.ErrConcurrencyConflict):
			return nil, "", err
		case ctx.Err() != nil:
			// The update may have been applied before the deadline.
			log.Error(ctx, "decrement outcome unknown, reconcile stock",
				logger.String("farmer_id", farmerID),
				logger.Int64("quantity", params.Quantity),
				logger.ErrorF(err),
			)
			return nil, "", errors.Join(model.ErrOutcomeUnknown, err)
		default:
			log.Error(ctx, "repository decrement stock", logger.ErrorF(err))
			return nil, "", errors.Join(model.ErrUpstreamUnavailable, err)
		}
	}

	now := svc.now()
	unitPrice := decimal.NewFromFloat(change.Crop.Price).Round(2)
	p := &model.Purchase{
		ID:         uuid.New(),
		CustomerID: params.CustomerID,
		FarmerID:   change.FarmerID,
		CropID:     change.Crop.ID,
		CropName:   change.Crop.Name,
		Quantity:   params.Quantity,
		Unit:       change.Crop.Unit,
		UnitPrice:  unitPrice,
		TotalPrice: TotalPrice(unitPrice, params.Quantity),
		Status:     model.PurchaseStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	wctx, cancel = svc.writeCtx(ctx)
	err = svc.purchases.Create(wctx, p)
	cancel()
	if err == nil {
		var farmerName string
		if change.Inventory != nil {
			farmerName = change.Inventory.Details.Name
		}
		return p, farmerName, nil
	}

	log.Error(ctx, "repository create purchase",
		logger.String("purchase_id", p.ID.String()),
		logger.ErrorF(err),
	)

	// The caller's deadline may be gone; reconciliation still has to run.
	rctx, rcancel := context.WithTimeout(context.WithoutCancel(ctx), svc.readTimeout())
	stored, lerr := svc.purchases.PurchaseByID(rctx, p.ID)
	rcancel()
	switch {
	case lerr == nil:
		log.Warn(ctx, "purchase committed despite insert error",
			logger.String("purchase_id", p.ID.String()),
			logger.ErrorF(err),
		)
		var farmerName string
		if change.Inventory != nil {
			farmerName = change.Inventory.Details.Name
		}
		return stored, farmerName, nil
	case !errors.Is(lerr, model.ErrPurchaseNotFound):
		log.Error(ctx, "purchase lookup failed, reconcile stock",
			logger.String("purchase_id", p.ID.String()),
			logger.String("farmer_id", change.FarmerID),
			logger.Int64("quantity", params.Quantity),
			logger.ErrorF(lerr),
		)
		return nil, "", errors.Join(model.ErrOutcomeUnknown, err, lerr)
	}

	log.Warn(ctx, "purchase not stored, compensating stock",
		logger.String("purchase_id", p.ID.String()),
	)

	cctx, ccancel := context.WithTimeout(context.WithoutCancel(ctx), svc.writeTimeout())
	defer ccancel()

	if rerr := svc.stock.RestoreStock(cctx, change.FarmerID, change.Crop, params.Quantity); rerr != nil {
		log.Error(ctx, "compensation failed, reconcile stock",
			logger.String("farmer_id", change.FarmerID),
			logger.Int64("quantity", params.Quantity),
			logger.ErrorF(rerr),
		)
		return nil, "", errors.Join(model.ErrOutcomeUnknown, err, rerr)
	}

	return nil, "", errors.Join(model.ErrUpstreamUnavailable, err)
}

// loadListing reads the listing and resolves its owner when farmerID is empty.
func (svc *service) loadListing(ctx context.Context, farmerID, cropID string) (*model.CropListing, string, error) {
	rctx, cancel := context.WithTimeout(ctx, svc.readTimeout())
	defer cancel()

	var (
		inv *model.FarmerInventory
		err error
	)
	if farmerID == "" {
		inv, err = svc.stock.InventoryByCrop(rctx, cropID)
	} else {
		inv, err = svc.stock.Inventory(rctx, farmerID)
	}
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, "", err
		}
		logger.Error(ctx, "repository read inventory",
			logger.String("farmer_id", farmerID),
			logger.String("crop_id", cropID),
			logger.ErrorF(err),
		)
		return nil, "", errors.Join(model.ErrUpstreamUnavailable, err)
	}

	listing, ok := inv.Crop(cropID)
	if !ok {
		return nil, "", model.ErrCropNotFound
	}

	return listing, inv.FarmerID, nil
}

// afterCommit publishes the purchase side effects in the background, bounded by the notify timeout.
func (svc *service) afterCommit(ctx context.Context, p *model.Purchase, farmerName string) {
	if svc.listings == nil && svc.activity == nil {
		return
	}

	touched := model.ListingTouched{
		FarmerID:   p.FarmerID,
		Reason:     model.ListingTouchedPurchase,
		OccurredAt: p.CreatedAt,
	}
	recorded := model.PurchaseRecorded{Purchase: *p, FarmerName: farmerName}

	svc.notifying.Add(1)
	go func() {
		defer svc.notifying.Done()

		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), svc.notifyTimeout())
		defer cancel()

		if svc.listings != nil {
			svc.listings.NotifyListingTouched(nctx, touched)
		}

		if svc.activity != nil {
			if err := svc.activity.NotifyPurchaseRecorded(nctx, recorded); err != nil {
				logger.Warn(nctx, "activity notification",
					logger.String("purchase_id", recorded.Purchase.ID.String()),
					logger.ErrorF(err),
				)
			}
		}
	}()
}

// Drain waits for in-flight purchase notifications or until ctx is done.
func (svc *service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		svc.notifying.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (svc *service) ListByCustomer(ctx context.Context, customerID string) ([]*model.Purchase, error) {
	const op string = "purchase.service.ListByCustomer"

	return svc.list(ctx, op, customerID, svc.purchases.ListByCustomer)
}

func (svc *service) ListByFarmer(ctx context.Context, farmerID string) ([]*model.Purchase, error) {
	const op string = "purchase.service.ListByFarmer"

	return svc.list(ctx, op, farmerID, svc.purchases.ListByFarmer)
}

func (svc *service) list(
	ctx context.Context,
	op, ownerID string,
	fetch func(context.Context, string) ([]*model.Purchase, error),
) ([]*model.Purchase, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%s: %w", op, model.NewFieldError("userId", "is required"))
	}

	ctx, cancel := context.WithTimeout(ctx, svc.readTimeout())
	defer cancel()

	out, err := fetch(ctx, ownerID)
	if err != nil {
		logger.Error(ctx, "repository list purchases",
			logger.String("op", op),
			logger.String("owner_id", ownerID),
			logger.ErrorF(err),
		)
		return nil, fmt.Errorf("%s: %w", op, errors.Join(model.ErrUpstreamUnavailable, err))
	}

	return out, nil
}

// UpdateStatus moves a purchase one step forward. A non-empty ActorID must own the purchase.
func (svc *service) UpdateStatus(ctx context.Context, params model.UpdatePurchaseStatusParams) (*model.Purchase, error) {
	const op string = "purchase.service.UpdateStatus"
	log := logger.With(
		logger.String("purchase_id", params.PurchaseID.String()),
		logger.String("actor_id", params.ActorID),
		logger.String("status", string(params.Status)),
	)

	if params.PurchaseID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, model.NewFieldError("purchaseId", "is required"))
	}
	if !params.Status.Valid() {
		return nil, fmt.Errorf("%s: %w", op, model.NewFieldError("status", "must be one of pending, confirmed, delivered"))
	}

	rctx, rcancel := context.WithTimeout(ctx, svc.readTimeout())
	defer rcancel()

	p, err := svc.purchases.PurchaseByID(rctx, params.PurchaseID)
	if err != nil {
		log.Error(ctx, "repository purchase by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if params.ActorID != "" && params.ActorID != p.FarmerID {
		log.Warn(ctx, "purchase belongs to another farmer")
		return nil, fmt.Errorf("%s: %w", op, model.ErrPurchaseNotFound)
	}
	if !p.Status.CanMoveTo(params.Status) {
		log.Warn(ctx, "illegal transition", logger.String("from", string(p.Status)))
		return nil, fmt.Errorf("%s: %w", op, model.ErrInvalidTransition)
	}

	wctx, wcancel := context.WithTimeout(ctx, svc.writeTimeout())
	defer wcancel()

	if err := svc.purchases.UpdateStatus(wctx, p.ID, p.Status, params.Status); err != nil {
		log.Error(ctx, "repository update status", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p.Status = params.Status
	p.UpdatedAt = svc.now()

	return p, nil
}

// TotalPrice is unitPrice * quantity rounded to cents.
func TotalPrice(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity)).Round(2)
}

func validatePurchase(params model.PurchaseParams) error {
	var errs []error
	if params.CustomerID == "" {
		errs = append(errs, model.NewFieldError("customerId", "is required"))
	}
	if params.CropID == "" {
		errs = append(errs, model.NewFieldError("cropId", "is required"))
	}
	if params.Quantity <= 0 {
		errs = append(errs, model.NewFieldError("quantity", "must be a positive integer"))
	}
	return errors.Join(errs...)
}

func (svc *service) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, svc.writeTimeout())
}

func (svc *service) readTimeout() time.Duration {
	if svc.timeouts.Read > 0 {
		return svc.timeouts.Read
	}
	return 5 * time.Second
}

func (svc *service) writeTimeout() time.Duration {
	if svc.timeouts.Write > 0 {
		return svc.timeouts.Write
	}
	return 5 * time.Second
}

func (svc *service) notifyTimeout() time.Duration {
	if svc.timeouts.Notify > 0 {
		return svc.timeouts.Notify
	}
	return 5 * time.Second
}
