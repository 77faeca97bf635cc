package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/you-humble/farm-connect/internal/model"
	"github.com/you-humble/farm-connect/platform/logger"
)

const defaultQueueSize = 256

type DepletionRepository interface {
	Inventory(ctx context.Context, farmerID string) (*model.FarmerInventory, error)
	PruneDepleted(ctx context.Context, farmerID string) (bool, error)
	PruneAllDepleted(ctx context.Context) (int64, error)
}

type Config struct {
	QueueSize int
	// Zero disables the periodic full sweep.
	Interval  time.Duration
	DBTimeout time.Duration
}

// service prunes depleted listings after "listing touched" events.
// Every failure is logged and dropped; the next event or full sweep picks the work up again.
type service struct {
	repo      DepletionRepository
	events    chan model.ListingTouched
	interval  time.Duration
	dbTimeout time.Duration
}

func NewSweeperService(repo DepletionRepository, cfg Config) *service {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.DBTimeout <= 0 {
		cfg.DBTimeout = 5 * time.Second
	}

	return &service{
		repo:      repo,
		events:    make(chan model.ListingTouched, cfg.QueueSize),
		interval:  cfg.Interval,
		dbTimeout: cfg.DBTimeout,
	}
}

// NotifyListingTouched queues an event without blocking the caller. A full queue drops it.
func (svc *service) NotifyListingTouched(ctx context.Context, event model.ListingTouched) {
	select {
	case svc.events <- event:
	default:
		logger.Warn(ctx, "sweeper queue full, event dropped",
			logger.String("farmer_id", event.FarmerID),
			logger.String("reason", string(event.Reason)),
		)
	}
}

// Run consumes queued events and runs the periodic sweep until ctx is done.
func (svc *service) Run(ctx context.Context) error {
	logger.Info(ctx, "sweeper started", logger.Duration("interval", svc.interval))

	var tick <-chan time.Time
	if svc.interval > 0 {
		t := time.NewTicker(svc.interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "sweeper stopped")
			return nil
		case ev := <-svc.events:
			svc.Handle(ctx, ev)
		case <-tick:
			svc.SweepAll(ctx)
		}
	}
}

// Handle re-reads the touched document and pulls its zero-quantity listings.
func (svc *service) Handle(ctx context.Context, event model.ListingTouched) {
	const op string = "sweeper.service.Handle"

	farmerID := strings.TrimSpace(event.FarmerID)
	if farmerID == "" {
		return
	}
	log := logger.With(
		logger.String("op", op),
		logger.String("farmer_id", farmerID),
		logger.String("reason", string(event.Reason)),
	)

	rctx, rcancel := context.WithTimeout(ctx, svc.dbTimeout)
	inv, err := svc.repo.Inventory(rctx, farmerID)
	rcancel()
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			log.Debug(ctx, "touched farmer has no inventory")
			return
		}
		log.Error(ctx, "fetch inventory", logger.ErrorF(err))
		return
	}

	depleted := inv.DepletedCrops()
	if len(depleted) == 0 {
		return
	}

	wctx, wcancel := context.WithTimeout(ctx, svc.dbTimeout)
	defer wcancel()

	pruned, err := svc.repo.PruneDepleted(wctx, farmerID)
	if err != nil {
		log.Error(ctx, "prune depleted listings", logger.ErrorF(err))
		return
	}
	if pruned {
		log.Info(ctx, "depleted listings pruned", logger.Strings("crop_ids", depleted))
	}
}

// SweepAll prunes depleted listings across every farmer.
func (svc *service) SweepAll(ctx context.Context) {
	const op string = "sweeper.service.SweepAll"

	ctx, cancel := context.WithTimeout(ctx, svc.dbTimeout)
	defer cancel()

	n, err := svc.repo.PruneAllDepleted(ctx)
	if err != nil {
		logger.Error(ctx, "full sweep", logger.String("op", op), logger.ErrorF(err))
		return
	}
	if n > 0 {
		logger.Info(ctx, "full sweep pruned documents", logger.String("op", op), logger.Int64("documents", n))
	}
}
