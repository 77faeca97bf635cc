package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/you-humble/farm-connect/internal/model"
)

const purchasesTable = "purchases"

var purchaseColumns = []string{
	"id", "customer_id", "farmer_id", "crop_id", "crop_name", "quantity", "unit",
	"unit_price_cents", "total_price_cents", "status", "created_at", "updated_at",
}

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewPurchaseRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repository) Create(ctx context.Context, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		return errors.New("empty purchase id")
	}

	q := r.sb.
		Insert(purchasesTable).
		Columns(purchaseColumns...).
		Values(
			p.ID, p.CustomerID, p.FarmerID, p.CropID, p.CropName, p.Quantity, string(p.Unit),
			ToCents(p.UnitPrice), ToCents(p.TotalPrice), string(p.Status), p.CreatedAt, p.UpdatedAt,
		)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}

	return nil
}

func (r *repository) PurchaseByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	q := r.sb.
		Select(purchaseColumns...).
		From(purchasesTable).
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanPurchase(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPurchaseNotFound
		}
		return nil, err
	}

	return p, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID string) ([]*model.Purchase, error) {
	return r.list(ctx, sq.Eq{"customer_id": customerID})
}

func (r *repository) ListByFarmer(ctx context.Context, farmerID string) ([]*model.Purchase, error) {
	return r.list(ctx, sq.Eq{"farmer_id": farmerID})
}

// UpdateStatus moves a purchase from one status to the next. It only succeeds while the row is still in from.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.PurchaseStatus) error {
	q := r.sb.
		Update(purchasesTable).
		Set("status", string(to)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "status": string(from)})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrInvalidTransition
	}

	return nil
}

func (r *repository) list(ctx context.Context, where sq.Eq) ([]*model.Purchase, error) {
	q := r.sb.
		Select(purchaseColumns...).
		From(purchasesTable).
		Where(where).
		OrderBy("created_at DESC", "id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Purchase, 0)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func scanPurchase(row pgx.Row) (*model.Purchase, error) {
	var (
		p                     model.Purchase
		unit, status          string
		unitCents, totalCents int64
	)

	err := row.Scan(
		&p.ID,
		&p.CustomerID,
		&p.FarmerID,
		&p.CropID,
		&p.CropName,
		&p.Quantity,
		&unit,
		&unitCents,
		&totalCents,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Unit = model.CropUnit(unit)
	p.Status = model.PurchaseStatus(status)
	p.UnitPrice = FromCents(unitCents)
	p.TotalPrice = FromCents(totalCents)

	return &p, nil
}

// ToCents stores money as integer cents, rounding half away from zero.
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
