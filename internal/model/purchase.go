package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusConfirmed PurchaseStatus = "confirmed"
	PurchaseStatusDelivered PurchaseStatus = "delivered"
)

func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusConfirmed, PurchaseStatusDelivered:
		return true
	}
	return false
}

// CanMoveTo reports whether s -> next is a legal transition. Status only moves forward one step.
func (s PurchaseStatus) CanMoveTo(next PurchaseStatus) bool {
	switch s {
	case PurchaseStatusPending:
		return next == PurchaseStatusConfirmed
	case PurchaseStatusConfirmed:
		return next == PurchaseStatusDelivered
	}
	return false
}

type Purchase struct {
	ID         uuid.UUID
	CustomerID string
	FarmerID   string
	CropID     string
	CropName   string
	Quantity   int64
	Unit       CropUnit
	// Price per unit at the moment the stock was taken.
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Status     PurchaseStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PurchaseParams struct {
	CustomerID string
	FarmerID   string
	CropID     string
	Quantity   int64
}

type UpdatePurchaseStatusParams struct {
	PurchaseID uuid.UUID
	// ActorID is the farmer who owns the purchased crop, empty for admins.
	ActorID string
	Status  PurchaseStatus
}
