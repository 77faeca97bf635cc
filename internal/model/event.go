package model

import "time"

type ListingTouchedReason string

const (
	ListingTouchedPurchase ListingTouchedReason = "purchase"
	ListingTouchedAdjust   ListingTouchedReason = "adjust"
	ListingTouchedCreate   ListingTouchedReason = "create"
)

// ListingTouched tells the sweeper that a farmer's listings changed.
type ListingTouched struct {
	FarmerID   string
	Reason     ListingTouchedReason
	OccurredAt time.Time
}

// PurchaseRecorded feeds the admin activity channel.
type PurchaseRecorded struct {
	Purchase   Purchase
	FarmerName string
}
