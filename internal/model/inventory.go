package model

import "time"

type (
	FarmerStatus string
	CropType     string
	CropUnit     string
)

const (
	FarmerStatusPending  FarmerStatus = "pending"
	FarmerStatusApproved FarmerStatus = "approved"
	FarmerStatusRejected FarmerStatus = "rejected"
)

const (
	CropTypeVegetables CropType = "vegetables"
	CropTypeFruits     CropType = "fruits"
)

const (
	CropUnitKg    CropUnit = "kg"
	CropUnitDozen CropUnit = "dozen"
	CropUnitUnit  CropUnit = "unit"
)

func (s FarmerStatus) Valid() bool {
	switch s {
	case FarmerStatusPending, FarmerStatusApproved, FarmerStatusRejected:
		return true
	}
	return false
}

func (t CropType) Valid() bool {
	return t == CropTypeVegetables || t == CropTypeFruits
}

func (u CropUnit) Valid() bool {
	switch u {
	case CropUnitKg, CropUnitDozen, CropUnitUnit:
		return true
	}
	return false
}

// FarmerInventory is the single ledger document of one farmer.
type FarmerInventory struct {
	FarmerID  string
	Details   FarmerDetails
	Crops     []CropListing
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FarmerDetails is a snapshot of the farmer profile taken at listing time.
type FarmerDetails struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Status  FarmerStatus
	// Nil when the farmer never shared a location.
	Latitude  *float64
	Longitude *float64
}

func (d FarmerDetails) Located() bool {
	return d.Latitude != nil && d.Longitude != nil
}

type CropListing struct {
	ID       string
	Name     string
	Type     CropType
	Unit     CropUnit
	Quantity int64
	// Price per unit.
	Price     float64
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (inv *FarmerInventory) Crop(cropID string) (*CropListing, bool) {
	for i := range inv.Crops {
		if inv.Crops[i].ID == cropID {
			return &inv.Crops[i], true
		}
	}
	return nil, false
}

// DepletedCrops returns ids of listings that have nothing left to sell.
func (inv *FarmerInventory) DepletedCrops() []string {
	var ids []string
	for _, c := range inv.Crops {
		if c.Quantity <= 0 {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

type AddCropParams struct {
	FarmerID string
	Profile  FarmerDetails
	Crop     CropListing
}

// AdjustQuantityParams sets the absolute Quantity or applies Delta. Exactly one must be set.
type AdjustQuantityParams struct {
	FarmerID string
	CropID   string
	Quantity *int64
	Delta    *int64
}

// StockChange is the state of a listing right after an atomic quantity change.
type StockChange struct {
	FarmerID  string
	Crop      CropListing
	Inventory *FarmerInventory
}
