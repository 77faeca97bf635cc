package repository

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/you-humble/farm-connect/internal/geo"
	"github.com/you-humble/farm-connect/internal/model"
)

func EntityToModel(e *FarmerInventoryEntity) *model.FarmerInventory {
	if e == nil {
		return nil
	}

	out := &model.FarmerInventory{
		FarmerID: e.FarmerID,
		Details: model.FarmerDetails{
			Name:      e.Details.Name,
			Email:     e.Details.Email,
			Phone:     e.Details.Phone,
			Address:   e.Details.Address,
			Status:    model.FarmerStatus(e.Details.Status),
			Latitude:  e.Details.Latitude,
			Longitude: e.Details.Longitude,
		},
		Crops:     make([]model.CropListing, 0, len(e.Crops)),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}

	for i := range e.Crops {
		out.Crops = append(out.Crops, CropEntityToModel(&e.Crops[i]))
	}

	return out
}

func entityFromModel(inv *model.FarmerInventory, now time.Time) *FarmerInventoryEntity {
	created := inv.CreatedAt
	if created.IsZero() {
		created = now
	}

	out := &FarmerInventoryEntity{
		ID:       uuid.NewString(),
		FarmerID: inv.FarmerID,
		Details: FarmerDetailsEntity{
			Name:      inv.Details.Name,
			Email:     inv.Details.Email,
			Phone:     inv.Details.Phone,
			Address:   inv.Details.Address,
			Status:    string(inv.Details.Status),
			Latitude:  inv.Details.Latitude,
			Longitude: inv.Details.Longitude,
		},
		Crops:     make([]CropListingEntity, 0, len(inv.Crops)),
		CreatedAt: created,
		UpdatedAt: now,
	}

	for _, c := range inv.Crops {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
		out.Crops = append(out.Crops, CropEntityFromModel(c))
	}

	return out
}

func CropEntityToModel(e *CropListingEntity) model.CropListing {
	return model.CropListing{
		ID:        e.ID,
		Name:      e.Name,
		Type:      model.CropType(e.Type),
		Unit:      model.CropUnit(e.Unit),
		Quantity:  e.Quantity,
		Price:     e.Price,
		Image:     e.Image,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func CropEntityFromModel(c model.CropListing) CropListingEntity {
	return CropListingEntity{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Unit:      string(c.Unit),
		Quantity:  c.Quantity,
		Price:     c.Price,
		Image:     c.Image,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// profileSet refreshes the farmer snapshot. Status is owned by the admin flow and never touched here.
func profileSet(d model.FarmerDetails) bson.M {
	set := bson.M{"farmer_details.name": d.Name}
	if d.Email != "" {
		set["farmer_details.email"] = d.Email
	}
	if d.Phone != "" {
		set["farmer_details.phone"] = d.Phone
	}
	if d.Address != "" {
		set["farmer_details.address"] = d.Address
	}
	if d.Located() {
		set["farmer_details.latitude"] = *d.Latitude
		set["farmer_details.longitude"] = *d.Longitude
	}
	return set
}

// BuildNearbyFilter selects approved, located farmers whose coordinates fall into b.
func BuildNearbyFilter(b orb.Bound) bson.M {
	q := bson.M{
		"farmer_details.status":    string(model.FarmerStatusApproved),
		"farmer_details.latitude":  bson.M{"$ne": nil, "$gte": clampLatitude(b.Min[1]), "$lte": clampLatitude(b.Max[1])},
		"farmer_details.longitude": bson.M{"$ne": nil},
	}

	switch {
	case b.Min[0] <= -180 && b.Max[0] >= 180:
	case geo.CrossesAntimeridian(b):
		q["$or"] = bson.A{
			bson.M{"farmer_details.longitude": bson.M{"$gte": b.Min[0]}},
			bson.M{"farmer_details.longitude": bson.M{"$lte": b.Max[0]}},
		}
	default:
		q["farmer_details.longitude"] = bson.M{"$ne": nil, "$gte": b.Min[0], "$lte": b.Max[0]}
	}

	return q
}

// clampLatitude keeps pole-touching bounds inside the stored range.
func clampLatitude(v float64) float64 {
	return math.Max(-90, math.Min(90, v))
}
