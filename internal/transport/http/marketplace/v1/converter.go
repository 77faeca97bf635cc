package http

import (
	"encoding/json"
	"math"

	"github.com/you-humble/farm-connect/internal/model"
)

func nearbyRequestToQuery(req nearbyRequest) model.NearbyQuery {
	return model.NearbyQuery{
		Latitude:      req.Latitude.ptr(),
		Longitude:     req.Longitude.ptr(),
		MaxDistanceKm: req.MaxDistance.ptr(),
	}
}

func nearbyFarmersToResponse(farmers []model.NearbyFarmer) nearbyResponse {
	out := nearbyResponse{Crops: make([]nearbyFarmerDTO, 0, len(farmers))}
	for _, f := range farmers {
		crops := make([]nearbyCropDTO, 0, len(f.Crops))
		for _, c := range f.Crops {
			crops = append(crops, nearbyCropDTO{cropDTO: cropToDTO(c.CropListing), Distance: c.Distance})
		}
		out.Crops = append(out.Crops, nearbyFarmerDTO{
			FarmerID:      f.FarmerID,
			FarmerName:    f.FarmerName,
			FarmerDetails: detailsToDTO(f.Details),
			Crops:         crops,
		})
	}
	return out
}

func detailsToDTO(d model.FarmerDetails) farmerDetailsDTO {
	return farmerDetailsDTO{
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Address:   d.Address,
		Status:    string(d.Status),
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
	}
}

func cropToDTO(c model.CropListing) cropDTO {
	return cropDTO{
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

func inventoryToDTO(inv *model.FarmerInventory) inventoryDTO {
	crops := make([]cropDTO, 0, len(inv.Crops))
	for _, c := range inv.Crops {
		crops = append(crops, cropToDTO(c))
	}
	return inventoryDTO{
		FarmerID:      inv.FarmerID,
		FarmerDetails: detailsToDTO(inv.Details),
		Crops:         crops,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func purchaseToDTO(p *model.Purchase) purchaseDTO {
	return purchaseDTO{
		ID:         p.ID.String(),
		CustomerID: p.CustomerID,
		FarmerID:   p.FarmerID,
		CropID:     p.CropID,
		CropName:   p.CropName,
		Quantity:   p.Quantity,
		Unit:       string(p.Unit),
		UnitPrice:  json.Number(p.UnitPrice.StringFixed(2)),
		TotalPrice: json.Number(p.TotalPrice.StringFixed(2)),
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func purchasesToResponse(ps []*model.Purchase) purchasesResponse {
	out := purchasesResponse{Purchases: make([]purchaseDTO, 0, len(ps))}
	for _, p := range ps {
		out.Purchases = append(out.Purchases, purchaseToDTO(p))
	}
	return out
}

// integer converts a whole JSON number. ok is false for fractions and out-of-range values.
func integer(n number) (v int64, ok bool) {
	if !n.set {
		return 0, true
	}
	if n.value != math.Trunc(n.value) || math.Abs(n.value) > math.MaxInt32 {
		return 0, false
	}
	return int64(n.value), true
}

func integerPtr(n number) (*int64, bool) {
	if !n.set {
		return nil, true
	}
	v, ok := integer(n)
	if !ok {
		return nil, false
	}
	return &v, true
}

func addCropRequestToParams(farmerID string, req addCropRequest) (model.AddCropParams, error) {
	qty, ok := integer(req.Quantity)
	if !ok {
		return model.AddCropParams{}, model.NewFieldError("quantity", "must be a whole number")
	}
	if !req.Quantity.set {
		return model.AddCropParams{}, model.NewFieldError("quantity", "is required")
	}
	if !req.Price.set {
		return model.AddCropParams{}, model.NewFieldError("price", "is required")
	}

	return model.AddCropParams{
		FarmerID: farmerID,
		Profile: model.FarmerDetails{
			Name:      req.FarmerDetails.Name,
			Email:     req.FarmerDetails.Email,
			Phone:     req.FarmerDetails.Phone,
			Address:   req.FarmerDetails.Address,
			Latitude:  req.FarmerDetails.Latitude.ptr(),
			Longitude: req.FarmerDetails.Longitude.ptr(),
		},
		Crop: model.CropListing{
			Name:     req.Name,
			Type:     model.CropType(req.Type),
			Unit:     model.CropUnit(req.Unit),
			Quantity: qty,
			Price:    req.Price.value,
			Image:    req.Image,
		},
	}, nil
}
