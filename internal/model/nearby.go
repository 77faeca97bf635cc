package model

const DefaultMaxDistanceKm = 50

// NearbyQuery holds the raw client input; nil means the field was not sent.
type NearbyQuery struct {
	Latitude  *float64
	Longitude *float64
	// Nil means DefaultMaxDistanceKm.
	MaxDistanceKm *float64
}

type NearbyFarmer struct {
	FarmerID   string
	FarmerName string
	Details    FarmerDetails
	DistanceKm float64
	Crops      []NearbyCrop
}

type NearbyCrop struct {
	CropListing
	// Distance in km rendered with two decimals.
	Distance string
}
