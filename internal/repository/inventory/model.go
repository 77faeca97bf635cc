package repository

import "time"

type FarmerInventoryEntity struct {
	ID        string              `bson:"_id"`
	FarmerID  string              `bson:"farmer_id"`
	Details   FarmerDetailsEntity `bson:"farmer_details"`
	Crops     []CropListingEntity `bson:"crops"`
	CreatedAt time.Time           `bson:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at"`
}

type FarmerDetailsEntity struct {
	Name      string   `bson:"name"`
	Email     string   `bson:"email,omitempty"`
	Phone     string   `bson:"phone,omitempty"`
	Address   string   `bson:"address,omitempty"`
	Status    string   `bson:"status"`
	Latitude  *float64 `bson:"latitude"`
	Longitude *float64 `bson:"longitude"`
}

type CropListingEntity struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Type      string    `bson:"type"`
	Unit      string    `bson:"unit"`
	Quantity  int64     `bson:"quantity"`
	Price     float64   `bson:"price"`
	Image     string    `bson:"image,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}
