package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// number accepts a JSON number or a numeric string.
type number struct {
	value float64
	set   bool
}

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}

	v, err := strconv.ParseFloat(string(bytes.TrimSpace(data)), 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", data)
	}
	n.value, n.set = v, true
	return nil
}

func (n number) ptr() *float64 {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}

type nearbyRequest struct {
	Latitude    number `json:"latitude"`
	Longitude   number `json:"longitude"`
	MaxDistance number `json:"maxDistance"`
}

type nearbyResponse struct {
	Crops []nearbyFarmerDTO `json:"crops"`
}

type nearbyFarmerDTO struct {
	FarmerID      string           `json:"farmerId"`
	FarmerName    string           `json:"farmerName"`
	FarmerDetails farmerDetailsDTO `json:"farmerDetails"`
	Crops         []nearbyCropDTO  `json:"crops"`
}

type nearbyCropDTO struct {
	cropDTO
	Distance string `json:"distance"`
}

type farmerDetailsDTO struct {
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Address   string   `json:"address,omitempty"`
	Status    string   `json:"status,omitempty"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type cropDTO struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Unit      string    `json:"unit"`
	Quantity  int64     `json:"quantity"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type inventoryDTO struct {
	FarmerID      string           `json:"farmerId"`
	FarmerDetails farmerDetailsDTO `json:"farmerDetails"`
	Crops         []cropDTO        `json:"crops"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type purchaseRequest struct {
	CropID   string `json:"cropId"`
	FarmerID string `json:"farmerId"`
	Quantity number `json:"quantity"`
}

type purchaseDTO struct {
	ID         string      `json:"_id"`
	CustomerID string      `json:"customerId"`
	FarmerID   string      `json:"farmerId"`
	CropID     string      `json:"cropId"`
	CropName   string      `json:"cropName"`
	Quantity   int64       `json:"quantity"`
	Unit       string      `json:"unit"`
	UnitPrice  json.Number `json:"unitPrice"`
	TotalPrice json.Number `json:"totalPrice"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type purchaseResponse struct {
	Message  string      `json:"message"`
	Purchase purchaseDTO `json:"purchase"`
}

type purchasesResponse struct {
	Purchases []purchaseDTO `json:"purchases"`
}

type adjustRequest struct {
	FarmerID string `json:"farmerId"`
	Quantity number `json:"quantity"`
	Delta    number `json:"delta"`
}

type addCropRequest struct {
	Name          string               `json:"name"`
	Type          string               `json:"type"`
	Unit          string               `json:"unit"`
	Quantity      number               `json:"quantity"`
	Price         number               `json:"price"`
	Image         string               `json:"image"`
	FarmerDetails farmerProfileRequest `json:"farmerDetails"`
}

type farmerProfileRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Latitude  number `json:"latitude"`
	Longitude number `json:"longitude"`
}

type statusRequest struct {
	Status string `json:"status"`
}
