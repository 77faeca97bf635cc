package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/you-humble/farm-connect/internal/model"
)

type BatchCreator interface {
	CreateBatch(ctx context.Context, inventories []*model.FarmerInventory) error
}

// InventoriesBootstrap seeds a few approved farmers around Bangalore for local runs.
func InventoriesBootstrap(ctx context.Context, c BatchCreator) error {
	inventories := []*model.FarmerInventory{
		{
			FarmerID: "demo-farmer-hebbal",
			Details: model.FarmerDetails{
				Name:      "Ravi Kumar",
				Email:     "ravi.kumar@farmconnect.example.com",
				Phone:     "+91 98450 11223",
				Address:   "Hebbal, Bengaluru, Karnataka",
				Status:    model.FarmerStatusApproved,
				Latitude:  lo.ToPtr(13.0358),
				Longitude: lo.ToPtr(77.5970),
			},
			Crops: []model.CropListing{
				{
					ID:       uuid.NewString(),
					Name:     "Tomato",
					Type:     model.CropTypeVegetables,
					Unit:     model.CropUnitKg,
					Quantity: 120,
					Price:    32.5,
					Image:    "https://images.farmconnect.example.com/tomato.jpg",
				},
				{
					ID:       uuid.NewString(),
					Name:     "Banana",
					Type:     model.CropTypeFruits,
					Unit:     model.CropUnitDozen,
					Quantity: 40,
					Price:    55,
					Image:    "https://images.farmconnect.example.com/banana.jpg",
				},
			},
		},
		{
			FarmerID: "demo-farmer-hoskote",
			Details: model.FarmerDetails{
				Name:      "Lakshmi Devi",
				Email:     "lakshmi.devi@farmconnect.example.com",
				Phone:     "+91 99000 44556",
				Address:   "Hoskote, Karnataka",
				Status:    model.FarmerStatusApproved,
				Latitude:  lo.ToPtr(13.0707),
				Longitude: lo.ToPtr(77.7982),
			},
			Crops: []model.CropListing{
				{
					ID:       uuid.NewString(),
					Name:     "Mango",
					Type:     model.CropTypeFruits,
					Unit:     model.CropUnitKg,
					Quantity: 75,
					Price:    120,
					Image:    "https://images.farmconnect.example.com/mango.jpg",
				},
			},
		},
		{
			FarmerID: "demo-farmer-pending",
			Details: model.FarmerDetails{
				Name:    "Suresh Gowda",
				Address: "Ramanagara, Karnataka",
				Status:  model.FarmerStatusPending,
			},
			Crops: []model.CropListing{
				{
					ID:       uuid.NewString(),
					Name:     "Carrot",
					Type:     model.CropTypeVegetables,
					Unit:     model.CropUnitKg,
					Quantity: 60,
					Price:    40,
				},
			},
		},
	}

	return c.CreateBatch(ctx, inventories)
}
