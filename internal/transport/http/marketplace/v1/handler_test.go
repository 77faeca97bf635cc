package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/farm-connect/internal/auth"
	"github.com/you-humble/farm-connect/internal/model"
)

const secret = "test-secret"

type fakeNearby struct {
	findNearby func(ctx context.Context, q model.NearbyQuery) ([]model.NearbyFarmer, error)
}

func (f *fakeNearby) FindNearby(ctx context.Context, q model.NearbyQuery) ([]model.NearbyFarmer, error) {
	return f.findNearby(ctx, q)
}

type fakePurchases struct {
	purchase       func(ctx context.Context, params model.PurchaseParams) (*model.Purchase, error)
	listByCustomer func(ctx context.Context, customerID string) ([]*model.Purchase, error)
	listByFarmer   func(ctx context.Context, farmerID string) ([]*model.Purchase, error)
	updateStatus   func(ctx context.Context, params model.UpdatePurchaseStatusParams) (*model.Purchase, error)
}

func (f *fakePurchases) Purchase(ctx context.Context, params model.PurchaseParams) (*model.Purchase, error) {
	return f.purchase(ctx, params)
}

func (f *fakePurchases) ListByCustomer(ctx context.Context, customerID string) ([]*model.Purchase, error) {
	return f.listByCustomer(ctx, customerID)
}

func (f *fakePurchases) ListByFarmer(ctx context.Context, farmerID string) ([]*model.Purchase, error) {
	return f.listByFarmer(ctx, farmerID)
}

func (f *fakePurchases) UpdateStatus(ctx context.Context, params model.UpdatePurchaseStatusParams) (*model.Purchase, error) {
	return f.updateStatus(ctx, params)
}

type fakeListings struct {
	addCrop         func(ctx context.Context, params model.AddCropParams) (*model.FarmerInventory, error)
	adjustQuantity  func(ctx context.Context, params model.AdjustQuantityParams) (*model.FarmerInventory, error)
	inventory       func(ctx context.Context, farmerID string) (*model.FarmerInventory, error)
	setFarmerStatus func(ctx context.Context, farmerID string, status model.FarmerStatus) (*model.FarmerInventory, error)
}

func (f *fakeListings) AddCrop(ctx context.Context, params model.AddCropParams) (*model.FarmerInventory, error) {
	return f.addCrop(ctx, params)
}

func (f *fakeListings) AdjustQuantity(ctx context.Context, params model.AdjustQuantityParams) (*model.FarmerInventory, error) {
	return f.adjustQuantity(ctx, params)
}

func (f *fakeListings) Inventory(ctx context.Context, farmerID string) (*model.FarmerInventory, error) {
	return f.inventory(ctx, farmerID)
}

func (f *fakeListings) SetFarmerStatus(ctx context.Context, farmerID string, status model.FarmerStatus) (*model.FarmerInventory, error) {
	return f.setFarmerStatus(ctx, farmerID, status)
}

func newRouter(n *fakeNearby, p *fakePurchases, l *fakeListings) http.Handler {
	if n == nil {
		n = &fakeNearby{}
	}
	if p == nil {
		p = &fakePurchases{}
	}
	if l == nil {
		l = &fakeListings{}
	}
	r := chi.NewRouter()
	NewMarketplaceHandler(n, p, l).Register(r, secret)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body, userID string, role auth.Role) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		tok, err := auth.GenerateToken(secret, userID, role, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func inventory(farmerID string) *model.FarmerInventory {
	return &model.FarmerInventory{
		FarmerID: farmerID,
		Details:  model.FarmerDetails{Name: gofakeit.Name(), Status: model.FarmerStatusApproved},
		Crops: []model.CropListing{
			{ID: "c1", Name: "Tomato", Type: model.CropTypeVegetables, Unit: model.CropUnitKg, Quantity: 5, Price: 40},
		},
	}
}

func TestNearbyCrops(t *testing.T) {
	t.Parallel()

	t.Run("numeric strings are accepted", func(t *testing.T) {
		t.Parallel()

		var got model.NearbyQuery
		h := newRouter(&fakeNearby{findNearby: func(_ context.Context, q model.NearbyQuery) ([]model.NearbyFarmer, error) {
			got = q
			return []model.NearbyFarmer{{
				FarmerID:   "f1",
				FarmerName: "Asha",
				Crops: []model.NearbyCrop{
					{CropListing: model.CropListing{ID: "c1", Name: "Tomato", Quantity: 10, Price: 40}, Distance: "3.21"},
				},
			}}, nil
		}}, nil, nil)

		rec := do(t, h, http.MethodPost, "/nearby-crops", `{"latitude":"12.9716","longitude":77.5946}`, "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got.Latitude)
		require.NotNil(t, got.Longitude)
		assert.InDelta(t, 12.9716, *got.Latitude, 1e-9)
		assert.InDelta(t, 77.5946, *got.Longitude, 1e-9)
		assert.Nil(t, got.MaxDistanceKm)
		assert.Contains(t, rec.Body.String(), `"farmerName":"Asha"`)
		assert.Contains(t, rec.Body.String(), `"distance":"3.21"`)
	})

	t.Run("empty result is an empty list", func(t *testing.T) {
		t.Parallel()

		h := newRouter(&fakeNearby{findNearby: func(context.Context, model.NearbyQuery) ([]model.NearbyFarmer, error) {
			return nil, nil
		}}, nil, nil)

		rec := do(t, h, http.MethodPost, "/nearby-crops", `{"latitude":1,"longitude":2}`, "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"crops":[]}`, rec.Body.String())
	})

	t.Run("validation error lists fields", func(t *testing.T) {
		t.Parallel()

		h := newRouter(&fakeNearby{findNearby: func(context.Context, model.NearbyQuery) ([]model.NearbyFarmer, error) {
			return nil, errors.Join(model.NewFieldError("latitude", "is required"))
		}}, nil, nil)

		rec := do(t, h, http.MethodPost, "/nearby-crops", `{}`, "", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"latitude":"is required"`)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		rec := do(t, newRouter(nil, nil, nil), http.MethodPost, "/nearby-crops", `{"latitude":"north"}`, "", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreatePurchase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		token      bool
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no token",
			body:       `{"cropId":"c1","quantity":5}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "recorded",
			body:       `{"cropId":"c1","farmerId":"f1","quantity":5}`,
			token:      true,
			wantStatus: http.StatusCreated,
			wantBody:   `"totalPrice":200.00`,
		},
		{
			name:       "fractional quantity",
			body:       `{"cropId":"c1","quantity":1.5}`,
			token:      true,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"quantity":"must be a whole number"`,
		},
		{
			name:       "insufficient stock",
			body:       `{"cropId":"c1","quantity":500}`,
			token:      true,
			err:        model.ErrInsufficientStock,
			wantStatus: http.StatusBadRequest,
			wantBody:   `"message":"insufficient stock for the requested quantity"`,
		},
		{
			name:       "crop not found",
			body:       `{"cropId":"nope","quantity":1}`,
			token:      true,
			err:        model.ErrCropNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "conflict after retry",
			body:       `{"cropId":"c1","quantity":1}`,
			token:      true,
			err:        model.ErrConcurrencyConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "outcome unknown",
			body:       `{"cropId":"c1","quantity":1}`,
			token:      true,
			err:        model.ErrOutcomeUnknown,
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "store down",
			body:       `{"cropId":"c1","quantity":1}`,
			token:      true,
			err:        errors.Join(model.ErrUpstreamUnavailable, errors.New("dial tcp")),
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			customerID := gofakeit.UUID()
			h := newRouter(nil, &fakePurchases{purchase: func(_ context.Context, params model.PurchaseParams) (*model.Purchase, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				assert.Equal(t, customerID, params.CustomerID)
				assert.Equal(t, "f1", params.FarmerID)
				assert.Equal(t, int64(5), params.Quantity)
				return &model.Purchase{
					ID:         uuid.New(),
					CustomerID: params.CustomerID,
					FarmerID:   params.FarmerID,
					CropID:     params.CropID,
					Quantity:   params.Quantity,
					UnitPrice:  decimal.NewFromInt(40),
					TotalPrice: decimal.NewFromInt(200),
					Status:     model.PurchaseStatusPending,
				}, nil
			}}, nil)

			userID := ""
			if tt.token {
				userID = customerID
			}
			rec := do(t, h, http.MethodPost, "/purchases", tt.body, userID, auth.RoleCustomer)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestListPurchases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		userID       string
		role         auth.Role
		query        string
		wantCustomer string
		wantFarmer   string
	}{
		{name: "customer sees own", userID: "cust-1", role: auth.RoleCustomer, wantCustomer: "cust-1"},
		{name: "farmer sees sales", userID: "farm-1", role: auth.RoleFarmer, wantFarmer: "farm-1"},
		{name: "admin by farmer", userID: "adm", role: auth.RoleAdmin, query: "?farmerId=farm-2", wantFarmer: "farm-2"},
		{name: "admin by customer", userID: "adm", role: auth.RoleAdmin, query: "?customerId=cust-2", wantCustomer: "cust-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotCustomer, gotFarmer string
			h := newRouter(nil, &fakePurchases{
				listByCustomer: func(_ context.Context, id string) ([]*model.Purchase, error) {
					gotCustomer = id
					return nil, nil
				},
				listByFarmer: func(_ context.Context, id string) ([]*model.Purchase, error) {
					gotFarmer = id
					return nil, nil
				},
			}, nil)

			rec := do(t, h, http.MethodGet, "/purchases"+tt.query, "", tt.userID, tt.role)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"purchases":[]}`, rec.Body.String())
			assert.Equal(t, tt.wantCustomer, gotCustomer)
			assert.Equal(t, tt.wantFarmer, gotFarmer)
		})
	}
}

func TestAdjustCrop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		userID     string
		role       auth.Role
		body       string
		err        error
		listErr    error
		wantStatus int
		wantFarmer string
	}{
		{
			name:       "farmer edits own listing",
			userID:     "farm-1",
			role:       auth.RoleFarmer,
			body:       `{"farmerId":"someone-else","quantity":12}`,
			wantStatus: http.StatusOK,
			wantFarmer: "farm-1",
		},
		{
			name:       "admin edits any listing",
			userID:     "adm",
			role:       auth.RoleAdmin,
			body:       `{"farmerId":"farm-2","delta":-3}`,
			wantStatus: http.StatusOK,
			wantFarmer: "farm-2",
		},
		{
			name:       "customer returns stock",
			userID:     "cust-1",
			role:       auth.RoleCustomer,
			body:       `{"farmerId":"farm-3","delta":2}`,
			wantStatus: http.StatusOK,
			wantFarmer: "farm-3",
		},
		{
			name:       "customer returns all pending stock",
			userID:     "cust-1",
			role:       auth.RoleCustomer,
			body:       `{"farmerId":"farm-3","delta":6}`,
			wantStatus: http.StatusOK,
			wantFarmer: "farm-3",
		},
		{
			name:       "customer cannot return more than pending",
			userID:     "cust-1",
			role:       auth.RoleCustomer,
			body:       `{"farmerId":"farm-3","delta":7}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "customer without purchases from that farmer",
			userID:     "cust-1",
			role:       auth.RoleCustomer,
			body:       `{"farmerId":"farm-9","delta":1}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "customer purchases unavailable",
			userID:     "cust-1",
			role:       auth.RoleCustomer,
			body:       `{"farmerId":"farm-3","delta":1}`,
			listErr:    model.ErrUpstreamUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "customer cannot take stock",
			userID:     "cust-1",
			role:       auth.RoleCustomer,
			body:       `{"farmerId":"farm-3","delta":-2}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "customer cannot set quantity",
			userID:     "cust-1",
			role:       auth.RoleCustomer,
			body:       `{"farmerId":"farm-3","quantity":100}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "fractional delta",
			userID:     "farm-1",
			role:       auth.RoleFarmer,
			body:       `{"delta":0.5}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative result",
			userID:     "farm-1",
			role:       auth.RoleFarmer,
			body:       `{"delta":-50}`,
			err:        model.ErrInsufficientStock,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown crop",
			userID:     "farm-1",
			role:       auth.RoleFarmer,
			body:       `{"quantity":1}`,
			err:        model.ErrCropNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			purchases := &fakePurchases{listByCustomer: func(_ context.Context, customerID string) ([]*model.Purchase, error) {
				if tt.listErr != nil {
					return nil, tt.listErr
				}
				assert.Equal(t, "cust-1", customerID)
				return []*model.Purchase{
					{FarmerID: "farm-3", CropID: "c1", Quantity: 4, Status: model.PurchaseStatusPending},
					{FarmerID: "farm-3", CropID: "c1", Quantity: 2, Status: model.PurchaseStatusPending},
					{FarmerID: "farm-3", CropID: "c1", Quantity: 9, Status: model.PurchaseStatusDelivered},
					{FarmerID: "farm-3", CropID: "c2", Quantity: 9, Status: model.PurchaseStatusPending},
				}, nil
			}}

			h := newRouter(nil, purchases, &fakeListings{adjustQuantity: func(_ context.Context, params model.AdjustQuantityParams) (*model.FarmerInventory, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				assert.Equal(t, tt.wantFarmer, params.FarmerID)
				assert.Equal(t, "c1", params.CropID)
				return inventory(params.FarmerID), nil
			}})

			rec := do(t, h, http.MethodPatch, "/crops/c1", tt.body, tt.userID, tt.role)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUpdatePurchaseStatus(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	t.Run("farmer acts as owner", func(t *testing.T) {
		t.Parallel()

		h := newRouter(nil, &fakePurchases{updateStatus: func(_ context.Context, params model.UpdatePurchaseStatusParams) (*model.Purchase, error) {
			assert.Equal(t, id, params.PurchaseID)
			assert.Equal(t, "farm-1", params.ActorID)
			assert.Equal(t, model.PurchaseStatusConfirmed, params.Status)
			return &model.Purchase{ID: id, Status: params.Status}, nil
		}}, nil)

		rec := do(t, h, http.MethodPatch, "/purchases/"+id.String()+"/status", `{"status":"confirmed"}`, "farm-1", auth.RoleFarmer)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
	})

	t.Run("admin is unrestricted", func(t *testing.T) {
		t.Parallel()

		h := newRouter(nil, &fakePurchases{updateStatus: func(_ context.Context, params model.UpdatePurchaseStatusParams) (*model.Purchase, error) {
			assert.Empty(t, params.ActorID)
			return nil, model.ErrInvalidTransition
		}}, nil)

		rec := do(t, h, http.MethodPatch, "/purchases/"+id.String()+"/status", `{"status":"pending"}`, "adm", auth.RoleAdmin)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		t.Parallel()

		rec := do(t, newRouter(nil, nil, nil), http.MethodPatch, "/purchases/"+id.String()+"/status", `{"status":"confirmed"}`, "cust", auth.RoleCustomer)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		t.Parallel()

		rec := do(t, newRouter(nil, nil, nil), http.MethodPatch, "/purchases/42/status", `{"status":"confirmed"}`, "adm", auth.RoleAdmin)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"purchaseId"`)
	})
}

func TestFarmerRoutes(t *testing.T) {
	t.Parallel()

	t.Run("add crop", func(t *testing.T) {
		t.Parallel()

		h := newRouter(nil, nil, &fakeListings{addCrop: func(_ context.Context, params model.AddCropParams) (*model.FarmerInventory, error) {
			assert.Equal(t, "farm-1", params.FarmerID)
			assert.Equal(t, int64(10), params.Crop.Quantity)
			assert.InDelta(t, 35.5, params.Crop.Price, 1e-9)
			require.NotNil(t, params.Profile.Latitude)
			assert.InDelta(t, 12.97, *params.Profile.Latitude, 1e-9)
			return inventory(params.FarmerID), nil
		}})

		body := `{"name":"Mango","type":"fruits","unit":"kg","quantity":"10","price":35.5,` +
			`"farmerDetails":{"name":"Ravi","latitude":"12.97","longitude":77.59}}`
		rec := do(t, h, http.MethodPost, "/crops", body, "farm-1", auth.RoleFarmer)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"farmerId":"farm-1"`)
	})

	t.Run("add crop without price", func(t *testing.T) {
		t.Parallel()

		rec := do(t, newRouter(nil, nil, nil), http.MethodPost, "/crops", `{"name":"Mango","quantity":1}`, "farm-1", auth.RoleFarmer)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"price":"is required"`)
	})

	t.Run("inventory is farmer only", func(t *testing.T) {
		t.Parallel()

		rec := do(t, newRouter(nil, nil, nil), http.MethodGet, "/inventory", "", "cust", auth.RoleCustomer)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("inventory", func(t *testing.T) {
		t.Parallel()

		h := newRouter(nil, nil, &fakeListings{inventory: func(_ context.Context, farmerID string) (*model.FarmerInventory, error) {
			return inventory(farmerID), nil
		}})

		rec := do(t, h, http.MethodGet, "/inventory", "", "farm-1", auth.RoleFarmer)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"_id":"c1"`)
	})

	t.Run("admin approves farmer", func(t *testing.T) {
		t.Parallel()

		h := newRouter(nil, nil, &fakeListings{setFarmerStatus: func(_ context.Context, farmerID string, status model.FarmerStatus) (*model.FarmerInventory, error) {
			assert.Equal(t, "farm-9", farmerID)
			assert.Equal(t, model.FarmerStatusApproved, status)
			return inventory(farmerID), nil
		}})

		rec := do(t, h, http.MethodPatch, "/admin/farmers/farm-9/status", `{"status":"approved"}`, "adm", auth.RoleAdmin)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
