package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/you-humble/farm-connect/internal/auth"
	"github.com/you-humble/farm-connect/internal/model"
	"github.com/you-humble/farm-connect/internal/transport/http/middleware"
	"github.com/you-humble/farm-connect/internal/transport/http/respond"
)

type NearbyService interface {
	FindNearby(ctx context.Context, q model.NearbyQuery) ([]model.NearbyFarmer, error)
}

type PurchaseService interface {
	Purchase(ctx context.Context, params model.PurchaseParams) (*model.Purchase, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*model.Purchase, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]*model.Purchase, error)
	UpdateStatus(ctx context.Context, params model.UpdatePurchaseStatusParams) (*model.Purchase, error)
}

type ListingService interface {
	AddCrop(ctx context.Context, params model.AddCropParams) (*model.FarmerInventory, error)
	AdjustQuantity(ctx context.Context, params model.AdjustQuantityParams) (*model.FarmerInventory, error)
	Inventory(ctx context.Context, farmerID string) (*model.FarmerInventory, error)
	SetFarmerStatus(ctx context.Context, farmerID string, status model.FarmerStatus) (*model.FarmerInventory, error)
}

type handler struct {
	nearby    NearbyService
	purchases PurchaseService
	listings  ListingService
}

func NewMarketplaceHandler(nearby NearbyService, purchases PurchaseService, listings ListingService) *handler {
	return &handler{
		nearby:    nearby,
		purchases: purchases,
		listings:  listings,
	}
}

// Register mounts the public and the token-protected routes on r.
func (h *handler) Register(r chi.Router, jwtSecret string) {
	r.Post("/nearby-crops", h.NearbyCrops)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(jwtSecret))

		r.Post("/purchases", h.CreatePurchase)
		r.Get("/purchases", h.ListPurchases)
		r.Patch("/crops/{cropId}", h.AdjustCrop)

		r.With(middleware.RequireRole(auth.RoleFarmer, auth.RoleAdmin)).
			Patch("/purchases/{purchaseId}/status", h.UpdatePurchaseStatus)

		r.With(middleware.RequireRole(auth.RoleFarmer)).Post("/crops", h.AddCrop)
		r.With(middleware.RequireRole(auth.RoleFarmer)).Get("/inventory", h.Inventory)

		r.With(middleware.RequireRole(auth.RoleAdmin)).
			Patch("/admin/farmers/{farmerId}/status", h.SetFarmerStatus)
	})
}

func (h *handler) NearbyCrops(w http.ResponseWriter, r *http.Request) {
	var req nearbyRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	farmers, err := h.nearby.FindNearby(r.Context(), nearbyRequestToQuery(req))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, nearbyFarmersToResponse(farmers))
}

func (h *handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var req purchaseRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	qty, ok := integer(req.Quantity)
	if !ok {
		respond.Error(w, r, model.NewFieldError("quantity", "must be a whole number"))
		return
	}

	p, err := h.purchases.Purchase(r.Context(), model.PurchaseParams{
		CustomerID: claims.UserID,
		FarmerID:   req.FarmerID,
		CropID:     req.CropID,
		Quantity:   qty,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, purchaseResponse{
		Message:  "Purchase recorded successfully",
		Purchase: purchaseToDTO(p),
	})
}

func (h *handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var (
		ps  []*model.Purchase
		err error
	)
	switch claims.Role {
	case auth.RoleFarmer:
		ps, err = h.purchases.ListByFarmer(r.Context(), claims.UserID)
	case auth.RoleAdmin:
		q := r.URL.Query()
		if farmerID := q.Get("farmerId"); farmerID != "" {
			ps, err = h.purchases.ListByFarmer(r.Context(), farmerID)
		} else {
			ps, err = h.purchases.ListByCustomer(r.Context(), q.Get("customerId"))
		}
	default:
		ps, err = h.purchases.ListByCustomer(r.Context(), claims.UserID)
	}
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, purchasesToResponse(ps))
}

func (h *handler) UpdatePurchaseStatus(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "purchaseId"))
	if err != nil {
		respond.Error(w, r, model.NewFieldError("purchaseId", "must be a UUID"))
		return
	}

	var req statusRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params := model.UpdatePurchaseStatusParams{
		PurchaseID: id,
		Status:     model.PurchaseStatus(strings.TrimSpace(req.Status)),
	}
	if claims.Role == auth.RoleFarmer {
		params.ActorID = claims.UserID
	}

	p, err := h.purchases.UpdateStatus(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, purchaseResponse{
		Message:  "Purchase status updated",
		Purchase: purchaseToDTO(p),
	})
}

// AdjustCrop lets a farmer edit their own listing and an admin edit any.
// Customers may only return stock, as when a cart line is removed, and never
// more than their pending purchases of that crop. Returns are not tied to a
// purchase, so repeated returns within that cap are trusted.
func (h *handler) AdjustCrop(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var req adjustRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	qty, ok := integerPtr(req.Quantity)
	if !ok {
		respond.Error(w, r, model.NewFieldError("quantity", "must be a whole number"))
		return
	}
	delta, ok := integerPtr(req.Delta)
	if !ok {
		respond.Error(w, r, model.NewFieldError("delta", "must be a whole number"))
		return
	}

	params := model.AdjustQuantityParams{
		FarmerID: req.FarmerID,
		CropID:   chi.URLParam(r, "cropId"),
		Quantity: qty,
		Delta:    delta,
	}

	switch claims.Role {
	case auth.RoleFarmer:
		params.FarmerID = claims.UserID
	case auth.RoleAdmin:
	default:
		if qty != nil || delta == nil || *delta <= 0 {
			respond.Error(w, r, model.ErrForbidden)
			return
		}

		pending, err := h.pendingQuantity(r.Context(), claims.UserID, params.FarmerID, params.CropID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if *delta > pending {
			respond.Error(w, r, model.ErrForbidden)
			return
		}
	}

	inv, err := h.listings.AdjustQuantity(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, inventoryToDTO(inv))
}

// pendingQuantity sums the customer's pending purchases of cropID, optionally from one farmer.
func (h *handler) pendingQuantity(ctx context.Context, customerID, farmerID, cropID string) (int64, error) {
	purchases, err := h.purchases.ListByCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, p := range purchases {
		if p.Status != model.PurchaseStatusPending || p.CropID != cropID {
			continue
		}
		if farmerID != "" && p.FarmerID != farmerID {
			continue
		}
		total += p.Quantity
	}
	return total, nil
}

func (h *handler) AddCrop(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var req addCropRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params, err := addCropRequestToParams(claims.UserID, req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.listings.AddCrop(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, inventoryToDTO(inv))
}

func (h *handler) Inventory(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	inv, err := h.listings.Inventory(r.Context(), claims.UserID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, inventoryToDTO(inv))
}

func (h *handler) SetFarmerStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.listings.SetFarmerStatus(
		r.Context(),
		chi.URLParam(r, "farmerId"),
		model.FarmerStatus(strings.TrimSpace(req.Status)),
	)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, inventoryToDTO(inv))
}
