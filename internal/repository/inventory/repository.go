package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/you-humble/farm-connect/internal/model"
	"github.com/you-humble/farm-connect/platform/logger"
)

type repository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewInventoryRepository(collection *mongo.Collection) *repository {
	return &repository{coll: collection, now: func() time.Time { return time.Now().UTC() }}
}

// EnsureIndexes creates the indexes every query here relies on.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "farmer_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "crops._id", Value: 1}}},
		{Keys: bson.D{
			{Key: "farmer_details.status", Value: 1},
			{Key: "farmer_details.latitude", Value: 1},
			{Key: "farmer_details.longitude", Value: 1},
		}},
	}, options.CreateIndexes())

	return err
}

func (r *repository) Inventory(ctx context.Context, farmerID string) (*model.FarmerInventory, error) {
	const op = "repository.Inventory"

	var ent FarmerInventoryEntity
	err := r.coll.FindOne(ctx, bson.M{"farmer_id": farmerID}).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrFarmerNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return EntityToModel(&ent), nil
}

// InventoryByCrop finds the document that owns cropID.
func (r *repository) InventoryByCrop(ctx context.Context, cropID string) (*model.FarmerInventory, error) {
	const op = "repository.InventoryByCrop"

	var ent FarmerInventoryEntity
	err := r.coll.FindOne(ctx, bson.M{"crops._id": cropID}).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrCropNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return EntityToModel(&ent), nil
}

// ListNearbyCandidates returns approved, located farmers inside the bound in insertion order.
func (r *repository) ListNearbyCandidates(ctx context.Context, bound orb.Bound) ([]*model.FarmerInventory, error) {
	const op = "repository.ListNearbyCandidates"

	cur, err := r.coll.Find(ctx, BuildNearbyFilter(bound),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			logger.Warn(ctx, "close cursor", logger.String("op", op), logger.ErrorF(cerr))
		}
	}()

	out := make([]*model.FarmerInventory, 0)
	for cur.Next(ctx) {
		var ent FarmerInventoryEntity
		if err := cur.Decode(&ent); err != nil {
			return nil, fmt.Errorf("%s decode: %w", op, err)
		}
		out = append(out, EntityToModel(&ent))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s cursor: %w", op, err)
	}

	return out, nil
}

// DecrementStock takes qty units from the listing in one guarded update.
// It fails with ErrConcurrencyConflict when the listing no longer holds qty units.
func (r *repository) DecrementStock(ctx context.Context, farmerID, cropID string, qty int64) (*model.StockChange, error) {
	const op = "repository.DecrementStock"

	now := r.now()
	filter := bson.M{
		"farmer_id": farmerID,
		"crops": bson.M{"$elemMatch": bson.M{
			"_id":      cropID,
			"quantity": bson.M{"$gte": qty},
		}},
	}
	update := bson.M{
		"$inc": bson.M{"crops.$.quantity": -qty},
		"$set": bson.M{"crops.$.updated_at": now, "updated_at": now},
	}

	var ent FarmerInventoryEntity
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrConcurrencyConflict
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stockChange(&ent, cropID)
}

// RestoreStock gives qty units back to a listing. If the listing was pruned in the
// meantime it is re-created from snapshot with qty units.
func (r *repository) RestoreStock(ctx context.Context, farmerID string, snapshot model.CropListing, qty int64) error {
	const op = "repository.RestoreStock"

	now := r.now()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"farmer_id": farmerID, "crops._id": snapshot.ID},
		bson.M{
			"$inc": bson.M{"crops.$.quantity": qty},
			"$set": bson.M{"crops.$.updated_at": now, "updated_at": now},
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	snapshot.Quantity = qty
	snapshot.UpdatedAt = now
	res, err = r.coll.UpdateOne(ctx,
		bson.M{"farmer_id": farmerID},
		bson.M{
			"$push": bson.M{"crops": CropEntityFromModel(snapshot)},
			"$set":  bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return fmt.Errorf("%s re-create: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return model.ErrFarmerNotFound
	}

	return nil
}

// SetQuantity overwrites the quantity of a listing. Empty farmerID matches any owner.
func (r *repository) SetQuantity(ctx context.Context, farmerID, cropID string, qty int64) (*model.StockChange, error) {
	const op = "repository.SetQuantity"

	now := r.now()
	filter := ownerFilter(farmerID, bson.M{"crops._id": cropID})
	update := bson.M{"$set": bson.M{
		"crops.$.quantity":   qty,
		"crops.$.updated_at": now,
		"updated_at":         now,
	}}

	var ent FarmerInventoryEntity
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrCropNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stockChange(&ent, cropID)
}

// ShiftQuantity adds delta to a listing, refusing to go below zero.
func (r *repository) ShiftQuantity(ctx context.Context, farmerID, cropID string, delta int64) (*model.StockChange, error) {
	const op = "repository.ShiftQuantity"

	elem := bson.M{"_id": cropID}
	if delta < 0 {
		elem["quantity"] = bson.M{"$gte": -delta}
	}

	now := r.now()
	filter := ownerFilter(farmerID, bson.M{"crops": bson.M{"$elemMatch": elem}})
	update := bson.M{
		"$inc": bson.M{"crops.$.quantity": delta},
		"$set": bson.M{"crops.$.updated_at": now, "updated_at": now},
	}

	var ent FarmerInventoryEntity
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ent)
	if err == nil {
		return stockChange(&ent, cropID)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	n, err := r.coll.CountDocuments(ctx, ownerFilter(farmerID, bson.M{"crops._id": cropID}))
	if err != nil {
		return nil, fmt.Errorf("%s count: %w", op, err)
	}
	if n == 0 {
		return nil, model.ErrCropNotFound
	}
	return nil, model.ErrInsufficientStock
}

// AddCrop appends a listing, creating the farmer document on first use.
func (r *repository) AddCrop(ctx context.Context, params model.AddCropParams) (*model.FarmerInventory, error) {
	const op = "repository.AddCrop"

	now := r.now()
	crop := params.Crop
	crop.CreatedAt, crop.UpdatedAt = now, now

	set := profileSet(params.Profile)
	set["updated_at"] = now

	setOnInsert := bson.M{
		"_id":                   uuid.NewString(),
		"farmer_details.status": string(model.FarmerStatusPending),
		"created_at":            now,
	}
	if !params.Profile.Located() {
		setOnInsert["farmer_details.latitude"] = nil
		setOnInsert["farmer_details.longitude"] = nil
	}

	update := bson.M{
		"$push":        bson.M{"crops": CropEntityFromModel(crop)},
		"$set":         set,
		"$setOnInsert": setOnInsert,
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var ent FarmerInventoryEntity
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"farmer_id": params.FarmerID}, update, opts).Decode(&ent)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the race to create the document; it exists now.
		err = r.coll.FindOneAndUpdate(ctx, bson.M{"farmer_id": params.FarmerID}, update, opts).Decode(&ent)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return EntityToModel(&ent), nil
}

func (r *repository) SetFarmerStatus(ctx context.Context, farmerID string, status model.FarmerStatus) (*model.FarmerInventory, error) {
	const op = "repository.SetFarmerStatus"

	var ent FarmerInventoryEntity
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"farmer_id": farmerID},
		bson.M{"$set": bson.M{"farmer_details.status": string(status), "updated_at": r.now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrFarmerNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return EntityToModel(&ent), nil
}

// PruneDepleted pulls every zero-quantity listing of one farmer. Reports whether anything was removed.
func (r *repository) PruneDepleted(ctx context.Context, farmerID string) (bool, error) {
	const op = "repository.PruneDepleted"

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"farmer_id": farmerID, "crops.quantity": bson.M{"$lte": 0}},
		bson.M{
			"$pull": bson.M{"crops": bson.M{"quantity": bson.M{"$lte": 0}}},
			"$set":  bson.M{"updated_at": r.now()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.ModifiedCount > 0, nil
}

// PruneAllDepleted is the periodic full sweep. Returns the number of documents changed.
func (r *repository) PruneAllDepleted(ctx context.Context) (int64, error) {
	const op = "repository.PruneAllDepleted"

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"crops.quantity": bson.M{"$lte": 0}},
		bson.M{
			"$pull": bson.M{"crops": bson.M{"quantity": bson.M{"$lte": 0}}},
			"$set":  bson.M{"updated_at": r.now()},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.ModifiedCount, nil
}

func (r *repository) CreateBatch(ctx context.Context, inventories []*model.FarmerInventory) error {
	const op = "repository.CreateBatch"

	docs := make([]any, 0, len(inventories))
	for _, inv := range inventories {
		if inv == nil {
			continue
		}
		if inv.FarmerID == "" {
			return fmt.Errorf("%s: farmer id is empty", op)
		}
		docs = append(docs, entityFromModel(inv, r.now()))
	}
	if len(docs) == 0 {
		return nil
	}

	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func ownerFilter(farmerID string, q bson.M) bson.M {
	if farmerID != "" {
		q["farmer_id"] = farmerID
	}
	return q
}

func stockChange(ent *FarmerInventoryEntity, cropID string) (*model.StockChange, error) {
	inv := EntityToModel(ent)

	crop, ok := inv.Crop(cropID)
	if !ok {
		return nil, model.ErrCropNotFound
	}

	return &model.StockChange{FarmerID: inv.FarmerID, Crop: *crop, Inventory: inv}, nil
}
