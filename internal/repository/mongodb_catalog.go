package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"loyalty-system/internal/model"
	apperrors "loyalty-system/pkg/errors"
)

// mongodbRechargeTierRepository implements RechargeTierRepository using MongoDB.
type mongodbRechargeTierRepository struct {
	collection *mongo.Collection
}

// NewRechargeTierRepository creates a new MongoDB-based recharge tier repository.
func NewRechargeTierRepository(db *mongo.Database) RechargeTierRepository {
	return &mongodbRechargeTierRepository{collection: db.Collection("recharge_tiers")}
}

func (r *mongodbRechargeTierRepository) Create(ctx context.Context, tier *model.RechargeTier) error {
	_, err := r.collection.InsertOne(ctx, tier)
	return err
}

func (r *mongodbRechargeTierRepository) GetByID(ctx context.Context, id string) (*model.RechargeTier, error) {
	var tier model.RechargeTier
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrTierNotFound
		}
		return nil, err
	}
	return &tier, nil
}

func (r *mongodbRechargeTierRepository) List(ctx context.Context) ([]*model.RechargeTier, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "amount", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tiers []*model.RechargeTier
	if err := cursor.All(ctx, &tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

func (r *mongodbRechargeTierRepository) Update(ctx context.Context, tier *model.RechargeTier) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": tier.ID}, tier)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrTierNotFound
	}
	return nil
}

func (r *mongodbRechargeTierRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrTierNotFound
	}
	return nil
}

// mongodbPointsStoreRepository implements PointsStoreRepository using MongoDB.
type mongodbPointsStoreRepository struct {
	collection *mongo.Collection
}

// NewPointsStoreRepository creates a new MongoDB-based points store repository.
func NewPointsStoreRepository(db *mongo.Database) PointsStoreRepository {
	return &mongodbPointsStoreRepository{collection: db.Collection("points_store")}
}

func (r *mongodbPointsStoreRepository) Create(ctx context.Context, item *model.PointsStoreItem) error {
	_, err := r.collection.InsertOne(ctx, item)
	return err
}

func (r *mongodbPointsStoreRepository) GetByID(ctx context.Context, id string) (*model.PointsStoreItem, error) {
	return r.get(ctx, bson.M{"_id": id})
}

func (r *mongodbPointsStoreRepository) GetActive(ctx context.Context, id string) (*model.PointsStoreItem, error) {
	return r.get(ctx, bson.M{"_id": id, "is_active": true})
}

func (r *mongodbPointsStoreRepository) get(ctx context.Context, filter bson.M) (*model.PointsStoreItem, error) {
	var item model.PointsStoreItem
	err := r.collection.FindOne(ctx, filter).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *mongodbPointsStoreRepository) List(ctx context.Context, activeOnly bool) ([]*model.PointsStoreItem, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "points_cost", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*model.PointsStoreItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongodbPointsStoreRepository) Update(ctx context.Context, item *model.PointsStoreItem) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}

func (r *mongodbPointsStoreRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}

// mongodbBalanceStoreRepository implements BalanceStoreRepository using MongoDB.
type mongodbBalanceStoreRepository struct {
	collection *mongo.Collection
}

// NewBalanceStoreRepository creates a new MongoDB-based balance store repository.
func NewBalanceStoreRepository(db *mongo.Database) BalanceStoreRepository {
	return &mongodbBalanceStoreRepository{collection: db.Collection("balance_store")}
}

func (r *mongodbBalanceStoreRepository) Create(ctx context.Context, item *model.BalanceStoreItem) error {
	_, err := r.collection.InsertOne(ctx, item)
	return err
}

func (r *mongodbBalanceStoreRepository) GetByID(ctx context.Context, id string) (*model.BalanceStoreItem, error) {
	return r.get(ctx, bson.M{"_id": id})
}

func (r *mongodbBalanceStoreRepository) GetActive(ctx context.Context, id string) (*model.BalanceStoreItem, error) {
	return r.get(ctx, bson.M{"_id": id, "is_active": true})
}

func (r *mongodbBalanceStoreRepository) get(ctx context.Context, filter bson.M) (*model.BalanceStoreItem, error) {
	var item model.BalanceStoreItem
	err := r.collection.FindOne(ctx, filter).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *mongodbBalanceStoreRepository) List(ctx context.Context, activeOnly bool) ([]*model.BalanceStoreItem, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*model.BalanceStoreItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongodbBalanceStoreRepository) Update(ctx context.Context, item *model.BalanceStoreItem) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}

func (r *mongodbBalanceStoreRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}

// mongodbAnnouncementRepository implements AnnouncementRepository using MongoDB.
type mongodbAnnouncementRepository struct {
	collection *mongo.Collection
}

// NewAnnouncementRepository creates a new MongoDB-based announcement repository.
func NewAnnouncementRepository(db *mongo.Database) AnnouncementRepository {
	return &mongodbAnnouncementRepository{collection: db.Collection("announcements")}
}

func (r *mongodbAnnouncementRepository) Create(ctx context.Context, a *model.Announcement) error {
	_, err := r.collection.InsertOne(ctx, a)
	return err
}

func (r *mongodbAnnouncementRepository) GetByID(ctx context.Context, id string) (*model.Announcement, error) {
	var a model.Announcement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *mongodbAnnouncementRepository) List(ctx context.Context, activeOnly bool) ([]*model.Announcement, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "display_order", Value: 1},
		{Key: "created_at", Value: -1},
	}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*model.Announcement
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongodbAnnouncementRepository) Update(ctx context.Context, a *model.Announcement) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}

func (r *mongodbAnnouncementRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}
