package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"loyalty-system/internal/model"
	apperrors "loyalty-system/pkg/errors"
)

// mongodbVoucherTypeRepository implements VoucherTypeRepository using MongoDB.
type mongodbVoucherTypeRepository struct {
	collection *mongo.Collection
}

// NewVoucherTypeRepository creates a new MongoDB-based voucher type repository.
func NewVoucherTypeRepository(db *mongo.Database) VoucherTypeRepository {
	return &mongodbVoucherTypeRepository{collection: db.Collection("voucher_types")}
}

func (r *mongodbVoucherTypeRepository) Create(ctx context.Context, vt *model.VoucherType) error {
	_, err := r.collection.InsertOne(ctx, vt)
	return err
}

func (r *mongodbVoucherTypeRepository) GetByID(ctx context.Context, id string) (*model.VoucherType, error) {
	var vt model.VoucherType
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrVoucherTypeNotFound
		}
		return nil, err
	}
	return &vt, nil
}

func (r *mongodbVoucherTypeRepository) List(ctx context.Context) ([]*model.VoucherType, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "value", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var types []*model.VoucherType
	if err := cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *mongodbVoucherTypeRepository) Update(ctx context.Context, vt *model.VoucherType) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": vt.ID}, vt)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrVoucherTypeNotFound
	}
	return nil
}

func (r *mongodbVoucherTypeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrVoucherTypeNotFound
	}
	return nil
}

// DecrementStock atomically reserves stock: the $gte guard means the update
// matches nothing when the remaining count cannot cover the request.
func (r *mongodbVoucherTypeRepository) DecrementStock(ctx context.Context, id string, count int64) error {
	res := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{
			"_id":         id,
			"stock_count": bson.M{"$gte": count},
		},
		bson.M{"$inc": bson.M{"stock_count": -count}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if res.Err() != nil {
		if errors.Is(res.Err(), mongo.ErrNoDocuments) {
			return apperrors.ErrOutOfStock
		}
		return res.Err()
	}
	return nil
}

// mongodbVoucherRepository implements VoucherRepository using MongoDB.
type mongodbVoucherRepository struct {
	collection *mongo.Collection
}

// NewVoucherRepository creates a new MongoDB-based voucher repository.
func NewVoucherRepository(db *mongo.Database) VoucherRepository {
	return &mongodbVoucherRepository{collection: db.Collection("vouchers")}
}

func (r *mongodbVoucherRepository) Insert(ctx context.Context, vouchers []*model.Voucher) error {
	if len(vouchers) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(vouchers))
	for _, v := range vouchers {
		docs = append(docs, v)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *mongodbVoucherRepository) GetByID(ctx context.Context, id string) (*model.Voucher, error) {
	var v model.Voucher
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrVoucherNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *mongodbVoucherRepository) ListUnusedByMember(ctx context.Context, memberID string) ([]*model.Voucher, error) {
	cursor, err := r.collection.Find(
		ctx,
		bson.M{"member_id": memberID, "status": model.VoucherUnused},
		options.Find().SetSort(bson.D{{Key: "expires_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var vouchers []*model.Voucher
	if err := cursor.All(ctx, &vouchers); err != nil {
		return nil, err
	}
	return vouchers, nil
}

// MarkUsed guards on the current status so a voucher can be redeemed at most
// once even under concurrent attempts.
func (r *mongodbVoucherRepository) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	res := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": model.VoucherUnused},
		bson.M{"$set": bson.M{"status": model.VoucherUsed, "used_at": usedAt}},
	)
	if res.Err() != nil {
		if errors.Is(res.Err(), mongo.ErrNoDocuments) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return getErr
			}
			return apperrors.ErrVoucherUsed
		}
		return res.Err()
	}
	return nil
}

func (r *mongodbVoucherRepository) MarkExpired(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": model.VoucherUnused},
		bson.M{"$set": bson.M{"status": model.VoucherExpired}},
	)
	return err
}
