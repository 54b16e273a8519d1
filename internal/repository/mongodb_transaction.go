package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"loyalty-system/internal/model"
	apperrors "loyalty-system/pkg/errors"
)

// mongodbTransactionRepository implements TransactionRepository using MongoDB.
type mongodbTransactionRepository struct {
	collection *mongo.Collection
}

// NewTransactionRepository creates a new MongoDB-based transaction repository.
func NewTransactionRepository(db *mongo.Database) TransactionRepository {
	return &mongodbTransactionRepository{collection: db.Collection("transactions")}
}

func (r *mongodbTransactionRepository) Insert(ctx context.Context, tx *model.Transaction) error {
	_, err := r.collection.InsertOne(ctx, tx)
	return err
}

func (r *mongodbTransactionRepository) ListByMember(ctx context.Context, memberID string) ([]*model.Transaction, error) {
	return r.find(ctx, bson.M{"member_id": memberID})
}

func (r *mongodbTransactionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*model.Transaction, error) {
	return r.find(ctx, bson.M{"timestamp": bson.M{"$gte": from, "$lt": to}})
}

func (r *mongodbTransactionRepository) ListAll(ctx context.Context) ([]*model.Transaction, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongodbTransactionRepository) find(ctx context.Context, filter bson.M) ([]*model.Transaction, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*model.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// mongodbFinancialRepository implements FinancialRepository using MongoDB.
type mongodbFinancialRepository struct {
	collection *mongo.Collection
}

// NewFinancialRepository creates a new MongoDB-based financial ledger repository.
func NewFinancialRepository(db *mongo.Database) FinancialRepository {
	return &mongodbFinancialRepository{collection: db.Collection("financial_ledger")}
}

func (r *mongodbFinancialRepository) Insert(ctx context.Context, entry *model.FinancialEntry) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *mongodbFinancialRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*model.FinancialEntry, error) {
	cursor, err := r.collection.Find(
		ctx,
		bson.M{"timestamp": bson.M{"$gte": from, "$lt": to}},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.FinancialEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// mongodbIdempotencyRepository implements IdempotencyRepository using MongoDB.
// The key is the document _id, so the uniqueness guarantee comes directly
// from the primary index.
type mongodbIdempotencyRepository struct {
	collection *mongo.Collection
}

// NewIdempotencyRepository creates a new MongoDB-based idempotency repository.
func NewIdempotencyRepository(db *mongo.Database) IdempotencyRepository {
	return &mongodbIdempotencyRepository{collection: db.Collection("idempotency_keys")}
}

func (r *mongodbIdempotencyRepository) Put(ctx context.Context, rec *model.IdempotencyRecord) error {
	_, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

func (r *mongodbIdempotencyRepository) Get(ctx context.Context, key string) (*model.IdempotencyRecord, error) {
	var rec model.IdempotencyRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
