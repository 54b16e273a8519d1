package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB wraps the MongoDB client and database
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect establishes a connection to MongoDB
func Connect(ctx context.Context, uri, dbName string) (*MongoDB, error) {
	clientOptions := options.Client().ApplyURI(uri)

	// Set connection timeout
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)

	mongoDB := &MongoDB{
		Client:   client,
		Database: db,
	}

	// Create indexes
	if err := mongoDB.CreateIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return mongoDB, nil
}

// CreateIndexes creates all necessary indexes for the application
func (m *MongoDB) CreateIndexes(ctx context.Context) error {
	// Unique email and phone on members: registration races resolve to a
	// duplicate-key error instead of two accounts.
	members := m.Database.Collection("members")
	memberIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("member_email_unique"),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("member_phone_unique"),
		},
	}
	if _, err := members.Indexes().CreateMany(ctx, memberIndexes); err != nil {
		return fmt.Errorf("failed to create member indexes: %w", err)
	}

	// Vouchers are listed per member and status.
	vouchers := m.Database.Collection("vouchers")
	voucherIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "member_id", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetName("voucher_member_status"),
	}
	if _, err := vouchers.Indexes().CreateOne(ctx, voucherIndex); err != nil {
		return fmt.Errorf("failed to create voucher index: %w", err)
	}

	// Reports scan the member ledger by time window; history by member.
	transactions := m.Database.Collection("transactions")
	txIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("transaction_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "member_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("transaction_member_timestamp"),
		},
	}
	if _, err := transactions.Indexes().CreateMany(ctx, txIndexes); err != nil {
		return fmt.Errorf("failed to create transaction indexes: %w", err)
	}

	ledger := m.Database.Collection("financial_ledger")
	ledgerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("ledger_timestamp"),
	}
	if _, err := ledger.Indexes().CreateOne(ctx, ledgerIndex); err != nil {
		return fmt.Errorf("failed to create ledger index: %w", err)
	}

	// Idempotency records expire on their own after a day; the key itself
	// is the _id so uniqueness needs no extra index.
	idem := m.Database.Collection("idempotency_keys")
	idemIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetName("idempotency_ttl").SetExpireAfterSeconds(86400),
	}
	if _, err := idem.Indexes().CreateOne(ctx, idemIndex); err != nil {
		return fmt.Errorf("failed to create idempotency index: %w", err)
	}

	return nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
