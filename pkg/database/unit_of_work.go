package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner executes a function as one atomic unit. Repository calls made with
// the context it passes in are committed or rolled back together, so a ledger
// delta, a voucher flip and a transaction record never apply partially.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UnitOfWork manages MongoDB transactions
type UnitOfWork struct {
	client *mongo.Client
}

// NewUnitOfWork creates a new Unit of Work instance
func NewUnitOfWork(client *mongo.Client) *UnitOfWork {
	return &UnitOfWork{
		client: client,
	}
}

// WithTransaction executes a function within a MongoDB transaction.
// If the function returns an error, the transaction is aborted. The session
// travels inside the context, so repositories participate without knowing
// they run transactionally.
func (uow *UnitOfWork) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := uow.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	// session.WithTransaction handles the transaction lifecycle, including
	// retries on transient commit errors.
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})

	return err
}
