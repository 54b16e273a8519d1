package repository

import (
	"context"
	"time"

	"loyalty-system/internal/model"
)

// TransactionRepository is the append-only member ledger. There is no update
// or delete: transactions are immutable once written.
type TransactionRepository interface {
	Insert(ctx context.Context, tx *model.Transaction) error
	ListByMember(ctx context.Context, memberID string) ([]*model.Transaction, error)

	// ListBetween returns transactions with from <= timestamp < to, newest
	// first.
	ListBetween(ctx context.Context, from, to time.Time) ([]*model.Transaction, error)
	ListAll(ctx context.Context) ([]*model.Transaction, error)
}

// FinancialRepository is the append-only company book.
type FinancialRepository interface {
	Insert(ctx context.Context, entry *model.FinancialEntry) error
	ListBetween(ctx context.Context, from, to time.Time) ([]*model.FinancialEntry, error)
}

// IdempotencyRepository stores first outcomes of keyed requests. Put must be
// atomic: when two requests race on the same key exactly one wins and the
// other observes the stored record.
type IdempotencyRepository interface {
	// Put stores a record; returns ErrConflict if the key already exists.
	Put(ctx context.Context, rec *model.IdempotencyRecord) error
	// Get returns the stored record or (nil, nil) when the key is unseen.
	Get(ctx context.Context, key string) (*model.IdempotencyRecord, error)
}
