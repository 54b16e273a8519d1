package repository

import (
	"context"
	"time"

	"loyalty-system/internal/model"
)

// VoucherTypeRepository manages voucher templates and their stock.
type VoucherTypeRepository interface {
	Create(ctx context.Context, vt *model.VoucherType) error
	GetByID(ctx context.Context, id string) (*model.VoucherType, error)
	List(ctx context.Context) ([]*model.VoucherType, error)
	Update(ctx context.Context, vt *model.VoucherType) error
	Delete(ctx context.Context, id string) error

	// DecrementStock atomically reserves stock for an issuance. It only
	// applies when the remaining stock covers the request; otherwise it
	// fails with ErrOutOfStock and the count is untouched. Types with
	// unlimited stock are never passed here.
	DecrementStock(ctx context.Context, id string, count int64) error
}

// VoucherRepository manages issued voucher instances.
type VoucherRepository interface {
	Insert(ctx context.Context, vouchers []*model.Voucher) error
	GetByID(ctx context.Context, id string) (*model.Voucher, error)
	ListUnusedByMember(ctx context.Context, memberID string) ([]*model.Voucher, error)

	// MarkUsed flips an unused voucher to used. The guard on the current
	// status makes double redemption impossible: the second attempt fails
	// with ErrVoucherUsed.
	MarkUsed(ctx context.Context, id string, usedAt time.Time) error

	// MarkExpired records that a voucher was seen past its expiry.
	MarkExpired(ctx context.Context, id string) error
}
