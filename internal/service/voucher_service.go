package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loyalty-system/internal/model"
	"loyalty-system/internal/repository"
)

// VoucherIssuer grants voucher instances from a template, reserving finite
// stock atomically so concurrent issuances can never oversell.
type VoucherIssuer struct {
	voucherTypes repository.VoucherTypeRepository
	vouchers     repository.VoucherRepository

	// defaultValidityDays applies when a type declares expiry_days <= 0.
	defaultValidityDays int
}

// NewVoucherIssuer creates a voucher issuer.
func NewVoucherIssuer(voucherTypes repository.VoucherTypeRepository, vouchers repository.VoucherRepository, defaultValidityDays int) *VoucherIssuer {
	if defaultValidityDays <= 0 {
		defaultValidityDays = 365
	}
	return &VoucherIssuer{
		voucherTypes:        voucherTypes,
		vouchers:            vouchers,
		defaultValidityDays: defaultValidityDays,
	}
}

// Issue grants count vouchers of the given type to a member. Finite stock is
// decremented first; ErrOutOfStock aborts the whole batch.
func (i *VoucherIssuer) Issue(ctx context.Context, memberID string, vt *model.VoucherType, count int, now time.Time) ([]*model.Voucher, error) {
	if count <= 0 {
		return nil, nil
	}
	if vt.StockCount != nil {
		if err := i.voucherTypes.DecrementStock(ctx, vt.ID, int64(count)); err != nil {
			return nil, err
		}
	}

	expiryDays := vt.ExpiryDays
	if expiryDays <= 0 {
		expiryDays = i.defaultValidityDays
	}
	expiresAt := now.AddDate(0, 0, expiryDays)

	batch := make([]*model.Voucher, 0, count)
	for n := 0; n < count; n++ {
		batch = append(batch, &model.Voucher{
			ID:            uuid.NewString(),
			MemberID:      memberID,
			VoucherTypeID: vt.ID,
			TypeName:      vt.Name,
			Value:         vt.Value,
			Threshold:     vt.Threshold,
			Status:        model.VoucherUnused,
			IssuedAt:      now,
			ExpiresAt:     expiresAt,
		})
	}
	if err := i.vouchers.Insert(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// IssueByTypeID resolves the template and issues from it.
func (i *VoucherIssuer) IssueByTypeID(ctx context.Context, memberID, voucherTypeID string, count int, now time.Time) ([]*model.Voucher, error) {
	vt, err := i.voucherTypes.GetByID(ctx, voucherTypeID)
	if err != nil {
		return nil, err
	}
	return i.Issue(ctx, memberID, vt, count, now)
}
