package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loyalty-system/internal/model"
)

func TestIssueAppliesDefaultValidity(t *testing.T) {
	types := newFakeVoucherTypeRepo()
	vouchers := newFakeVoucherRepo()
	issuer := NewVoucherIssuer(types, vouchers, 365)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// expiry_days 0 falls back to the 365-day default.
	batch, err := issuer.Issue(context.Background(), "m1", &model.VoucherType{
		ID: "vt1", Name: "Open Ended", ExpiryDays: 0,
	}, 1, now)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, now.AddDate(0, 0, 365), batch[0].ExpiresAt)
}

func TestIssueUsesDeclaredValidity(t *testing.T) {
	issuer := NewVoucherIssuer(newFakeVoucherTypeRepo(), newFakeVoucherRepo(), 365)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	batch, err := issuer.Issue(context.Background(), "m1", &model.VoucherType{
		ID: "vt1", Name: "Short", ExpiryDays: 7,
	}, 1, now)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, now.AddDate(0, 0, 7), batch[0].ExpiresAt)
}

func TestIssueDecrementsFiniteStock(t *testing.T) {
	types := newFakeVoucherTypeRepo()
	vouchers := newFakeVoucherRepo()
	issuer := NewVoucherIssuer(types, vouchers, 365)
	ctx := context.Background()
	now := time.Now()

	stock := int64(3)
	vt := &model.VoucherType{ID: "vt1", Name: "Limited", StockCount: &stock}
	require.NoError(t, types.Create(ctx, vt))

	batch, err := issuer.Issue(ctx, "m1", vt, 2, now)
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	stored, err := types.GetByID(ctx, "vt1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), *stored.StockCount)

	_, err = issuer.Issue(ctx, "m1", vt, 2, now)
	assert.ErrorIs(t, err, ErrOutOfStock)

	stored, err = types.GetByID(ctx, "vt1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), *stored.StockCount)
}

func TestIssueZeroCountIsNoop(t *testing.T) {
	issuer := NewVoucherIssuer(newFakeVoucherTypeRepo(), newFakeVoucherRepo(), 365)

	batch, err := issuer.Issue(context.Background(), "m1", &model.VoucherType{ID: "vt1"}, 0, time.Now())
	require.NoError(t, err)
	assert.Nil(t, batch)
}

func TestIssueByTypeIDUnknownType(t *testing.T) {
	issuer := NewVoucherIssuer(newFakeVoucherTypeRepo(), newFakeVoucherRepo(), 365)

	_, err := issuer.IssueByTypeID(context.Background(), "m1", "missing", 1, time.Now())
	assert.ErrorIs(t, err, ErrVoucherTypeNotFound)
}

func TestIssueDenormalizesTemplateFields(t *testing.T) {
	issuer := NewVoucherIssuer(newFakeVoucherTypeRepo(), newFakeVoucherRepo(), 365)

	batch, err := issuer.Issue(context.Background(), "m1", &model.VoucherType{
		ID: "vt1", Name: "Tenner", Value: 1000, Threshold: 5000, ExpiryDays: 30,
	}, 1, time.Now())
	require.NoError(t, err)
	require.Len(t, batch, 1)
	v := batch[0]
	assert.Equal(t, "vt1", v.VoucherTypeID)
	assert.Equal(t, "Tenner", v.TypeName)
	assert.Equal(t, model.VoucherUnused, v.Status)
	assert.EqualValues(t, 1000, v.Value)
	assert.EqualValues(t, 5000, v.Threshold)
}
