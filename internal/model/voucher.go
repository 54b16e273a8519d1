package model

import (
	"time"

	"loyalty-system/internal/money"
)

// Voucher statuses. A voucher moves unused -> used exactly once, or
// unused -> expired when its expiry passes.
const (
	VoucherUnused  = "unused"
	VoucherUsed    = "used"
	VoucherExpired = "expired"
)

// VoucherType is the template a voucher is issued from. Value 0 with a
// non-negative cost of goods marks a product voucher (redeemed without a
// bill). A nil StockCount means unlimited stock.
type VoucherType struct {
	ID          string      `bson:"_id" json:"id"`
	Name        string      `bson:"name" json:"name"`
	Value       money.Cents `bson:"value" json:"value"`
	Threshold   money.Cents `bson:"threshold" json:"threshold"`
	ExpiryDays  int         `bson:"expiry_days" json:"expiryDays"`
	CostOfGoods money.Cents `bson:"cost_of_goods" json:"costOfGoods"`
	StockCount  *int64      `bson:"stock_count,omitempty" json:"stockCount,omitempty"`
	CreatedAt   time.Time   `bson:"created_at" json:"createdAt"`
}

// IsProduct reports whether redemption requires no bill amount.
func (vt *VoucherType) IsProduct() bool {
	return vt.Value == 0 && vt.CostOfGoods >= 0
}

// Voucher is an issued, member-bound instance of a VoucherType.
type Voucher struct {
	ID            string      `bson:"_id" json:"voucherId"`
	MemberID      string      `bson:"member_id" json:"memberId"`
	VoucherTypeID string      `bson:"voucher_type_id" json:"voucherTypeId"`
	TypeName      string      `bson:"type_name" json:"typeName"` // denormalized for listing
	Value         money.Cents `bson:"value" json:"value"`
	Threshold     money.Cents `bson:"threshold" json:"threshold"`
	Status        string      `bson:"status" json:"status"`
	IssuedAt      time.Time   `bson:"issued_at" json:"issueDate"`
	ExpiresAt     time.Time   `bson:"expires_at" json:"expiryDate"`
	UsedAt        *time.Time  `bson:"used_at,omitempty" json:"usedDate,omitempty"`
}
