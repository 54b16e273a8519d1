package model

import (
	"time"

	"loyalty-system/internal/money"
)

// Transaction types, matching the ledger's audit taxonomy.
const (
	TxRecharge       = "RECHARGE"
	TxConsumeBalance = "CONSUME_BALANCE"
	TxConsumeCash    = "CONSUME_CASH"
	TxConsumeVoucher = "CONSUME_VOUCHER"
	TxRedeemMerch    = "REDEEM_MERCH"
	TxRewardIssue    = "REWARD_ISSUE"
	TxSystemAdjust   = "SYSTEM_ADJUST"
)

// Transaction is one immutable entry of the member ledger. Records are only
// ever inserted; reports read them back, nothing mutates them.
type Transaction struct {
	ID              string      `bson:"_id" json:"id"`
	MemberID        string      `bson:"member_id" json:"memberId"`
	StaffID         string      `bson:"staff_id,omitempty" json:"staffId,omitempty"` // empty for self-service
	Type            string      `bson:"type" json:"type"`
	Amount          money.Cents `bson:"amount" json:"amount"` // signed: balance spends -, recharges and tracked cash +
	DiscountApplied money.Cents `bson:"discount_applied" json:"discountApplied"`
	PointsEarned    int64       `bson:"points_earned" json:"pointsEarned"`
	RelatedVoucher  string      `bson:"related_voucher,omitempty" json:"relatedVoucher,omitempty"`
	Timestamp       time.Time   `bson:"timestamp" json:"timestamp"`
}

// Financial ledger entry types: the company book, as opposed to the member
// ledger above.
const (
	FinRevenueBalance = "REVENUE_BALANCE"
	FinRevenueStore   = "REVENUE_STORE"
	FinCostOfGoods    = "COST_OF_GOODS"
	FinAdjustment     = "ADJUSTMENT"
)

// FinancialEntry records company-side revenue and cost alongside qualifying
// member transactions.
type FinancialEntry struct {
	ID                 string      `bson:"_id" json:"ledgerId"`
	Type               string      `bson:"type" json:"type"`
	Amount             money.Cents `bson:"amount" json:"amount"`
	Description        string      `bson:"description,omitempty" json:"description,omitempty"`
	RelatedMemberID    string      `bson:"related_member_id,omitempty" json:"relatedMemberId,omitempty"`
	RelatedTransaction string      `bson:"related_transaction,omitempty" json:"relatedTransaction,omitempty"`
	Timestamp          time.Time   `bson:"timestamp" json:"timestamp"`
}
