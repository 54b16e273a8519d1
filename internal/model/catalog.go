package model

import (
	"time"

	"loyalty-system/internal/money"
)

// RechargeTier is a fixed top-up amount and the vouchers granted with it.
type RechargeTier struct {
	ID                 string      `bson:"_id" json:"id"`
	Amount             money.Cents `bson:"amount" json:"amount"`
	GrantVoucherTypeID string      `bson:"grant_voucher_type_id,omitempty" json:"grantVoucherType,omitempty"`
	GrantVoucherCount  int         `bson:"grant_voucher_count" json:"grantVoucherCount"`
}

// PointsStoreItem is a points-store listing: loyalty points buy the linked
// voucher type.
type PointsStoreItem struct {
	ID                  string    `bson:"_id" json:"id"`
	Name                string    `bson:"name" json:"name"`
	Description         string    `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL            string    `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	PointsCost          int64     `bson:"points_cost" json:"pointsCost"`
	LinkedVoucherTypeID string    `bson:"linked_voucher_type_id" json:"linkedVoucherType"`
	IsActive            bool      `bson:"is_active" json:"isActive"`
	CreatedAt           time.Time `bson:"created_at" json:"createdAt"`
}

// BalanceStoreItem is a balance-store listing: stored balance buys the linked
// voucher type at full price (no balance discount in the store).
type BalanceStoreItem struct {
	ID                  string      `bson:"_id" json:"id"`
	Name                string      `bson:"name" json:"name"`
	Description         string      `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL            string      `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Price               money.Cents `bson:"price" json:"balancePrice"`
	LinkedVoucherTypeID string      `bson:"linked_voucher_type_id" json:"linkedVoucherType"`
	IsActive            bool        `bson:"is_active" json:"isActive"`
	CreatedAt           time.Time   `bson:"created_at" json:"createdAt"`
}

// Announcement is a banner shown in the member portal.
type Announcement struct {
	ID           string     `bson:"_id" json:"id"`
	Title        string     `bson:"title" json:"title"`
	Content      string     `bson:"content,omitempty" json:"content,omitempty"`
	ImageURL     string     `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	ActionURL    string     `bson:"action_url,omitempty" json:"actionUrl,omitempty"`
	DisplayOrder int        `bson:"display_order" json:"displayOrder"`
	IsActive     bool       `bson:"is_active" json:"isActive"`
	ExpiresAt    *time.Time `bson:"expires_at,omitempty" json:"expiryDate,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"createdAt"`
}

// IdempotencyRecord stores the first outcome of a keyed mutating request so
// retries replay it instead of reapplying the operation.
type IdempotencyRecord struct {
	Key        string    `bson:"_id" json:"key"`
	Method     string    `bson:"method" json:"method"`
	Path       string    `bson:"path" json:"path"`
	StatusCode int       `bson:"status_code" json:"statusCode"`
	Body       []byte    `bson:"body" json:"-"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}
