package model

// Request bodies are explicit structs validated at the boundary; handlers
// reject malformed payloads instead of coercing them. Monetary amounts arrive
// as decimal currency units and are converted to cents before any business
// logic runs.

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Nickname  string `json:"nickname" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	Password2 string `json:"password2" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ProfileUpdateRequest struct {
	Nickname          *string `json:"nickname,omitempty"`
	Email             *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone             *string `json:"phone,omitempty"`
	Flair             *string `json:"flair,omitempty"`
	SocialOptIn       *bool   `json:"socialOptIn,omitempty"`
	PreferredLanguage *string `json:"preferredLanguage,omitempty"`
	Password          *string `json:"password,omitempty" binding:"omitempty,min=8"`
}

// MemberSearchRequest accepts a phone substring or an exact member ID; at
// least one must be present.
type MemberSearchRequest struct {
	Phone    string `json:"phone,omitempty"`
	MemberID string `json:"memberId,omitempty"`
}

type RechargeRequest struct {
	TierID string `json:"tier_id" binding:"required"`
}

type ConsumeRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type TrackSpendRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type RedeemVoucherRequest struct {
	VoucherID  string  `json:"voucher_id" binding:"required"`
	BillAmount float64 `json:"bill_amount" binding:"gte=0"`
}

type PointsRedeemRequest struct {
	RewardID string `json:"reward_id" binding:"required"`
}

type BalanceRedeemRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

type VoucherTypeRequest struct {
	Name        string  `json:"name" binding:"required"`
	Value       float64 `json:"value" binding:"gte=0"`
	Threshold   float64 `json:"threshold" binding:"gte=0"`
	ExpiryDays  int     `json:"expiryDays" binding:"gte=0"`
	CostOfGoods float64 `json:"costOfGoods" binding:"gte=0"`
	StockCount  *int64  `json:"stockCount,omitempty"`
}

type RechargeTierRequest struct {
	Amount             float64 `json:"amount" binding:"required,gt=0"`
	GrantVoucherTypeID string  `json:"grantVoucherType,omitempty"`
	GrantVoucherCount  int     `json:"grantVoucherCount" binding:"gte=0"`
}

type PointsStoreItemRequest struct {
	Name                string `json:"name" binding:"required"`
	Description         string `json:"description,omitempty"`
	ImageURL            string `json:"imageUrl,omitempty"`
	PointsCost          int64  `json:"pointsCost" binding:"required,gt=0"`
	LinkedVoucherTypeID string `json:"linkedVoucherType" binding:"required"`
	IsActive            *bool  `json:"isActive,omitempty"`
}

type BalanceStoreItemRequest struct {
	Name                string  `json:"name" binding:"required"`
	Description         string  `json:"description,omitempty"`
	ImageURL            string  `json:"imageUrl,omitempty"`
	Price               float64 `json:"balancePrice" binding:"required,gt=0"`
	LinkedVoucherTypeID string  `json:"linkedVoucherType" binding:"required"`
	IsActive            *bool   `json:"isActive,omitempty"`
}

type AnnouncementRequest struct {
	Title        string `json:"title" binding:"required"`
	Content      string `json:"content,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	ActionURL    string `json:"actionUrl,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     *bool  `json:"isActive,omitempty"`
}
