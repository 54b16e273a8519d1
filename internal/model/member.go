package model

import (
	"time"

	"loyalty-system/internal/money"
)

// Staff roles. MEMBER is the default for self-registered accounts; everything
// else is back-office.
const (
	RoleMember         = "MEMBER"
	RoleCashier        = "CASHIER"
	RoleStoreManager   = "STORE_MANAGER"
	RoleAccountManager = "ACCOUNT_MANAGER"
	RoleSuperuser      = "SUPERUSER"
)

// IsStaffRole reports whether a role grants access to the admin portal.
func IsStaffRole(role string) bool {
	switch role {
	case RoleCashier, RoleStoreManager, RoleAccountManager, RoleSuperuser:
		return true
	}
	return false
}

// Member is the ledger's unit of account: stored balance, spendable loyalty
// points and the lifetime counter that drives the tier.
type Member struct {
	ID           string `bson:"_id" json:"memberId"`
	Email        string `bson:"email" json:"email"`
	Phone        string `bson:"phone" json:"phone"`
	Nickname     string `bson:"nickname" json:"nickname"`
	PasswordHash string `bson:"password_hash" json:"-"`
	Role         string `bson:"role" json:"role"`

	Level       string     `bson:"level" json:"level"`
	LevelExpiry *time.Time `bson:"level_expiry,omitempty" json:"levelExpiryDate,omitempty"`

	// LoyaltyPoints is the spendable counter; LifetimePoints only ever grows.
	LoyaltyPoints  int64 `bson:"loyalty_points" json:"loyaltyPoints"`
	LifetimePoints int64 `bson:"lifetime_points" json:"lifetimePoints"`

	Balance       money.Cents `bson:"balance" json:"balance"`
	BalanceExpiry *time.Time  `bson:"balance_expiry,omitempty" json:"balanceExpiryDate,omitempty"`

	AvatarURL         string `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	Flair             string `bson:"flair,omitempty" json:"flair,omitempty"`
	SocialOptIn       bool   `bson:"social_opt_in" json:"socialOptIn"`
	PreferredLanguage string `bson:"preferred_language,omitempty" json:"preferredLanguage,omitempty"`

	TermsAgreedAt *time.Time `bson:"terms_agreed_at,omitempty" json:"termsAgreedTime,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"createdAt"`
}

// IsStaff reports whether the member belongs to the back office.
func (m *Member) IsStaff() bool { return IsStaffRole(m.Role) }
