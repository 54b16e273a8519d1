package repository

import (
	"context"
	"time"

	"loyalty-system/internal/model"
	"loyalty-system/internal/money"
)

// MemberRepository defines the ledger store. ApplyDelta and SpendPoints are
// the only balance/point mutators and both are atomic with respect to
// concurrent operations on the same member.
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error

	GetByID(ctx context.Context, id string) (*model.Member, error)
	GetByEmail(ctx context.Context, email string) (*model.Member, error)

	// Search matches a phone substring or an exact member ID, members only.
	Search(ctx context.Context, phone, memberID string) (*model.Member, error)

	// ApplyDelta atomically adjusts balance and points. A negative balance
	// delta only applies when the resulting balance stays non-negative;
	// otherwise the call fails with ErrInsufficientBalance and nothing
	// changes. Returns the post-update member.
	ApplyDelta(ctx context.Context, id string, balanceDelta money.Cents, loyaltyDelta, lifetimeDelta int64) (*model.Member, error)

	// SpendPoints atomically deducts spendable points, guarded so the
	// counter never goes negative.
	SpendPoints(ctx context.Context, id string, points int64) (*model.Member, error)

	// SetLevel persists a tier computation result.
	SetLevel(ctx context.Context, id string, level string, expiry time.Time) error

	// SetBalanceExpiry stamps the stored-balance validity window.
	SetBalanceExpiry(ctx context.Context, id string, expiry time.Time) error

	UpdateProfile(ctx context.Context, member *model.Member) error

	// ListWithAvatars returns opted-in members for the social gallery,
	// highest points first.
	ListWithAvatars(ctx context.Context, limit int64) ([]*model.Member, error)
}
