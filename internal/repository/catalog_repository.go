package repository

import (
	"context"

	"loyalty-system/internal/model"
)

// RechargeTierRepository manages the fixed top-up catalog.
type RechargeTierRepository interface {
	Create(ctx context.Context, tier *model.RechargeTier) error
	GetByID(ctx context.Context, id string) (*model.RechargeTier, error)
	List(ctx context.Context) ([]*model.RechargeTier, error)
	Update(ctx context.Context, tier *model.RechargeTier) error
	Delete(ctx context.Context, id string) error
}

// PointsStoreRepository manages points-store listings.
type PointsStoreRepository interface {
	Create(ctx context.Context, item *model.PointsStoreItem) error
	GetByID(ctx context.Context, id string) (*model.PointsStoreItem, error)
	GetActive(ctx context.Context, id string) (*model.PointsStoreItem, error)
	List(ctx context.Context, activeOnly bool) ([]*model.PointsStoreItem, error)
	Update(ctx context.Context, item *model.PointsStoreItem) error
	Delete(ctx context.Context, id string) error
}

// BalanceStoreRepository manages balance-store listings.
type BalanceStoreRepository interface {
	Create(ctx context.Context, item *model.BalanceStoreItem) error
	GetByID(ctx context.Context, id string) (*model.BalanceStoreItem, error)
	GetActive(ctx context.Context, id string) (*model.BalanceStoreItem, error)
	List(ctx context.Context, activeOnly bool) ([]*model.BalanceStoreItem, error)
	Update(ctx context.Context, item *model.BalanceStoreItem) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementRepository manages member-portal banners.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *model.Announcement) error
	GetByID(ctx context.Context, id string) (*model.Announcement, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Announcement, error)
	Update(ctx context.Context, a *model.Announcement) error
	Delete(ctx context.Context, id string) error
}
