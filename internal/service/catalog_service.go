package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loyalty-system/internal/model"
	"loyalty-system/internal/money"
	"loyalty-system/internal/repository"
)

// CatalogService is the admin CRUD surface for voucher types, recharge tiers,
// store listings and announcements.
type CatalogService struct {
	voucherTypes repository.VoucherTypeRepository
	tiers        repository.RechargeTierRepository
	pointsStore  repository.PointsStoreRepository
	balanceStore repository.BalanceStoreRepository
	announces    repository.AnnouncementRepository

	now func() time.Time
}

// NewCatalogService creates a catalog service.
func NewCatalogService(
	voucherTypes repository.VoucherTypeRepository,
	tiers repository.RechargeTierRepository,
	pointsStore repository.PointsStoreRepository,
	balanceStore repository.BalanceStoreRepository,
	announces repository.AnnouncementRepository,
) *CatalogService {
	return &CatalogService{
		voucherTypes: voucherTypes,
		tiers:        tiers,
		pointsStore:  pointsStore,
		balanceStore: balanceStore,
		announces:    announces,
		now:          time.Now,
	}
}

func (s *CatalogService) voucherTypeFromRequest(req *model.VoucherTypeRequest) (*model.VoucherType, error) {
	value, err := money.FromFloat(req.Value)
	if err != nil {
		return nil, ErrInvalidAmount
	}
	threshold, err := money.FromFloat(req.Threshold)
	if err != nil {
		return nil, ErrInvalidAmount
	}
	cost, err := money.FromFloat(req.CostOfGoods)
	if err != nil {
		return nil, ErrInvalidAmount
	}
	return &model.VoucherType{
		Name:        req.Name,
		Value:       value,
		Threshold:   threshold,
		ExpiryDays:  req.ExpiryDays,
		CostOfGoods: cost,
		StockCount:  req.StockCount,
	}, nil
}

// CreateVoucherType adds a voucher template.
func (s *CatalogService) CreateVoucherType(ctx context.Context, req *model.VoucherTypeRequest) (*model.VoucherType, error) {
	vt, err := s.voucherTypeFromRequest(req)
	if err != nil {
		return nil, err
	}
	vt.ID = uuid.NewString()
	vt.CreatedAt = s.now()
	if err := s.voucherTypes.Create(ctx, vt); err != nil {
		return nil, err
	}
	return vt, nil
}

// UpdateVoucherType replaces a voucher template. Existing vouchers keep the
// values they were issued with.
func (s *CatalogService) UpdateVoucherType(ctx context.Context, id string, req *model.VoucherTypeRequest) (*model.VoucherType, error) {
	existing, err := s.voucherTypes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	vt, err := s.voucherTypeFromRequest(req)
	if err != nil {
		return nil, err
	}
	vt.ID = existing.ID
	vt.CreatedAt = existing.CreatedAt
	if err := s.voucherTypes.Update(ctx, vt); err != nil {
		return nil, err
	}
	return vt, nil
}

func (s *CatalogService) GetVoucherType(ctx context.Context, id string) (*model.VoucherType, error) {
	return s.voucherTypes.GetByID(ctx, id)
}

func (s *CatalogService) ListVoucherTypes(ctx context.Context) ([]*model.VoucherType, error) {
	return s.voucherTypes.List(ctx)
}

func (s *CatalogService) DeleteVoucherType(ctx context.Context, id string) error {
	return s.voucherTypes.Delete(ctx, id)
}

// CreateRechargeTier adds a top-up tier; the granted voucher type must exist.
func (s *CatalogService) CreateRechargeTier(ctx context.Context, req *model.RechargeTierRequest) (*model.RechargeTier, error) {
	amount, err := money.FromFloat(req.Amount)
	if err != nil || amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.GrantVoucherTypeID != "" {
		if _, err := s.voucherTypes.GetByID(ctx, req.GrantVoucherTypeID); err != nil {
			return nil, err
		}
	}
	tier := &model.RechargeTier{
		ID:                 uuid.NewString(),
		Amount:             amount,
		GrantVoucherTypeID: req.GrantVoucherTypeID,
		GrantVoucherCount:  req.GrantVoucherCount,
	}
	if err := s.tiers.Create(ctx, tier); err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *CatalogService) UpdateRechargeTier(ctx context.Context, id string, req *model.RechargeTierRequest) (*model.RechargeTier, error) {
	if _, err := s.tiers.GetByID(ctx, id); err != nil {
		return nil, err
	}
	amount, err := money.FromFloat(req.Amount)
	if err != nil || amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.GrantVoucherTypeID != "" {
		if _, err := s.voucherTypes.GetByID(ctx, req.GrantVoucherTypeID); err != nil {
			return nil, err
		}
	}
	tier := &model.RechargeTier{
		ID:                 id,
		Amount:             amount,
		GrantVoucherTypeID: req.GrantVoucherTypeID,
		GrantVoucherCount:  req.GrantVoucherCount,
	}
	if err := s.tiers.Update(ctx, tier); err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *CatalogService) ListRechargeTiers(ctx context.Context) ([]*model.RechargeTier, error) {
	return s.tiers.List(ctx)
}

func (s *CatalogService) DeleteRechargeTier(ctx context.Context, id string) error {
	return s.tiers.Delete(ctx, id)
}

// CreatePointsStoreItem adds a points-store listing bound to an existing
// voucher type.
func (s *CatalogService) CreatePointsStoreItem(ctx context.Context, req *model.PointsStoreItemRequest) (*model.PointsStoreItem, error) {
	if _, err := s.voucherTypes.GetByID(ctx, req.LinkedVoucherTypeID); err != nil {
		return nil, err
	}
	item := &model.PointsStoreItem{
		ID:                  uuid.NewString(),
		Name:                req.Name,
		Description:         req.Description,
		ImageURL:            req.ImageURL,
		PointsCost:          req.PointsCost,
		LinkedVoucherTypeID: req.LinkedVoucherTypeID,
		IsActive:            req.IsActive == nil || *req.IsActive,
		CreatedAt:           s.now(),
	}
	if err := s.pointsStore.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) UpdatePointsStoreItem(ctx context.Context, id string, req *model.PointsStoreItemRequest) (*model.PointsStoreItem, error) {
	existing, err := s.pointsStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.voucherTypes.GetByID(ctx, req.LinkedVoucherTypeID); err != nil {
		return nil, err
	}
	item := &model.PointsStoreItem{
		ID:                  existing.ID,
		Name:                req.Name,
		Description:         req.Description,
		ImageURL:            req.ImageURL,
		PointsCost:          req.PointsCost,
		LinkedVoucherTypeID: req.LinkedVoucherTypeID,
		IsActive:            req.IsActive == nil || *req.IsActive,
		CreatedAt:           existing.CreatedAt,
	}
	if err := s.pointsStore.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) GetPointsStoreItem(ctx context.Context, id string) (*model.PointsStoreItem, error) {
	return s.pointsStore.GetByID(ctx, id)
}

func (s *CatalogService) ListPointsStoreItems(ctx context.Context, activeOnly bool) ([]*model.PointsStoreItem, error) {
	return s.pointsStore.List(ctx, activeOnly)
}

func (s *CatalogService) DeletePointsStoreItem(ctx context.Context, id string) error {
	return s.pointsStore.Delete(ctx, id)
}

// CreateBalanceStoreItem adds a balance-store listing bound to an existing
// voucher type.
func (s *CatalogService) CreateBalanceStoreItem(ctx context.Context, req *model.BalanceStoreItemRequest) (*model.BalanceStoreItem, error) {
	if _, err := s.voucherTypes.GetByID(ctx, req.LinkedVoucherTypeID); err != nil {
		return nil, err
	}
	price, err := money.FromFloat(req.Price)
	if err != nil || price <= 0 {
		return nil, ErrInvalidAmount
	}
	item := &model.BalanceStoreItem{
		ID:                  uuid.NewString(),
		Name:                req.Name,
		Description:         req.Description,
		ImageURL:            req.ImageURL,
		Price:               price,
		LinkedVoucherTypeID: req.LinkedVoucherTypeID,
		IsActive:            req.IsActive == nil || *req.IsActive,
		CreatedAt:           s.now(),
	}
	if err := s.balanceStore.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) UpdateBalanceStoreItem(ctx context.Context, id string, req *model.BalanceStoreItemRequest) (*model.BalanceStoreItem, error) {
	existing, err := s.balanceStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.voucherTypes.GetByID(ctx, req.LinkedVoucherTypeID); err != nil {
		return nil, err
	}
	price, err := money.FromFloat(req.Price)
	if err != nil || price <= 0 {
		return nil, ErrInvalidAmount
	}
	item := &model.BalanceStoreItem{
		ID:                  existing.ID,
		Name:                req.Name,
		Description:         req.Description,
		ImageURL:            req.ImageURL,
		Price:               price,
		LinkedVoucherTypeID: req.LinkedVoucherTypeID,
		IsActive:            req.IsActive == nil || *req.IsActive,
		CreatedAt:           existing.CreatedAt,
	}
	if err := s.balanceStore.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) GetBalanceStoreItem(ctx context.Context, id string) (*model.BalanceStoreItem, error) {
	return s.balanceStore.GetByID(ctx, id)
}

func (s *CatalogService) ListBalanceStoreItems(ctx context.Context, activeOnly bool) ([]*model.BalanceStoreItem, error) {
	return s.balanceStore.List(ctx, activeOnly)
}

func (s *CatalogService) DeleteBalanceStoreItem(ctx context.Context, id string) error {
	return s.balanceStore.Delete(ctx, id)
}

// CreateAnnouncement adds a member-portal banner.
func (s *CatalogService) CreateAnnouncement(ctx context.Context, req *model.AnnouncementRequest) (*model.Announcement, error) {
	a := &model.Announcement{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Content:      req.Content,
		ImageURL:     req.ImageURL,
		ActionURL:    req.ActionURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive == nil || *req.IsActive,
		CreatedAt:    s.now(),
	}
	if err := s.announces.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) UpdateAnnouncement(ctx context.Context, id string, req *model.AnnouncementRequest) (*model.Announcement, error) {
	existing, err := s.announces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a := &model.Announcement{
		ID:           existing.ID,
		Title:        req.Title,
		Content:      req.Content,
		ImageURL:     req.ImageURL,
		ActionURL:    req.ActionURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive == nil || *req.IsActive,
		ExpiresAt:    existing.ExpiresAt,
		CreatedAt:    existing.CreatedAt,
	}
	if err := s.announces.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) GetAnnouncement(ctx context.Context, id string) (*model.Announcement, error) {
	return s.announces.GetByID(ctx, id)
}

func (s *CatalogService) ListAnnouncements(ctx context.Context, activeOnly bool) ([]*model.Announcement, error) {
	return s.announces.List(ctx, activeOnly)
}

func (s *CatalogService) DeleteAnnouncement(ctx context.Context, id string) error {
	return s.announces.Delete(ctx, id)
}
