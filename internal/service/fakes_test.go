package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"loyalty-system/internal/model"
	"loyalty-system/internal/money"
)

// In-memory repositories mirroring the guard semantics of the mongo
// implementations, so service tests run against the same contract.

type fakeMemberRepo struct {
	mu      sync.Mutex
	members map[string]*model.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[string]*model.Member)}
}

func (r *fakeMemberRepo) Create(_ context.Context, m *model.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.members {
		if existing.Email == m.Email {
			return ErrEmailTaken
		}
		if existing.Phone == m.Phone {
			return ErrPhoneTaken
		}
	}
	clone := *m
	r.members[m.ID] = &clone
	return nil
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id string) (*model.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *fakeMemberRepo) GetByEmail(_ context.Context, email string) (*model.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Email == email {
			clone := *m
			return &clone, nil
		}
	}
	return nil, ErrMemberNotFound
}

func (r *fakeMemberRepo) Search(_ context.Context, phone, memberID string) (*model.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Role != model.RoleMember {
			continue
		}
		if memberID != "" && m.ID == memberID {
			clone := *m
			return &clone, nil
		}
		if phone != "" && strings.Contains(m.Phone, phone) {
			clone := *m
			return &clone, nil
		}
	}
	return nil, ErrMemberNotFound
}

func (r *fakeMemberRepo) ApplyDelta(_ context.Context, id string, balanceDelta money.Cents, loyaltyDelta, lifetimeDelta int64) (*model.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	if m.Balance+balanceDelta < 0 {
		return nil, ErrInsufficientBalance
	}
	m.Balance += balanceDelta
	m.LoyaltyPoints += loyaltyDelta
	m.LifetimePoints += lifetimeDelta
	clone := *m
	return &clone, nil
}

func (r *fakeMemberRepo) SpendPoints(_ context.Context, id string, points int64) (*model.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	if m.LoyaltyPoints < points {
		return nil, ErrInsufficientPoints
	}
	m.LoyaltyPoints -= points
	clone := *m
	return &clone, nil
}

func (r *fakeMemberRepo) SetLevel(_ context.Context, id, level string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return ErrMemberNotFound
	}
	m.Level = level
	m.LevelExpiry = &expiry
	return nil
}

func (r *fakeMemberRepo) SetBalanceExpiry(_ context.Context, id string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return ErrMemberNotFound
	}
	m.BalanceExpiry = &expiry
	return nil
}

func (r *fakeMemberRepo) UpdateProfile(_ context.Context, m *model.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m.ID]; !ok {
		return ErrMemberNotFound
	}
	clone := *m
	r.members[m.ID] = &clone
	return nil
}

func (r *fakeMemberRepo) ListWithAvatars(_ context.Context, limit int64) ([]*model.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Member
	for _, m := range r.members {
		if m.AvatarURL != "" && m.SocialOptIn {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoyaltyPoints > out[j].LoyaltyPoints })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeVoucherTypeRepo struct {
	mu    sync.Mutex
	types map[string]*model.VoucherType
}

func newFakeVoucherTypeRepo() *fakeVoucherTypeRepo {
	return &fakeVoucherTypeRepo{types: make(map[string]*model.VoucherType)}
}

func (r *fakeVoucherTypeRepo) Create(_ context.Context, vt *model.VoucherType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *vt
	r.types[vt.ID] = &clone
	return nil
}

func (r *fakeVoucherTypeRepo) GetByID(_ context.Context, id string) (*model.VoucherType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vt, ok := r.types[id]
	if !ok {
		return nil, ErrVoucherTypeNotFound
	}
	clone := *vt
	return &clone, nil
}

func (r *fakeVoucherTypeRepo) List(_ context.Context) ([]*model.VoucherType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.VoucherType
	for _, vt := range r.types {
		clone := *vt
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeVoucherTypeRepo) Update(_ context.Context, vt *model.VoucherType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[vt.ID]; !ok {
		return ErrVoucherTypeNotFound
	}
	clone := *vt
	r.types[vt.ID] = &clone
	return nil
}

func (r *fakeVoucherTypeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[id]; !ok {
		return ErrVoucherTypeNotFound
	}
	delete(r.types, id)
	return nil
}

func (r *fakeVoucherTypeRepo) DecrementStock(_ context.Context, id string, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	vt, ok := r.types[id]
	if !ok || vt.StockCount == nil || *vt.StockCount < count {
		return ErrOutOfStock
	}
	*vt.StockCount -= count
	return nil
}

type fakeVoucherRepo struct {
	mu       sync.Mutex
	vouchers map[string]*model.Voucher
}

func newFakeVoucherRepo() *fakeVoucherRepo {
	return &fakeVoucherRepo{vouchers: make(map[string]*model.Voucher)}
}

func (r *fakeVoucherRepo) Insert(_ context.Context, vouchers []*model.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range vouchers {
		clone := *v
		r.vouchers[v.ID] = &clone
	}
	return nil
}

func (r *fakeVoucherRepo) GetByID(_ context.Context, id string) (*model.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[id]
	if !ok {
		return nil, ErrVoucherNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *fakeVoucherRepo) ListUnusedByMember(_ context.Context, memberID string) ([]*model.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Voucher
	for _, v := range r.vouchers {
		if v.MemberID == memberID && v.Status == model.VoucherUnused {
			clone := *v
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeVoucherRepo) MarkUsed(_ context.Context, id string, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[id]
	if !ok {
		return ErrVoucherNotFound
	}
	if v.Status != model.VoucherUnused {
		return ErrVoucherUsed
	}
	v.Status = model.VoucherUsed
	v.UsedAt = &usedAt
	return nil
}

func (r *fakeVoucherRepo) MarkExpired(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[id]
	if !ok {
		return ErrVoucherNotFound
	}
	if v.Status == model.VoucherUnused {
		v.Status = model.VoucherExpired
	}
	return nil
}

type fakeRechargeTierRepo struct {
	mu    sync.Mutex
	tiers map[string]*model.RechargeTier
}

func newFakeRechargeTierRepo() *fakeRechargeTierRepo {
	return &fakeRechargeTierRepo{tiers: make(map[string]*model.RechargeTier)}
}

func (r *fakeRechargeTierRepo) Create(_ context.Context, t *model.RechargeTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *t
	r.tiers[t.ID] = &clone
	return nil
}

func (r *fakeRechargeTierRepo) GetByID(_ context.Context, id string) (*model.RechargeTier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tiers[id]
	if !ok {
		return nil, ErrTierNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeRechargeTierRepo) List(_ context.Context) ([]*model.RechargeTier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.RechargeTier
	for _, t := range r.tiers {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeRechargeTierRepo) Update(_ context.Context, t *model.RechargeTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tiers[t.ID]; !ok {
		return ErrTierNotFound
	}
	clone := *t
	r.tiers[t.ID] = &clone
	return nil
}

func (r *fakeRechargeTierRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tiers[id]; !ok {
		return ErrTierNotFound
	}
	delete(r.tiers, id)
	return nil
}

type fakeTransactionRepo struct {
	mu  sync.Mutex
	txs []*model.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo { return &fakeTransactionRepo{} }

func (r *fakeTransactionRepo) Insert(_ context.Context, tx *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *tx
	r.txs = append(r.txs, &clone)
	return nil
}

func (r *fakeTransactionRepo) ListByMember(_ context.Context, memberID string) ([]*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Transaction
	for _, tx := range r.txs {
		if tx.MemberID == memberID {
			clone := *tx
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) ListBetween(_ context.Context, from, to time.Time) ([]*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Transaction
	for _, tx := range r.txs {
		if !tx.Timestamp.Before(from) && tx.Timestamp.Before(to) {
			clone := *tx
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) ListAll(_ context.Context) ([]*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Transaction
	for _, tx := range r.txs {
		clone := *tx
		out = append(out, &clone)
	}
	return out, nil
}

type fakeFinancialRepo struct {
	mu      sync.Mutex
	entries []*model.FinancialEntry
}

func newFakeFinancialRepo() *fakeFinancialRepo { return &fakeFinancialRepo{} }

func (r *fakeFinancialRepo) Insert(_ context.Context, e *model.FinancialEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *e
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *fakeFinancialRepo) ListBetween(_ context.Context, from, to time.Time) ([]*model.FinancialEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.FinancialEntry
	for _, e := range r.entries {
		if !e.Timestamp.Before(from) && e.Timestamp.Before(to) {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakePointsStoreRepo struct {
	mu    sync.Mutex
	items map[string]*model.PointsStoreItem
}

func newFakePointsStoreRepo() *fakePointsStoreRepo {
	return &fakePointsStoreRepo{items: make(map[string]*model.PointsStoreItem)}
}

func (r *fakePointsStoreRepo) Create(_ context.Context, item *model.PointsStoreItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *fakePointsStoreRepo) GetByID(_ context.Context, id string) (*model.PointsStoreItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *fakePointsStoreRepo) GetActive(_ context.Context, id string) (*model.PointsStoreItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || !item.IsActive {
		return nil, ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *fakePointsStoreRepo) List(_ context.Context, activeOnly bool) ([]*model.PointsStoreItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PointsStoreItem
	for _, item := range r.items {
		if activeOnly && !item.IsActive {
			continue
		}
		clone := *item
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakePointsStoreRepo) Update(_ context.Context, item *model.PointsStoreItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return ErrItemNotFound
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *fakePointsStoreRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeBalanceStoreRepo struct {
	mu    sync.Mutex
	items map[string]*model.BalanceStoreItem
}

func newFakeBalanceStoreRepo() *fakeBalanceStoreRepo {
	return &fakeBalanceStoreRepo{items: make(map[string]*model.BalanceStoreItem)}
}

func (r *fakeBalanceStoreRepo) Create(_ context.Context, item *model.BalanceStoreItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *fakeBalanceStoreRepo) GetByID(_ context.Context, id string) (*model.BalanceStoreItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *fakeBalanceStoreRepo) GetActive(_ context.Context, id string) (*model.BalanceStoreItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || !item.IsActive {
		return nil, ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *fakeBalanceStoreRepo) List(_ context.Context, activeOnly bool) ([]*model.BalanceStoreItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.BalanceStoreItem
	for _, item := range r.items {
		if activeOnly && !item.IsActive {
			continue
		}
		clone := *item
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeBalanceStoreRepo) Update(_ context.Context, item *model.BalanceStoreItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return ErrItemNotFound
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *fakeBalanceStoreRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// fakeTxRunner runs the unit inline; the fakes' own guards provide the
// atomicity under test.
type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
