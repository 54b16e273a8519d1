package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"loyalty-system/internal/model"
	"loyalty-system/internal/money"
	"loyalty-system/internal/repository"
	"loyalty-system/internal/tier"
	"loyalty-system/pkg/config"
	"loyalty-system/pkg/database"
)

// LedgerService is the transaction processor: every balance, point and
// voucher mutation goes through one of its operations, each committed as a
// single atomic unit (ledger delta + voucher state + transaction record).
type LedgerService struct {
	members      repository.MemberRepository
	voucherTypes repository.VoucherTypeRepository
	vouchers     repository.VoucherRepository
	tiers        repository.RechargeTierRepository
	transactions repository.TransactionRepository
	financials   repository.FinancialRepository
	pointsStore  repository.PointsStoreRepository
	balanceStore repository.BalanceStoreRepository

	issuer *VoucherIssuer
	uow    database.TxRunner
	ladder *tier.Ladder
	policy config.Policy

	now func() time.Time
}

// NewLedgerService creates the transaction processor.
func NewLedgerService(
	members repository.MemberRepository,
	voucherTypes repository.VoucherTypeRepository,
	vouchers repository.VoucherRepository,
	tiers repository.RechargeTierRepository,
	transactions repository.TransactionRepository,
	financials repository.FinancialRepository,
	pointsStore repository.PointsStoreRepository,
	balanceStore repository.BalanceStoreRepository,
	issuer *VoucherIssuer,
	uow database.TxRunner,
	ladder *tier.Ladder,
	policy config.Policy,
) *LedgerService {
	return &LedgerService{
		members:      members,
		voucherTypes: voucherTypes,
		vouchers:     vouchers,
		tiers:        tiers,
		transactions: transactions,
		financials:   financials,
		pointsStore:  pointsStore,
		balanceStore: balanceStore,
		issuer:       issuer,
		uow:          uow,
		ladder:       ladder,
		policy:       policy,
		now:          time.Now,
	}
}

// RechargeResult reports a completed top-up.
type RechargeResult struct {
	Amount         money.Cents `json:"amount"`
	PointsEarned   int64       `json:"points_earned"`
	VouchersIssued int         `json:"vouchers_issued"`
	NewBalance     money.Cents `json:"new_balance"`
	Level          string      `json:"level"`
}

// ConsumeResult reports a completed balance spend.
type ConsumeResult struct {
	BillAmount      money.Cents `json:"bill_amount"`
	EffectiveAmount money.Cents `json:"effective_amount"`
	Discount        money.Cents `json:"discount"`
	PointsEarned    int64       `json:"points_earned"`
	NewBalance      money.Cents `json:"new_balance"`
	Level           string      `json:"level"`
}

// TrackResult reports a recorded cash/card spend.
type TrackResult struct {
	PointsEarned   int64 `json:"points_earned"`
	NewTotalPoints int64 `json:"new_total_points"`
}

// RedeemVoucherResult reports a voucher redemption.
type RedeemVoucherResult struct {
	VoucherName  string      `json:"voucher_name"`
	PaidCash     money.Cents `json:"paid_cash"`
	PointsEarned int64       `json:"points_earned"`
}

// StoreRedeemResult reports a store purchase that issued a voucher.
type StoreRedeemResult struct {
	ItemName         string         `json:"item_name"`
	Voucher          *model.Voucher `json:"voucher"`
	NewPointsBalance int64          `json:"new_points_balance"`
	NewBalance       money.Cents    `json:"new_balance"`
	PointsEarned     int64          `json:"points_earned"`
}

// multiplierFor returns the point multiplier of the member's current level.
func (s *LedgerService) multiplierFor(m *model.Member) uint32 {
	if lvl, ok := s.ladder.Lookup(m.Level); ok {
		return lvl.MultiplierBps
	}
	return s.ladder.Base().MultiplierBps
}

// refreshLevel recomputes the tier from lifetime points and persists it when
// it moved. Decay is evaluated here, lazily, rather than by a sweeper.
func (s *LedgerService) refreshLevel(ctx context.Context, m *model.Member, now time.Time) error {
	lvl, expiry := s.ladder.ComputeLevel(m.LifetimePoints, now, m.Level, m.LevelExpiry)
	if lvl.Name != m.Level || m.LevelExpiry == nil || !m.LevelExpiry.Equal(expiry) {
		if err := s.members.SetLevel(ctx, m.ID, lvl.Name, expiry); err != nil {
			return err
		}
	}
	m.Level = lvl.Name
	m.LevelExpiry = &expiry
	return nil
}

// Recharge applies a fixed top-up tier: balance up, points accrued at the
// configured rate scaled by the member's tier, granted vouchers issued, one
// RECHARGE transaction appended. All or nothing.
func (s *LedgerService) Recharge(ctx context.Context, memberID, tierID, staffID string) (*RechargeResult, error) {
	rechargeTier, err := s.tiers.GetByID(ctx, tierID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var result *RechargeResult
	err = s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		member, err := s.members.GetByID(ctx, memberID)
		if err != nil {
			return err
		}

		accrualBase := money.ApplyBps(rechargeTier.Amount, s.policy.RechargeAccrualBps)
		points := money.PointsForSpend(accrualBase, s.multiplierFor(member))

		updated, err := s.members.ApplyDelta(ctx, memberID, rechargeTier.Amount, points, points)
		if err != nil {
			return err
		}
		if err := s.members.SetBalanceExpiry(ctx, memberID, now.AddDate(1, 0, 0)); err != nil {
			return err
		}
		if err := s.refreshLevel(ctx, updated, now); err != nil {
			return err
		}

		issued := 0
		if rechargeTier.GrantVoucherTypeID != "" && rechargeTier.GrantVoucherCount > 0 {
			batch, err := s.issuer.IssueByTypeID(ctx, memberID, rechargeTier.GrantVoucherTypeID, rechargeTier.GrantVoucherCount, now)
			if err != nil {
				return err
			}
			issued = len(batch)
		}

		if err := s.transactions.Insert(ctx, &model.Transaction{
			ID:           uuid.NewString(),
			MemberID:     memberID,
			StaffID:      staffID,
			Type:         model.TxRecharge,
			Amount:       rechargeTier.Amount,
			PointsEarned: points,
			Timestamp:    now,
		}); err != nil {
			return err
		}
		if err := s.financials.Insert(ctx, &model.FinancialEntry{
			ID:              uuid.NewString(),
			Type:            model.FinRevenueBalance,
			Amount:          rechargeTier.Amount,
			Description:     fmt.Sprintf("Recharge by member %s", memberID),
			RelatedMemberID: memberID,
			Timestamp:       now,
		}); err != nil {
			return err
		}

		result = &RechargeResult{
			Amount:         rechargeTier.Amount,
			PointsEarned:   points,
			VouchersIssued: issued,
			NewBalance:     updated.Balance,
			Level:          updated.Level,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConsumeBalance pays a bill from stored balance at the configured discount.
// The balance guard rejects the spend before anything mutates, so a failed
// consume leaves the ledger untouched.
func (s *LedgerService) ConsumeBalance(ctx context.Context, memberID string, billAmount money.Cents, staffID string) (*ConsumeResult, error) {
	if billAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	effective := money.ApplyBps(billAmount, money.BpsDenominator-s.policy.ConsumeDiscountBps)
	discount := billAmount - effective

	now := s.now()
	var result *ConsumeResult
	err := s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		member, err := s.members.GetByID(ctx, memberID)
		if err != nil {
			return err
		}
		points := money.PointsForSpend(effective, s.multiplierFor(member))

		updated, err := s.members.ApplyDelta(ctx, memberID, -effective, points, points)
		if err != nil {
			return err
		}
		if err := s.refreshLevel(ctx, updated, now); err != nil {
			return err
		}

		if err := s.transactions.Insert(ctx, &model.Transaction{
			ID:              uuid.NewString(),
			MemberID:        memberID,
			StaffID:         staffID,
			Type:            model.TxConsumeBalance,
			Amount:          -effective,
			DiscountApplied: discount,
			PointsEarned:    points,
			Timestamp:       now,
		}); err != nil {
			return err
		}

		result = &ConsumeResult{
			BillAmount:      billAmount,
			EffectiveAmount: effective,
			Discount:        discount,
			PointsEarned:    points,
			NewBalance:      updated.Balance,
			Level:           updated.Level,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TrackCashSpend records a counter purchase paid outside the stored balance:
// points accrue, the balance is untouched, and the spend lands in the ledger
// for reporting.
func (s *LedgerService) TrackCashSpend(ctx context.Context, memberID string, amount money.Cents, staffID string) (*TrackResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	now := s.now()
	var result *TrackResult
	err := s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		member, err := s.members.GetByID(ctx, memberID)
		if err != nil {
			return err
		}
		points := money.PointsForSpend(amount, s.multiplierFor(member))

		updated, err := s.members.ApplyDelta(ctx, memberID, 0, points, points)
		if err != nil {
			return err
		}
		if err := s.refreshLevel(ctx, updated, now); err != nil {
			return err
		}

		if err := s.transactions.Insert(ctx, &model.Transaction{
			ID:           uuid.NewString(),
			MemberID:     memberID,
			StaffID:      staffID,
			Type:         model.TxConsumeCash,
			Amount:       amount,
			PointsEarned: points,
			Timestamp:    now,
		}); err != nil {
			return err
		}

		result = &TrackResult{
			PointsEarned:   points,
			NewTotalPoints: updated.LoyaltyPoints,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RedeemVoucher validates and burns a voucher against a bill. Product
// vouchers (value 0) need no bill; discount vouchers require the bill to meet
// the threshold, and points accrue only on the cash the member actually paid.
func (s *LedgerService) RedeemVoucher(ctx context.Context, voucherID string, billAmount money.Cents, staffID string) (*RedeemVoucherResult, error) {
	now := s.now()

	voucher, err := s.vouchers.GetByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	switch voucher.Status {
	case model.VoucherUsed:
		return nil, ErrVoucherUsed
	case model.VoucherExpired:
		return nil, ErrVoucherExpired
	}
	if voucher.ExpiresAt.Before(now) {
		// Lazy expiry: flip the status the first time it is seen stale.
		if err := s.vouchers.MarkExpired(ctx, voucher.ID); err != nil {
			return nil, err
		}
		return nil, ErrVoucherExpired
	}

	// Product voucher: already paid for when it was bought; just burn it.
	if voucher.Value == 0 {
		err := s.uow.WithTransaction(ctx, func(ctx context.Context) error {
			return s.vouchers.MarkUsed(ctx, voucher.ID, now)
		})
		if err != nil {
			return nil, err
		}
		return &RedeemVoucherResult{VoucherName: voucher.TypeName}, nil
	}

	if billAmount <= 0 {
		return nil, ErrBillRequired
	}
	if billAmount < voucher.Threshold {
		return nil, ErrBelowThreshold
	}

	paidCash := billAmount - voucher.Value
	if paidCash < 0 {
		paidCash = 0
	}

	var result *RedeemVoucherResult
	err = s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.vouchers.MarkUsed(ctx, voucher.ID, now); err != nil {
			return err
		}

		member, err := s.members.GetByID(ctx, voucher.MemberID)
		if err != nil {
			return err
		}
		points := money.PointsForSpend(paidCash, s.multiplierFor(member))

		if points > 0 {
			updated, err := s.members.ApplyDelta(ctx, member.ID, 0, points, points)
			if err != nil {
				return err
			}
			if err := s.refreshLevel(ctx, updated, now); err != nil {
				return err
			}
		}

		if err := s.transactions.Insert(ctx, &model.Transaction{
			ID:             uuid.NewString(),
			MemberID:       voucher.MemberID,
			StaffID:        staffID,
			Type:           model.TxConsumeVoucher,
			Amount:         -voucher.Value,
			RelatedVoucher: voucher.ID,
			Timestamp:      now,
		}); err != nil {
			return err
		}
		if paidCash > 0 {
			if err := s.transactions.Insert(ctx, &model.Transaction{
				ID:           uuid.NewString(),
				MemberID:     voucher.MemberID,
				StaffID:      staffID,
				Type:         model.TxConsumeCash,
				Amount:       paidCash,
				PointsEarned: points,
				Timestamp:    now,
			}); err != nil {
				return err
			}
		}

		result = &RedeemVoucherResult{
			VoucherName:  voucher.TypeName,
			PaidCash:     paidCash,
			PointsEarned: points,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RedeemPoints exchanges loyalty points for the voucher linked to a
// points-store item. The points guard and the stock guard both abort the
// whole unit.
func (s *LedgerService) RedeemPoints(ctx context.Context, memberID, itemID string) (*StoreRedeemResult, error) {
	item, err := s.pointsStore.GetActive(ctx, itemID)
	if err != nil {
		return nil, err
	}
	vt, err := s.voucherTypes.GetByID(ctx, item.LinkedVoucherTypeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var result *StoreRedeemResult
	err = s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		updated, err := s.members.SpendPoints(ctx, memberID, item.PointsCost)
		if err != nil {
			return err
		}

		batch, err := s.issuer.Issue(ctx, memberID, vt, 1, now)
		if err != nil {
			return err
		}
		voucher := batch[0]

		txn := &model.Transaction{
			ID:             uuid.NewString(),
			MemberID:       memberID,
			Type:           model.TxRewardIssue,
			Amount:         0,
			PointsEarned:   -item.PointsCost,
			RelatedVoucher: voucher.ID,
			Timestamp:      now,
		}
		if err := s.transactions.Insert(ctx, txn); err != nil {
			return err
		}
		if vt.CostOfGoods > 0 {
			if err := s.financials.Insert(ctx, &model.FinancialEntry{
				ID:                 uuid.NewString(),
				Type:               model.FinCostOfGoods,
				Amount:             -vt.CostOfGoods,
				Description:        fmt.Sprintf("Cost for %s", vt.Name),
				RelatedMemberID:    memberID,
				RelatedTransaction: txn.ID,
				Timestamp:          now,
			}); err != nil {
				return err
			}
		}

		result = &StoreRedeemResult{
			ItemName:         item.Name,
			Voucher:          voucher,
			NewPointsBalance: updated.LoyaltyPoints,
			NewBalance:       updated.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RedeemBalance buys a balance-store item at full price: balance down, points
// up, voucher issued, revenue and cost booked in the company ledger.
func (s *LedgerService) RedeemBalance(ctx context.Context, memberID, itemID string) (*StoreRedeemResult, error) {
	item, err := s.balanceStore.GetActive(ctx, itemID)
	if err != nil {
		return nil, err
	}
	vt, err := s.voucherTypes.GetByID(ctx, item.LinkedVoucherTypeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var result *StoreRedeemResult
	err = s.uow.WithTransaction(ctx, func(ctx context.Context) error {
		member, err := s.members.GetByID(ctx, memberID)
		if err != nil {
			return err
		}
		points := money.PointsForSpend(item.Price, s.multiplierFor(member))

		updated, err := s.members.ApplyDelta(ctx, memberID, -item.Price, points, points)
		if err != nil {
			return err
		}
		if err := s.refreshLevel(ctx, updated, now); err != nil {
			return err
		}

		batch, err := s.issuer.Issue(ctx, memberID, vt, 1, now)
		if err != nil {
			return err
		}
		voucher := batch[0]

		txn := &model.Transaction{
			ID:             uuid.NewString(),
			MemberID:       memberID,
			Type:           model.TxRedeemMerch,
			Amount:         -item.Price,
			PointsEarned:   points,
			RelatedVoucher: voucher.ID,
			Timestamp:      now,
		}
		if err := s.transactions.Insert(ctx, txn); err != nil {
			return err
		}
		if vt.CostOfGoods > 0 {
			if err := s.financials.Insert(ctx, &model.FinancialEntry{
				ID:                 uuid.NewString(),
				Type:               model.FinCostOfGoods,
				Amount:             -vt.CostOfGoods,
				Description:        fmt.Sprintf("Cost for %s", vt.Name),
				RelatedMemberID:    memberID,
				RelatedTransaction: txn.ID,
				Timestamp:          now,
			}); err != nil {
				return err
			}
		}
		if err := s.financials.Insert(ctx, &model.FinancialEntry{
			ID:                 uuid.NewString(),
			Type:               model.FinRevenueStore,
			Amount:             item.Price,
			Description:        fmt.Sprintf("Revenue for %s", item.Name),
			RelatedMemberID:    memberID,
			RelatedTransaction: txn.ID,
			Timestamp:          now,
		}); err != nil {
			return err
		}

		result = &StoreRedeemResult{
			ItemName:         item.Name,
			Voucher:          voucher,
			NewPointsBalance: updated.LoyaltyPoints,
			NewBalance:       updated.Balance,
			PointsEarned:     points,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
