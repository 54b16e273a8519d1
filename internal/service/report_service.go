package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"loyalty-system/internal/model"
	"loyalty-system/internal/repository"
)

// ReportService is the read-only aggregator over the immutable transaction
// log. It never mutates state and tolerates a commit racing past it: a report
// is a consistent snapshot of what had been written when the scan ran.
type ReportService struct {
	transactions repository.TransactionRepository
	financials   repository.FinancialRepository
	members      repository.MemberRepository
}

// NewReportService creates a report service.
func NewReportService(transactions repository.TransactionRepository, financials repository.FinancialRepository, members repository.MemberRepository) *ReportService {
	return &ReportService{
		transactions: transactions,
		financials:   financials,
		members:      members,
	}
}

// ReportEntry is one row of a report bucket.
type ReportEntry struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	MemberName  string    `json:"member_name"`
	MemberEmail string    `json:"member_email"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Points      int64     `json:"points"`
}

// ReportSummary totals each bucket. Amounts are decimal-summed over cents
// and rendered with fixed two-digit precision.
type ReportSummary struct {
	RechargeTotal     string `json:"recharge_total"`
	CashIncomeTotal   string `json:"cash_income_total"`
	BalanceUsageTotal string `json:"balance_usage_total"`
	VoucherUsageTotal string `json:"voucher_usage_total"`
	TransactionCount  int    `json:"transaction_count"`
}

// Report groups the ledger by transaction type for one time window.
type Report struct {
	Recharges    []*ReportEntry `json:"recharges"`
	CashIncome   []*ReportEntry `json:"cash_income"`
	BalanceUsage []*ReportEntry `json:"balance_usage"`
	VoucherUsage []*ReportEntry `json:"voucher_usage"`
	Summary      ReportSummary  `json:"summary"`
}

// ForDate reports one calendar day in the given location: timestamps in
// [D 00:00, D+1 00:00) local time, adjacent days excluded.
func (s *ReportService) ForDate(ctx context.Context, date time.Time, loc *time.Location) (*Report, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return s.ForWindow(ctx, from, from.AddDate(0, 0, 1))
}

// ForWindow reports transactions with from <= timestamp < to.
func (s *ReportService) ForWindow(ctx context.Context, from, to time.Time) (*Report, error) {
	txs, err := s.transactions.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, txs)
}

// ForAll reports the entire ledger.
func (s *ReportService) ForAll(ctx context.Context) (*Report, error) {
	txs, err := s.transactions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, txs)
}

func (s *ReportService) build(ctx context.Context, txs []*model.Transaction) (*Report, error) {
	report := &Report{
		Recharges:    []*ReportEntry{},
		CashIncome:   []*ReportEntry{},
		BalanceUsage: []*ReportEntry{},
		VoucherUsage: []*ReportEntry{},
	}

	var rechargeSum, cashSum, balanceSum, voucherSum decimal.Decimal
	memberCache := map[string]*model.Member{}

	for _, tx := range txs {
		entry := &ReportEntry{
			ID:     tx.ID,
			Date:   tx.Timestamp,
			Type:   tx.Type,
			Amount: tx.Amount.Float64(),
			Points: tx.PointsEarned,
		}
		if m := s.resolveMember(ctx, memberCache, tx.MemberID); m != nil {
			entry.MemberName = m.Nickname
			entry.MemberEmail = m.Email
		} else {
			entry.MemberName = "Unknown"
		}

		amount := tx.Amount.Decimal()
		switch tx.Type {
		case model.TxRecharge:
			report.Recharges = append(report.Recharges, entry)
			rechargeSum = rechargeSum.Add(amount)
		case model.TxConsumeCash:
			report.CashIncome = append(report.CashIncome, entry)
			cashSum = cashSum.Add(amount)
		case model.TxConsumeBalance, model.TxRedeemMerch:
			report.BalanceUsage = append(report.BalanceUsage, entry)
			balanceSum = balanceSum.Add(amount)
		case model.TxConsumeVoucher:
			report.VoucherUsage = append(report.VoucherUsage, entry)
			voucherSum = voucherSum.Add(amount)
		}
	}

	report.Summary = ReportSummary{
		RechargeTotal:     rechargeSum.StringFixed(2),
		CashIncomeTotal:   cashSum.StringFixed(2),
		BalanceUsageTotal: balanceSum.StringFixed(2),
		VoucherUsageTotal: voucherSum.StringFixed(2),
		TransactionCount:  len(txs),
	}
	return report, nil
}

// resolveMember looks a member up once per report; a deleted member does not
// fail the whole report.
func (s *ReportService) resolveMember(ctx context.Context, cache map[string]*model.Member, id string) *model.Member {
	if id == "" {
		return nil
	}
	if m, seen := cache[id]; seen {
		return m
	}
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		m = nil
	}
	cache[id] = m
	return m
}

// FinancialEntries lists the company book for a window.
func (s *ReportService) FinancialEntries(ctx context.Context, from, to time.Time) ([]*model.FinancialEntry, error) {
	return s.financials.ListBetween(ctx, from, to)
}
