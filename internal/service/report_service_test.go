package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loyalty-system/internal/model"
)

func TestReportForDateWindowIsExclusive(t *testing.T) {
	transactions := newFakeTransactionRepo()
	financials := newFakeFinancialRepo()
	members := newFakeMemberRepo()
	svc := NewReportService(transactions, financials, members)
	ctx := context.Background()

	loc := time.UTC
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, loc)

	require.NoError(t, transactions.Insert(ctx, &model.Transaction{
		ID: "before", MemberID: "m1", Type: model.TxRecharge, Amount: 1000,
		Timestamp: day.Add(-time.Second),
	}))
	require.NoError(t, transactions.Insert(ctx, &model.Transaction{
		ID: "start", MemberID: "m1", Type: model.TxRecharge, Amount: 2000,
		Timestamp: day,
	}))
	require.NoError(t, transactions.Insert(ctx, &model.Transaction{
		ID: "end", MemberID: "m1", Type: model.TxRecharge, Amount: 4000,
		Timestamp: day.AddDate(0, 0, 1).Add(-time.Second),
	}))
	require.NoError(t, transactions.Insert(ctx, &model.Transaction{
		ID: "after", MemberID: "m1", Type: model.TxRecharge, Amount: 8000,
		Timestamp: day.AddDate(0, 0, 1),
	}))

	report, err := svc.ForDate(ctx, day.Add(13*time.Hour), loc)
	require.NoError(t, err)
	require.Len(t, report.Recharges, 2)
	ids := []string{report.Recharges[0].ID, report.Recharges[1].ID}
	assert.Contains(t, ids, "start")
	assert.Contains(t, ids, "end")
	assert.Equal(t, "60.00", report.Summary.RechargeTotal)
	assert.Equal(t, 2, report.Summary.TransactionCount)
}

func TestReportBucketsByType(t *testing.T) {
	transactions := newFakeTransactionRepo()
	svc := NewReportService(transactions, newFakeFinancialRepo(), newFakeMemberRepo())
	ctx := context.Background()
	ts := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	for _, tx := range []*model.Transaction{
		{ID: "t1", MemberID: "m1", Type: model.TxRecharge, Amount: 10000, Timestamp: ts},
		{ID: "t2", MemberID: "m1", Type: model.TxConsumeCash, Amount: 5000, Timestamp: ts},
		{ID: "t3", MemberID: "m1", Type: model.TxConsumeBalance, Amount: -4500, Timestamp: ts},
		{ID: "t4", MemberID: "m1", Type: model.TxRedeemMerch, Amount: -6000, Timestamp: ts},
		{ID: "t5", MemberID: "m1", Type: model.TxConsumeVoucher, Amount: -2000, Timestamp: ts},
		{ID: "t6", MemberID: "m1", Type: model.TxRewardIssue, Amount: 0, Timestamp: ts},
	} {
		require.NoError(t, transactions.Insert(ctx, tx))
	}

	report, err := svc.ForAll(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Recharges, 1)
	assert.Len(t, report.CashIncome, 1)
	assert.Len(t, report.BalanceUsage, 2)
	assert.Len(t, report.VoucherUsage, 1)
	assert.Equal(t, "100.00", report.Summary.RechargeTotal)
	assert.Equal(t, "50.00", report.Summary.CashIncomeTotal)
	assert.Equal(t, "-105.00", report.Summary.BalanceUsageTotal)
	assert.Equal(t, "-20.00", report.Summary.VoucherUsageTotal)
	assert.Equal(t, 6, report.Summary.TransactionCount)
}

func TestReportToleratesDeletedMember(t *testing.T) {
	transactions := newFakeTransactionRepo()
	svc := NewReportService(transactions, newFakeFinancialRepo(), newFakeMemberRepo())
	ctx := context.Background()

	require.NoError(t, transactions.Insert(ctx, &model.Transaction{
		ID: "t1", MemberID: "gone", Type: model.TxRecharge, Amount: 1000,
		Timestamp: time.Now(),
	}))

	report, err := svc.ForAll(ctx)
	require.NoError(t, err)
	require.Len(t, report.Recharges, 1)
	assert.Equal(t, "Unknown", report.Recharges[0].MemberName)
}
