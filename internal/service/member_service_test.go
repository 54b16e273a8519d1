package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loyalty-system/internal/model"
	"loyalty-system/internal/tier"
	"loyalty-system/pkg/config"
)

func newMemberFixture(t *testing.T) (*MemberService, *fakeMemberRepo, *fakeVoucherRepo, *fakeTransactionRepo) {
	t.Helper()
	ladder, err := tier.NewLadder(config.DefaultPolicy().Levels)
	require.NoError(t, err)
	members := newFakeMemberRepo()
	vouchers := newFakeVoucherRepo()
	transactions := newFakeTransactionRepo()
	return NewMemberService(members, vouchers, transactions, ladder), members, vouchers, transactions
}

func TestProfileDecaysExpiredLevel(t *testing.T) {
	svc, members, _, _ := newMemberFixture(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	expired := now.AddDate(0, 0, -1)
	require.NoError(t, members.Create(ctx, &model.Member{
		ID: "m1", Email: "a@example.com", Phone: "555-0001", Role: model.RoleMember,
		Level: "Gold", LevelExpiry: &expired, LifetimePoints: 600,
	}))

	member, err := svc.Profile(ctx, "m1")
	require.NoError(t, err)
	// One step down from Gold; 600 lifetime points also earn Silver.
	assert.Equal(t, "Silver", member.Level)
	require.NotNil(t, member.LevelExpiry)
	assert.True(t, member.LevelExpiry.After(now))

	stored, err := members.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Silver", stored.Level)
}

func TestProfileSkipsStaffLadder(t *testing.T) {
	svc, members, _, _ := newMemberFixture(t)
	ctx := context.Background()

	require.NoError(t, members.Create(ctx, &model.Member{
		ID: "s1", Email: "staff@example.com", Phone: "555-0009", Role: model.RoleCashier,
	}))

	member, err := svc.Profile(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, member.Level)
}

func TestUpdateProfileMergesFields(t *testing.T) {
	svc, members, _, _ := newMemberFixture(t)
	ctx := context.Background()

	expiry := time.Now().AddDate(0, 0, 30)
	require.NoError(t, members.Create(ctx, &model.Member{
		ID: "m1", Email: "a@example.com", Phone: "555-0001", Nickname: "Old",
		Role: model.RoleMember, Level: "Bronze", LevelExpiry: &expiry,
	}))

	nickname := "New"
	optIn := true
	member, err := svc.UpdateProfile(ctx, "m1", &model.ProfileUpdateRequest{
		Nickname:    &nickname,
		SocialOptIn: &optIn,
	})
	require.NoError(t, err)
	assert.Equal(t, "New", member.Nickname)
	assert.True(t, member.SocialOptIn)
	// Untouched fields survive.
	assert.Equal(t, "a@example.com", member.Email)
	assert.Equal(t, "555-0001", member.Phone)
}

func TestVouchersFiltersExpired(t *testing.T) {
	svc, members, vouchers, _ := newMemberFixture(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	expiry := now.AddDate(0, 0, 365)
	require.NoError(t, members.Create(ctx, &model.Member{
		ID: "m1", Email: "a@example.com", Phone: "555-0001", Role: model.RoleMember,
		Level: "Bronze", LevelExpiry: &expiry,
	}))
	require.NoError(t, vouchers.Insert(ctx, []*model.Voucher{
		{ID: "live", MemberID: "m1", Status: model.VoucherUnused, ExpiresAt: now.AddDate(0, 0, 10)},
		{ID: "stale", MemberID: "m1", Status: model.VoucherUnused, ExpiresAt: now.AddDate(0, 0, -10)},
	}))

	live, err := svc.Vouchers(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "live", live[0].ID)

	stale, err := vouchers.GetByID(ctx, "stale")
	require.NoError(t, err)
	assert.Equal(t, model.VoucherExpired, stale.Status)
}

func TestSearchReturnsMembersOnly(t *testing.T) {
	svc, members, _, _ := newMemberFixture(t)
	ctx := context.Background()

	expiry := time.Now().AddDate(0, 0, 365)
	require.NoError(t, members.Create(ctx, &model.Member{
		ID: "m1", Email: "a@example.com", Phone: "555-1234", Role: model.RoleMember,
		Level: "Bronze", LevelExpiry: &expiry,
	}))
	require.NoError(t, members.Create(ctx, &model.Member{
		ID: "s1", Email: "staff@example.com", Phone: "555-9999", Role: model.RoleCashier,
	}))

	result, err := svc.Search(ctx, "1234", "")
	require.NoError(t, err)
	assert.Equal(t, "m1", result.Profile.ID)

	_, err = svc.Search(ctx, "9999", "")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestGalleryListsOptedInMembers(t *testing.T) {
	svc, members, _, _ := newMemberFixture(t)
	ctx := context.Background()

	require.NoError(t, members.Create(ctx, &model.Member{
		ID: "m1", Email: "a@example.com", Phone: "1", Nickname: "Ada",
		Role: model.RoleMember, AvatarURL: "http://img/a", SocialOptIn: true, LoyaltyPoints: 50,
	}))
	require.NoError(t, members.Create(ctx, &model.Member{
		ID: "m2", Email: "b@example.com", Phone: "2", Nickname: "Ben",
		Role: model.RoleMember, AvatarURL: "http://img/b", SocialOptIn: true, LoyaltyPoints: 150,
	}))
	require.NoError(t, members.Create(ctx, &model.Member{
		ID: "m3", Email: "c@example.com", Phone: "3", Nickname: "Shy",
		Role: model.RoleMember, AvatarURL: "http://img/c", SocialOptIn: false,
	}))

	entries, err := svc.Gallery(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ben", entries[0].Nickname)
	assert.Equal(t, "Ada", entries[1].Nickname)
}
