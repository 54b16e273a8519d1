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

func newAuthFixture(t *testing.T) (*AuthService, *fakeMemberRepo) {
	t.Helper()
	ladder, err := tier.NewLadder(config.DefaultPolicy().Levels)
	require.NoError(t, err)
	members := newFakeMemberRepo()
	return NewAuthService(members, ladder, "test-secret", time.Hour), members
}

func registerReq(email, phone string) *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:     email,
		Phone:     phone,
		Nickname:  "Tester",
		Password:  "correct-horse",
		Password2: "correct-horse",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	member, err := auth.Register(ctx, registerReq("a@example.com", "555-0001"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, member.Role)
	assert.Equal(t, "Bronze", member.Level)
	assert.NotEmpty(t, member.ID)
	assert.NotNil(t, member.TermsAgreedAt)
	assert.NotEqual(t, "correct-horse", member.PasswordHash)

	result, err := auth.Login(ctx, "a@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, member.ID, result.MemberID)
	assert.NotEmpty(t, result.Token)

	claims, err := auth.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, member.ID, claims.Subject)
	assert.Equal(t, model.RoleMember, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerReq("a@example.com", "555-0001"))
	require.NoError(t, err)

	_, err = auth.Login(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	auth, _ := newAuthFixture(t)

	_, err := auth.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerReq("a@example.com", "555-0001"))
	require.NoError(t, err)

	_, err = auth.Register(ctx, registerReq("a@example.com", "555-0002"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestStaffLoginRejectsMembers(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerReq("a@example.com", "555-0001"))
	require.NoError(t, err)

	_, err = auth.StaffLogin(ctx, "a@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrNotStaff)
}

func TestStaffLoginAllowsCashier(t *testing.T) {
	auth, members := newAuthFixture(t)
	ctx := context.Background()

	member, err := auth.Register(ctx, registerReq("c@example.com", "555-0003"))
	require.NoError(t, err)
	stored, err := members.GetByID(ctx, member.ID)
	require.NoError(t, err)
	stored.Role = model.RoleCashier
	require.NoError(t, members.UpdateProfile(ctx, stored))

	result, err := auth.StaffLogin(ctx, "c@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCashier, result.Role)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerReq("a@example.com", "555-0001"))
	require.NoError(t, err)

	issued := time.Now()
	auth.now = func() time.Time { return issued }
	result, err := auth.Login(ctx, "a@example.com", "correct-horse")
	require.NoError(t, err)

	auth.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = auth.ParseToken(result.Token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth, _ := newAuthFixture(t)

	_, err := auth.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
