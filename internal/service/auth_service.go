package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"loyalty-system/internal/model"
	"loyalty-system/internal/repository"
	"loyalty-system/internal/tier"
)

// AuthService handles registration, login and bearer tokens. Tokens are
// signed JWTs carrying the member ID and role; the client holds only the
// opaque credential, never authoritative state.
type AuthService struct {
	members repository.MemberRepository
	ladder  *tier.Ladder

	secret   []byte
	tokenTTL time.Duration

	now func() time.Time
}

// NewAuthService creates an auth service.
func NewAuthService(members repository.MemberRepository, ladder *tier.Ladder, secret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		members:  members,
		ladder:   ladder,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// Claims is the token payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a member account at the bottom of the ladder. Email and
// phone uniqueness is enforced by the store.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.Member, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	base := s.ladder.Base()
	levelExpiry := now.AddDate(0, 0, base.ValidityDays)

	member := &model.Member{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Phone:        req.Phone,
		Nickname:     req.Nickname,
		PasswordHash: string(hash),
		Role:         model.RoleMember,
		Level:        base.Name,
		LevelExpiry:  &levelExpiry,
		// Registration only arrives after the terms checkbox, so agreement
		// is recorded unconditionally.
		TermsAgreedAt: &now,
		CreatedAt:     now,
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// LoginResult carries the issued token plus the fields the portals show
// right after login.
type LoginResult struct {
	Token    string `json:"token"`
	MemberID string `json:"memberId"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// Login authenticates by email and password. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	member, err := s.members.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(member)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:    token,
		MemberID: member.ID,
		Email:    member.Email,
		Nickname: member.Nickname,
		Role:     member.Role,
	}, nil
}

// StaffLogin is Login restricted to back-office roles.
func (s *AuthService) StaffLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	result, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !model.IsStaffRole(result.Role) {
		return nil, ErrNotStaff
	}
	return result, nil
}

func (s *AuthService) issueToken(member *model.Member) (string, error) {
	now := s.now()
	claims := &Claims{
		Role: member.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   member.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a bearer token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
