package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"loyalty-system/internal/model"
	"loyalty-system/internal/repository"
	"loyalty-system/internal/tier"
)

// MemberService serves profile reads and updates. Tier decay and voucher
// expiry are evaluated lazily on read here, not by a background sweep.
type MemberService struct {
	members      repository.MemberRepository
	vouchers     repository.VoucherRepository
	transactions repository.TransactionRepository
	ladder       *tier.Ladder

	now func() time.Time
}

// NewMemberService creates a member service.
func NewMemberService(members repository.MemberRepository, vouchers repository.VoucherRepository, transactions repository.TransactionRepository, ladder *tier.Ladder) *MemberService {
	return &MemberService{
		members:      members,
		vouchers:     vouchers,
		transactions: transactions,
		ladder:       ladder,
		now:          time.Now,
	}
}

// Profile returns a member with the tier freshly evaluated.
func (s *MemberService) Profile(ctx context.Context, memberID string) (*model.Member, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if err := s.refreshLevel(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *MemberService) refreshLevel(ctx context.Context, m *model.Member) error {
	if m.IsStaff() {
		// Staff accounts do not participate in the loyalty ladder.
		return nil
	}
	lvl, expiry := s.ladder.ComputeLevel(m.LifetimePoints, s.now(), m.Level, m.LevelExpiry)
	if lvl.Name != m.Level || m.LevelExpiry == nil || !m.LevelExpiry.Equal(expiry) {
		if err := s.members.SetLevel(ctx, m.ID, lvl.Name, expiry); err != nil {
			return err
		}
	}
	m.Level = lvl.Name
	m.LevelExpiry = &expiry
	return nil
}

// UpdateProfile applies the mutable profile fields. A non-nil password is
// re-hashed; counters and balance are not touchable from here.
func (s *MemberService) UpdateProfile(ctx context.Context, memberID string, req *model.ProfileUpdateRequest) (*model.Member, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if req.Nickname != nil {
		member.Nickname = *req.Nickname
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.Flair != nil {
		member.Flair = *req.Flair
	}
	if req.SocialOptIn != nil {
		member.SocialOptIn = *req.SocialOptIn
	}
	if req.PreferredLanguage != nil {
		member.PreferredLanguage = *req.PreferredLanguage
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		member.PasswordHash = string(hash)
	}

	if err := s.members.UpdateProfile(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Vouchers lists a member's unused vouchers, flipping any that have expired
// since they were last seen.
func (s *MemberService) Vouchers(ctx context.Context, memberID string) ([]*model.Voucher, error) {
	all, err := s.vouchers.ListUnusedByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	live := make([]*model.Voucher, 0, len(all))
	for _, v := range all {
		if v.ExpiresAt.Before(now) {
			if err := s.vouchers.MarkExpired(ctx, v.ID); err != nil {
				return nil, err
			}
			continue
		}
		live = append(live, v)
	}
	return live, nil
}

// Transactions returns a member's ledger history, newest first.
func (s *MemberService) Transactions(ctx context.Context, memberID string) ([]*model.Transaction, error) {
	return s.transactions.ListByMember(ctx, memberID)
}

// SearchResult pairs a found member with their live vouchers for the admin
// search screen.
type SearchResult struct {
	Profile  *model.Member    `json:"profile"`
	Vouchers []*model.Voucher `json:"vouchers"`
}

// Search finds a member by phone substring or exact ID. Staff accounts are
// never returned.
func (s *MemberService) Search(ctx context.Context, phone, memberID string) (*SearchResult, error) {
	member, err := s.members.Search(ctx, phone, memberID)
	if err != nil {
		return nil, err
	}
	if err := s.refreshLevel(ctx, member); err != nil {
		return nil, err
	}
	vouchers, err := s.Vouchers(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Profile: member, Vouchers: vouchers}, nil
}

// GalleryEntry is one card in the social gallery.
type GalleryEntry struct {
	Nickname      string `json:"nickname"`
	AvatarURL     string `json:"avatarUrl"`
	Flair         string `json:"flair,omitempty"`
	Level         string `json:"level"`
	LoyaltyPoints int64  `json:"loyaltyPoints"`
}

// Gallery lists opted-in members with avatars, highest points first.
func (s *MemberService) Gallery(ctx context.Context, limit int64) ([]*GalleryEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	members, err := s.members.ListWithAvatars(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]*GalleryEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, &GalleryEntry{
			Nickname:      m.Nickname,
			AvatarURL:     m.AvatarURL,
			Flair:         m.Flair,
			Level:         m.Level,
			LoyaltyPoints: m.LoyaltyPoints,
		})
	}
	return entries, nil
}
