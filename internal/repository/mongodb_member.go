package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"loyalty-system/internal/model"
	"loyalty-system/internal/money"
	apperrors "loyalty-system/pkg/errors"
)

// mongodbMemberRepository implements MemberRepository using MongoDB.
type mongodbMemberRepository struct {
	collection *mongo.Collection
}

// NewMemberRepository creates a new MongoDB-based member repository.
func NewMemberRepository(db *mongo.Database) MemberRepository {
	return &mongodbMemberRepository{collection: db.Collection("members")}
}

func (r *mongodbMemberRepository) Create(ctx context.Context, member *model.Member) error {
	_, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Unique indexes exist on both email and phone; figure out
			// which one fired so the caller gets a usable message.
			if existing, lookupErr := r.GetByEmail(ctx, member.Email); lookupErr == nil && existing != nil {
				return apperrors.ErrEmailTaken
			}
			return apperrors.ErrPhoneTaken
		}
		return err
	}
	return nil
}

func (r *mongodbMemberRepository) GetByID(ctx context.Context, id string) (*model.Member, error) {
	var member model.Member
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *mongodbMemberRepository) GetByEmail(ctx context.Context, email string) (*model.Member, error) {
	var member model.Member
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// memberSearchFilter matches members by exact id or phone substring. The
// phone is caller-supplied, so it is quoted before going into $regex.
func memberSearchFilter(phone, memberID string) bson.M {
	clauses := bson.A{}
	if memberID != "" {
		clauses = append(clauses, bson.M{"_id": memberID})
	}
	if phone != "" {
		clauses = append(clauses, bson.M{"phone": bson.M{"$regex": regexp.QuoteMeta(phone)}})
	}
	if len(clauses) == 0 {
		return nil
	}
	return bson.M{"$or": clauses, "role": model.RoleMember}
}

func (r *mongodbMemberRepository) Search(ctx context.Context, phone, memberID string) (*model.Member, error) {
	filter := memberSearchFilter(phone, memberID)
	if filter == nil {
		return nil, apperrors.ErrMemberNotFound
	}

	var member model.Member
	err := r.collection.FindOne(ctx, filter).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// ApplyDelta is a single conditional update so two concurrent operations on
// the same member can never both read the same starting balance.
func (r *mongodbMemberRepository) ApplyDelta(ctx context.Context, id string, balanceDelta money.Cents, loyaltyDelta, lifetimeDelta int64) (*model.Member, error) {
	filter := bson.M{"_id": id}
	if balanceDelta < 0 {
		filter["balance"] = bson.M{"$gte": -balanceDelta} // only if the balance covers it
	}

	var member model.Member
	err := r.collection.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$inc": bson.M{
			"balance":         balanceDelta,
			"loyalty_points":  loyaltyDelta,
			"lifetime_points": lifetimeDelta,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&member)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Distinguish a missing member from a guarded rejection.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, apperrors.ErrInsufficientBalance
		}
		return nil, err
	}
	return &member, nil
}

func (r *mongodbMemberRepository) SpendPoints(ctx context.Context, id string, points int64) (*model.Member, error) {
	var member model.Member
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "loyalty_points": bson.M{"$gte": points}},
		bson.M{"$inc": bson.M{"loyalty_points": -points}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&member)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, apperrors.ErrInsufficientPoints
		}
		return nil, err
	}
	return &member, nil
}

func (r *mongodbMemberRepository) SetLevel(ctx context.Context, id string, level string, expiry time.Time) error {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"level": level, "level_expiry": expiry}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

func (r *mongodbMemberRepository) SetBalanceExpiry(ctx context.Context, id string, expiry time.Time) error {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"balance_expiry": expiry}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

// UpdateProfile writes the mutable profile fields only; balance and point
// counters are owned by ApplyDelta/SpendPoints.
func (r *mongodbMemberRepository) UpdateProfile(ctx context.Context, member *model.Member) error {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": member.ID},
		bson.M{"$set": bson.M{
			"email":              member.Email,
			"phone":              member.Phone,
			"nickname":           member.Nickname,
			"password_hash":      member.PasswordHash,
			"flair":              member.Flair,
			"social_opt_in":      member.SocialOptIn,
			"preferred_language": member.PreferredLanguage,
			"avatar_url":         member.AvatarURL,
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrEmailTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

func (r *mongodbMemberRepository) ListWithAvatars(ctx context.Context, limit int64) ([]*model.Member, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "loyalty_points", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{
		"avatar_url":    bson.M{"$ne": ""},
		"social_opt_in": true,
		"role":          model.RoleMember,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []*model.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}
