package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	col *mongo.Collection
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash,omitempty"`
	Role         string             `bson:"role"`
	CounsellorID primitive.ObjectID `bson:"counsellor_id,omitempty"`
	LastLogin    *time.Time         `bson:"last_login,omitempty"`
	Verified     bool               `bson:"verified"`
	OTP          string             `bson:"otp,omitempty"`
	OTPExpires   time.Time          `bson:"otp_expires,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (m *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID.Hex(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CounsellorID: hexOrEmpty(m.CounsellorID),
		LastLogin:    m.LastLogin,
		Verified:     m.Verified,
		OTP:          m.OTP,
		OTPExpires:   m.OTPExpires,
		CreatedAt:    m.CreatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		ID:           primitive.NewObjectID(),
		Name:         user.Name,
		Email:        domain.NormalizeEmail(user.Email),
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Verified:     user.Verified,
		OTP:          user.OTP,
		OTPExpires:   user.OTPExpires,
		CreatedAt:    user.CreatedAt.UTC(),
	}
	if user.CounsellorID != "" {
		oid, ok := objectID(user.CounsellorID)
		if !ok {
			return nil, fmt.Errorf("%w: malformed counsellor id", domain.ErrUnknownCounsellor)
		}
		doc.CounsellorID = oid
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByEmail matches on the lower-cased address; emails are stored normalised.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *UserRepository) FindCounsellorByName(ctx context.Context, name string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"name": name, "role": string(domain.RoleCounsellor)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) ListCounsellors(ctx context.Context, requireLogin bool) ([]domain.CounsellorOption, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"role": string(domain.RoleCounsellor)}
	if requireLogin {
		filter["last_login"] = bson.M{"$ne": nil}
	}
	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list counsellors: %w", err)
	}
	defer cur.Close(ctx)

	out := []domain.CounsellorOption{}
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode counsellor: %w", err)
		}
		out = append(out, domain.CounsellorOption{ID: mu.ID.Hex(), Name: mu.Name})
	}
	return out, cur.Err()
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"last_login": at.UTC()}})
}

func (r *UserRepository) SetOTP(ctx context.Context, id, code string, expires time.Time) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"otp": code, "otp_expires": expires.UTC()}})
}

func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	return r.update(ctx, id, bson.M{
		"$set":   bson.M{"verified": true},
		"$unset": bson.M{"otp": "", "otp_expires": ""},
	})
}

func (r *UserRepository) update(ctx context.Context, id string, update bson.M) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes a user. Deleting a missing user is not an error.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
