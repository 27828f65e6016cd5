package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubarcoiris/members-system/internal/core/domain"
)

const resetTokenCollection = "reset_tokens"

// MongoResetTokenRepository persists password reset tokens. All liveness
// filters compare expires_at against the caller-supplied now, so clock
// handling stays in the service.
type MongoResetTokenRepository struct {
	coll *mongo.Collection
}

func NewResetTokenRepository(db *mongo.Database) *MongoResetTokenRepository {
	return &MongoResetTokenRepository{coll: db.Collection(resetTokenCollection)}
}

type mongoResetToken struct {
	Email     string `bson:"email"`
	Token     string `bson:"token"`
	ExpiresAt int64  `bson:"expires_at"`
}

func (r *MongoResetTokenRepository) DeleteByEmailOrExpired(ctx context.Context, email string, now time.Time) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"expires_at": bson.M{"$lt": now.Unix()}},
	}})
	if err != nil {
		return fmt.Errorf("delete reset tokens: %w", err)
	}
	return nil
}

func (r *MongoResetTokenRepository) Insert(ctx context.Context, token domain.ResetToken) error {
	doc := mongoResetToken{
		Email:     token.Email,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

func (r *MongoResetTokenRepository) FindLive(ctx context.Context, email, token string, now time.Time) (bool, error) {
	err := r.coll.FindOne(ctx, liveFilter(email, token, now)).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find reset token: %w", err)
	}
	return true, nil
}

// DeleteLive is the atomic consume primitive: a single conditional delete,
// so concurrent redemptions of the same token cannot both succeed.
func (r *MongoResetTokenRepository) DeleteLive(ctx context.Context, email, token string, now time.Time) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, liveFilter(email, token, now))
	if err != nil {
		return false, fmt.Errorf("consume reset token: %w", err)
	}
	return res.DeletedCount == 1, nil
}

func (r *MongoResetTokenRepository) PurgeExpired(ctx context.Context, now time.Time) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now.Unix()}})
	if err != nil {
		return fmt.Errorf("purge reset tokens: %w", err)
	}
	return nil
}

func liveFilter(email, token string, now time.Time) bson.M {
	return bson.M{
		"email":      email,
		"token":      token,
		"expires_at": bson.M{"$gte": now.Unix()},
	}
}
