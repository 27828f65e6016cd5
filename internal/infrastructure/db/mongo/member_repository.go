package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clubarcoiris/members-system/internal/core/domain"
)

const memberCollection = "members"

type MongoMemberRepository struct {
	coll *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) *MongoMemberRepository {
	return &MongoMemberRepository{coll: db.Collection(memberCollection)}
}

type mongoMember struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Surname   string             `bson:"surname"`
	Email     string             `bson:"email,omitempty"`
	Group     string             `bson:"group,omitempty"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *MongoMemberRepository) List(ctx context.Context) ([]domain.Member, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"surname": 1}))
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer cur.Close(ctx)

	var members []domain.Member
	for cur.Next(ctx) {
		var mm mongoMember
		if err := cur.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode member: %w", err)
		}
		members = append(members, mm.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (r *MongoMemberRepository) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrMemberNotFound
	}

	var mm mongoMember
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mm); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	m := mm.toDomain()
	return &m, nil
}

func (mm mongoMember) toDomain() domain.Member {
	return domain.Member{
		ID:        mm.ID.Hex(),
		Name:      mm.Name,
		Surname:   mm.Surname,
		Email:     mm.Email,
		Group:     mm.Group,
		CreatedAt: unixToTime(mm.CreatedAt),
	}
}
