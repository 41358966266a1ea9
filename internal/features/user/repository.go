package user

import (
	"context"

	"go-salesdash/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*Profile, error)
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: mongodb.Core.Collection("users"),
	}
}

// FindByEmail looks up a profile by exact email match. Returns (nil, nil)
// when no profile exists; the service decides what that means.
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	var profile Profile
	err := r.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
