package preference

import (
	"context"
	"time"

	"go-salesdash/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PreferenceRepository interface {
	Get(ctx context.Context, userID primitive.ObjectID, key string) (*Preference, error)
	Upsert(ctx context.Context, userID primitive.ObjectID, key, value string) error
}

type PreferenceRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPreferenceRepository(mongodb *database.MongodbDB) PreferenceRepository {
	return &PreferenceRepositoryImpl{
		Collection: mongodb.Core.Collection("preferences"),
	}
}

func (r *PreferenceRepositoryImpl) Get(ctx context.Context, userID primitive.ObjectID, key string) (*Preference, error) {
	var pref Preference
	err := r.Collection.FindOne(ctx, bson.M{"user_id": userID, "key": key}).Decode(&pref)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

func (r *PreferenceRepositoryImpl) Upsert(ctx context.Context, userID primitive.ObjectID, key, value string) error {
	filter := bson.M{"user_id": userID, "key": key}
	update := bson.M{"$set": bson.M{
		"user_id":    userID,
		"key":        key,
		"value":      value,
		"updated_at": time.Now(),
	}}
	_, err := r.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
