package expense

import (
	"context"
	"time"

	"go-salesdash/internal/database"
	"go-salesdash/internal/features/daterange"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExpenseRepository interface {
	FindInRange(ctx context.Context, rng daterange.Range) ([]Entry, error)
	FindSince(ctx context.Context, since time.Time) ([]Entry, error)
	UpsertBySourceRef(ctx context.Context, entry *Entry) error
}

type ExpenseRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewExpenseRepository(mongodb *database.MongodbDB) ExpenseRepository {
	return &ExpenseRepositoryImpl{
		Collection: mongodb.Core.Collection("expenses"),
	}
}

// FindInRange returns ledger entries whose transaction date falls in the
// range. The all-time sentinel drops the lower bound.
func (r *ExpenseRepositoryImpl) FindInRange(ctx context.Context, rng daterange.Range) ([]Entry, error) {
	dateFilter := bson.M{"$lte": rng.End}
	if !rng.AllTime() {
		dateFilter["$gte"] = rng.Start
	}

	cursor, err := r.Collection.Find(ctx, bson.M{"date": dateFilter},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ExpenseRepositoryImpl) FindSince(ctx context.Context, since time.Time) ([]Entry, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"date": bson.M{"$gte": since}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ExpenseRepositoryImpl) UpsertBySourceRef(ctx context.Context, entry *Entry) error {
	filter := bson.M{"source_ref": entry.SourceRef}
	update := bson.M{"$set": bson.M{
		"date":        entry.Date,
		"category":    entry.Category,
		"amount":      entry.Amount,
		"description": entry.Description,
		"source_ref":  entry.SourceRef,
	}}
	_, err := r.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
