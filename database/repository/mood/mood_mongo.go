package moodRepo

import (
	"context"
	"fmt"
	"time"

	"mindcare/database"
	"mindcare/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMoodRepo implements MoodRepository using MongoDB.
type MongoMoodRepo struct {
	coll *mongo.Collection
}

// NewMongoMoodRepo constructs a new instance of MongoMoodRepo.
func NewMongoMoodRepo() *MongoMoodRepo {
	repo := &MongoMoodRepo{coll: database.DB().Collection("mood_entries")}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("mood repo: %v", err))
	}
	return repo
}

func (repo *MongoMoodRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create mood indexes: %w", err)
	}
	return nil
}

// Upsert writes the day's check-in; a second check-in on the same date
// overwrites the first.
func (repo *MongoMoodRepo) Upsert(ctx context.Context, entry *models.MoodEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": entry.UserID, "date": entry.Date}
	update := bson.M{
		"$set": bson.M{
			"mood":  entry.Mood,
			"score": entry.Score,
			"note":  entry.Note,
		},
		"$setOnInsert": bson.M{
			"id":        uuid.New().String(),
			"userId":    entry.UserID,
			"date":      entry.Date,
			"createdAt": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := repo.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("error upserting mood entry: %w", err)
	}
	return nil
}

func (repo *MongoMoodRepo) ListByUser(ctx context.Context, userID, fromDate, toDate string) ([]models.MoodEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID}
	if fromDate != "" || toDate != "" {
		dateRange := bson.M{}
		if fromDate != "" {
			dateRange["$gte"] = fromDate
		}
		if toDate != "" {
			dateRange["$lte"] = toDate
		}
		filter["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing mood entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.MoodEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding mood entries: %w", err)
	}
	return entries, nil
}
