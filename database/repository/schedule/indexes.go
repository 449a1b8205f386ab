package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for frequently used fields in queries. The
// unique compound index is what makes (psychologistId, dayOfWeek) a real
// constraint rather than an application-level query-before-write convention.
func (repo *MongoScheduleRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduleModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{
				{Key: "psychologistId", Value: 1},
				{Key: "dayOfWeek", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := repo.scheduleColl.Indexes().CreateMany(ctx, scheduleModels); err != nil {
		return fmt.Errorf("failed to create schedule indexes: %w", err)
	}

	appointmentModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "appointmentDate", Value: -1}}},
		{Keys: bson.D{{Key: "psychologistId", Value: 1}, {Key: "appointmentDate", Value: -1}}},
	}
	if _, err := repo.appointmentColl.Indexes().CreateMany(ctx, appointmentModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
