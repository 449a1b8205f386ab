package assessmentRepo

import (
	"context"
	"fmt"
	"time"

	"mindcare/database"
	"mindcare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAssessmentRepo implements AssessmentRepository using MongoDB.
type MongoAssessmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAssessmentRepo constructs a new instance of MongoAssessmentRepo.
func NewMongoAssessmentRepo() *MongoAssessmentRepo {
	return &MongoAssessmentRepo{coll: database.DB().Collection("assessments")}
}

func (repo *MongoAssessmentRepo) Create(ctx context.Context, a *models.Assessment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("error creating assessment: %w", err)
	}
	return nil
}

func (repo *MongoAssessmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Assessment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := repo.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing assessments: %w", err)
	}
	defer cursor.Close(ctx)

	var assessments []models.Assessment
	if err := cursor.All(ctx, &assessments); err != nil {
		return nil, fmt.Errorf("error decoding assessments: %w", err)
	}
	return assessments, nil
}
