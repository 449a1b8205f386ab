package subscriptionRepo

import (
	"context"
	"fmt"
	"time"

	"mindcare/database"
	"mindcare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSubscriptionRepo implements SubscriptionRepository using MongoDB.
type MongoSubscriptionRepo struct {
	coll *mongo.Collection
}

// NewMongoSubscriptionRepo constructs a new instance of MongoSubscriptionRepo.
func NewMongoSubscriptionRepo() *MongoSubscriptionRepo {
	return &MongoSubscriptionRepo{coll: database.DB().Collection("subscriptions")}
}

func (repo *MongoSubscriptionRepo) Create(ctx context.Context, sub *models.Subscription) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("error creating subscription: %w", err)
	}
	return nil
}

func (repo *MongoSubscriptionRepo) GetActiveForUser(ctx context.Context, userID string) (*models.Subscription, error) {
	return repo.get(ctx, bson.M{"userId": userID, "status": models.SubscriptionActive})
}

func (repo *MongoSubscriptionRepo) GetByID(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	return repo.get(ctx, bson.M{"id": subscriptionID})
}

func (repo *MongoSubscriptionRepo) get(ctx context.Context, filter bson.M) (*models.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var sub models.Subscription
	if err := repo.coll.FindOne(ctx, filter).Decode(&sub); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching subscription: %w", err)
	}
	return &sub, nil
}

func (repo *MongoSubscriptionRepo) UpdateStatus(ctx context.Context, subscriptionID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": subscriptionID}, update)
	if err != nil {
		return fmt.Errorf("error updating subscription %s: %w", subscriptionID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("subscription with id %s not found", subscriptionID)
	}
	return nil
}
