package userRepo

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

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a new instance of MongoUserRepo.
func NewMongoUserRepo() *MongoUserRepo {
	repo := &MongoUserRepo{coll: database.DB().Collection("users")}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("user repo: %v", err))
	}
	return repo
}

func (repo *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (repo *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("a user with email %s already exists", user.Email)
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (repo *MongoUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return repo.get(ctx, bson.M{"id": userID})
}

func (repo *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return repo.get(ctx, bson.M{"email": email})
}

func (repo *MongoUserRepo) get(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := repo.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return &user, nil
}

func (repo *MongoUserRepo) Update(ctx context.Context, userID string, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": userID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error updating user %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", userID)
	}
	return nil
}

func (repo *MongoUserRepo) SetPremium(ctx context.Context, userID string, premium bool) error {
	return repo.Update(ctx, userID, map[string]interface{}{"premium": premium})
}

func (repo *MongoUserRepo) Delete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"id": userID})
	if err != nil {
		return fmt.Errorf("error deleting user %s: %w", userID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("user with id %s not found", userID)
	}
	return nil
}
