package psychologistRepo

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

// MongoPsychologistRepo implements PsychologistRepository using MongoDB.
type MongoPsychologistRepo struct {
	coll *mongo.Collection
}

// NewMongoPsychologistRepo constructs a new instance of MongoPsychologistRepo.
func NewMongoPsychologistRepo() *MongoPsychologistRepo {
	repo := &MongoPsychologistRepo{coll: database.DB().Collection("psychologists")}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("psychologist repo: %v", err))
	}
	return repo
}

func (repo *MongoPsychologistRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "specializations", Value: 1}}},
		{Keys: bson.D{{Key: "verified", Value: 1}, {Key: "rating", Value: -1}}},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create psychologist indexes: %w", err)
	}
	return nil
}

func (repo *MongoPsychologistRepo) Create(ctx context.Context, p *models.Psychologist) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("a psychologist with email %s already exists", p.Email)
		}
		return fmt.Errorf("error creating psychologist: %w", err)
	}
	return nil
}

func (repo *MongoPsychologistRepo) GetByID(ctx context.Context, psychologistID string) (*models.Psychologist, error) {
	return repo.get(ctx, bson.M{"id": psychologistID})
}

func (repo *MongoPsychologistRepo) GetByEmail(ctx context.Context, email string) (*models.Psychologist, error) {
	return repo.get(ctx, bson.M{"email": email})
}

func (repo *MongoPsychologistRepo) get(ctx context.Context, filter bson.M) (*models.Psychologist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Psychologist
	if err := repo.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching psychologist: %w", err)
	}
	return &p, nil
}

func (repo *MongoPsychologistRepo) List(ctx context.Context, filter models.PsychologistFilter) ([]models.Psychologist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.VerifiedOnly {
		query["verified"] = true
	}
	if filter.Specialization != "" {
		query["specializations"] = filter.Specialization
	}
	if filter.MaxFee > 0 {
		query["sessionFee"] = bson.M{"$lte": filter.MaxFee}
	}
	if filter.MinRating > 0 {
		query["rating"] = bson.M{"$gte": filter.MinRating}
	}

	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}})
	cursor, err := repo.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing psychologists: %w", err)
	}
	defer cursor.Close(ctx)

	var psychologists []models.Psychologist
	if err := cursor.All(ctx, &psychologists); err != nil {
		return nil, fmt.Errorf("error decoding psychologists: %w", err)
	}
	return psychologists, nil
}

func (repo *MongoPsychologistRepo) Update(ctx context.Context, psychologistID string, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": psychologistID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error updating psychologist %s: %w", psychologistID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("psychologist with id %s not found", psychologistID)
	}
	return nil
}

// AddRating folds one rating into the running average with a pipeline update,
// so concurrent ratings do not lose increments.
func (repo *MongoPsychologistRepo) AddRating(ctx context.Context, psychologistID string, rating float64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "rating", Value: bson.D{{Key: "$divide", Value: bson.A{
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$multiply", Value: bson.A{"$rating", "$ratingCount"}}},
					rating,
				}}},
				bson.D{{Key: "$add", Value: bson.A{"$ratingCount", 1}}},
			}}}},
			{Key: "ratingCount", Value: bson.D{{Key: "$add", Value: bson.A{"$ratingCount", 1}}}},
			{Key: "updatedAt", Value: time.Now()},
		}}},
	}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": psychologistID}, pipeline)
	if err != nil {
		return fmt.Errorf("error rating psychologist %s: %w", psychologistID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("psychologist with id %s not found", psychologistID)
	}
	return nil
}
