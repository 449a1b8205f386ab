package chatRepo

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

// MongoChatRepo implements ChatRepository using MongoDB.
type MongoChatRepo struct {
	roomColl    *mongo.Collection
	messageColl *mongo.Collection
}

// NewMongoChatRepo constructs a new instance of MongoChatRepo.
func NewMongoChatRepo() *MongoChatRepo {
	db := database.DB()
	repo := &MongoChatRepo{
		roomColl:    db.Collection("chat_rooms"),
		messageColl: db.Collection("chat_messages"),
	}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("chat repo: %v", err))
	}
	return repo
}

func (repo *MongoChatRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	roomModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "psychologistId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := repo.roomColl.Indexes().CreateMany(ctx, roomModels); err != nil {
		return fmt.Errorf("failed to create chat room indexes: %w", err)
	}

	messageModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "roomId", Value: 1}, {Key: "sentAt", Value: -1}}},
	}
	if _, err := repo.messageColl.Indexes().CreateMany(ctx, messageModels); err != nil {
		return fmt.Errorf("failed to create chat message indexes: %w", err)
	}
	return nil
}

// GetOrCreateRoom returns the room between the pair, creating it on first use.
// The unique (userId, psychologistId) index makes concurrent creates converge.
func (repo *MongoChatRepo) GetOrCreateRoom(ctx context.Context, userID, psychologistID, appointmentID string) (*models.ChatRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "psychologistId": psychologistID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"id":             uuid.New().String(),
			"userId":         userID,
			"psychologistId": psychologistID,
			"appointmentId":  appointmentID,
			"createdAt":      time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var room models.ChatRoom
	if err := repo.roomColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&room); err != nil {
		return nil, fmt.Errorf("error creating chat room: %w", err)
	}
	return &room, nil
}

func (repo *MongoChatRepo) GetRoom(ctx context.Context, roomID string) (*models.ChatRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var room models.ChatRoom
	if err := repo.roomColl.FindOne(ctx, bson.M{"id": roomID}).Decode(&room); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching chat room %s: %w", roomID, err)
	}
	return &room, nil
}

func (repo *MongoChatRepo) ListRoomsFor(ctx context.Context, participantID string) ([]models.ChatRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"userId": participantID},
		{"psychologistId": participantID},
	}}
	cursor, err := repo.roomColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing chat rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []models.ChatRoom
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("error decoding chat rooms: %w", err)
	}
	return rooms, nil
}

func (repo *MongoChatRepo) InsertMessage(ctx context.Context, msg *models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.messageColl.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("error inserting chat message: %w", err)
	}
	return nil
}

func (repo *MongoChatRepo) ListMessages(ctx context.Context, roomID string, limit int64) ([]models.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sentAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := repo.messageColl.Find(ctx, bson.M{"roomId": roomID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing chat messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("error decoding chat messages: %w", err)
	}
	return messages, nil
}

func (repo *MongoChatRepo) MarkRead(ctx context.Context, roomID, readerID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"roomId": roomID, "senderId": bson.M{"$ne": readerID}, "read": false}
	if _, err := repo.messageColl.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}}); err != nil {
		return fmt.Errorf("error marking messages read: %w", err)
	}
	return nil
}

// Watch opens a change stream on the room's message inserts and forwards each
// new message to the returned channel. The channel closes when the stream ends
// or the cancel func is called.
func (repo *MongoChatRepo) Watch(ctx context.Context, roomID string) (<-chan models.ChatMessage, func(), error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"operationType":      "insert",
			"fullDocument.roomId": roomID,
		}}},
	}
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := repo.messageColl.Watch(streamCtx, pipeline)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("error opening chat stream for room %s: %w", roomID, err)
	}

	out := make(chan models.ChatMessage)
	go func() {
		defer close(out)
		defer stream.Close(streamCtx)
		for stream.Next(streamCtx) {
			var event struct {
				FullDocument models.ChatMessage `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				continue
			}
			select {
			case out <- event.FullDocument:
			case <-streamCtx.Done():
				return
			}
		}
	}()

	return out, cancel, nil
}
