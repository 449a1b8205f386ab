package appointmentRepo

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

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new instance of MongoAppointmentRepo.
func NewMongoAppointmentRepo() *MongoAppointmentRepo {
	return &MongoAppointmentRepo{
		coll: database.DB().Collection("appointments"),
	}
}

func (repo *MongoAppointmentRepo) GetByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := repo.coll.FindOne(ctx, bson.M{"id": appointmentID}).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching appointment %s: %w", appointmentID, err)
	}
	return &appt, nil
}

func (repo *MongoAppointmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return repo.list(ctx, bson.M{"userId": userID})
}

func (repo *MongoAppointmentRepo) ListByPsychologist(ctx context.Context, psychologistID string) ([]models.Appointment, error) {
	return repo.list(ctx, bson.M{"psychologistId": psychologistID})
}

func (repo *MongoAppointmentRepo) ListForDate(ctx context.Context, psychologistID, date string) ([]models.Appointment, error) {
	return repo.list(ctx, bson.M{"psychologistId": psychologistID, "appointmentDate": date})
}

func (repo *MongoAppointmentRepo) list(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "appointmentDate", Value: -1}, {Key: "appointmentTime", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

func (repo *MongoAppointmentRepo) UpdateStatus(ctx context.Context, appointmentID, status string) error {
	return repo.setField(ctx, appointmentID, "status", status)
}

func (repo *MongoAppointmentRepo) UpdatePaymentStatus(ctx context.Context, appointmentID, paymentStatus string) error {
	return repo.setField(ctx, appointmentID, "paymentStatus", paymentStatus)
}

func (repo *MongoAppointmentRepo) SetChatRoom(ctx context.Context, appointmentID, chatRoomID string) error {
	return repo.setField(ctx, appointmentID, "chatRoomId", chatRoomID)
}

func (repo *MongoAppointmentRepo) setField(ctx context.Context, appointmentID, field, value string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{field: value, "updatedAt": time.Now()}}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": appointmentID}, update)
	if err != nil {
		return fmt.Errorf("error updating appointment %s: %w", appointmentID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment with id %s not found", appointmentID)
	}
	return nil
}
