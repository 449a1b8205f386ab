package scheduleRepo

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

// MongoScheduleRepo implements ScheduleRepository using MongoDB.
type MongoScheduleRepo struct {
	scheduleColl    *mongo.Collection
	appointmentColl *mongo.Collection
}

// NewMongoScheduleRepo constructs a new instance of MongoScheduleRepo.
func NewMongoScheduleRepo() *MongoScheduleRepo {
	db := database.DB()
	repo := &MongoScheduleRepo{
		scheduleColl:    db.Collection("schedules"),
		appointmentColl: db.Collection("appointments"),
	}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("schedule repo: %v", err))
	}
	return repo
}

func (repo *MongoScheduleRepo) GetByPsychologistAndDay(ctx context.Context, psychologistID string, day models.Weekday) (*models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"psychologistId": psychologistID, "dayOfWeek": day}
	var schedule models.Schedule
	if err := repo.scheduleColl.FindOne(ctx, filter).Decode(&schedule); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching schedule for psychologist %s on %s: %w", psychologistID, day, err)
	}
	return &schedule, nil
}

// Upsert replaces the slot list wholesale. The compound unique index on
// (psychologistId, dayOfWeek) makes concurrent upserts converge on one document.
func (repo *MongoScheduleRepo) Upsert(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"psychologistId": schedule.PsychologistID,
		"dayOfWeek":      schedule.DayOfWeek,
	}
	update := bson.M{
		"$set": bson.M{
			"timeSlots":   schedule.TimeSlots,
			"isRecurring": schedule.IsRecurring,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"id":             uuid.New().String(),
			"psychologistId": schedule.PsychologistID,
			"dayOfWeek":      schedule.DayOfWeek,
			"createdAt":      now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := repo.scheduleColl.UpdateOne(ctx, filter, update, opts); err != nil {
		return nil, fmt.Errorf("error upserting schedule for psychologist %s on %s: %w", schedule.PsychologistID, schedule.DayOfWeek, err)
	}

	return repo.GetByPsychologistAndDay(ctx, schedule.PsychologistID, schedule.DayOfWeek)
}

// ReserveSlot flips isAvailable false only if the slot is currently available:
// the $elemMatch filter plus positional update is the compare-and-swap that
// prevents two bookings from both claiming the slot.
func (repo *MongoScheduleRepo) ReserveSlot(ctx context.Context, psychologistID string, day models.Weekday, slot models.TimeSlot) error {
	return repo.setSlotAvailability(ctx, psychologistID, day, slot, false)
}

// ReleaseSlot flips a booked slot back to available (cancellation flow).
func (repo *MongoScheduleRepo) ReleaseSlot(ctx context.Context, psychologistID string, day models.Weekday, slot models.TimeSlot) error {
	return repo.setSlotAvailability(ctx, psychologistID, day, slot, true)
}

func (repo *MongoScheduleRepo) setSlotAvailability(ctx context.Context, psychologistID string, day models.Weekday, slot models.TimeSlot, available bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.scheduleColl.UpdateOne(ctx, slotFilter(psychologistID, day, slot, !available), slotFlip(available))
	if err != nil {
		return fmt.Errorf("error updating slot %s for psychologist %s on %s: %w", slot.Range(), psychologistID, day, err)
	}
	if res.MatchedCount == 0 {
		// Distinguish "no schedule" from "slot taken or unknown".
		existing, ferr := repo.GetByPsychologistAndDay(ctx, psychologistID, day)
		if ferr != nil {
			return ferr
		}
		if existing == nil {
			return ErrScheduleNotFound
		}
		return ErrSlotUnavailable
	}
	return nil
}

// slotFilter matches the schedule document containing the exact slot window
// in the required availability state.
func slotFilter(psychologistID string, day models.Weekday, slot models.TimeSlot, currentlyAvailable bool) bson.M {
	return bson.M{
		"psychologistId": psychologistID,
		"dayOfWeek":      day,
		"timeSlots": bson.M{
			"$elemMatch": bson.M{
				"startTime":   slot.StartTime,
				"endTime":     slot.EndTime,
				"isAvailable": currentlyAvailable,
			},
		},
	}
}

func slotFlip(available bool) bson.M {
	return bson.M{
		"$set": bson.M{
			"timeSlots.$.isAvailable": available,
			"updatedAt":               time.Now(),
		},
	}
}
