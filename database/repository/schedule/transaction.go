package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"mindcare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookSlotTransactionally persists the appointment and flips its slot in one
// transaction. Reserving the slot is not a side effect that can silently fail:
// if the conditional update matches nothing, the whole booking aborts.
func (repo *MongoScheduleRepo) BookSlotTransactionally(
	ctx context.Context,
	day models.Weekday,
	slot models.TimeSlot,
	appt *models.Appointment,
) error {
	client := repo.scheduleColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := repo.appointmentColl.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}

		res, err := repo.scheduleColl.UpdateOne(sc,
			slotFilter(appt.PsychologistID, day, slot, true),
			slotFlip(false),
		)
		if err != nil {
			return fmt.Errorf("reserve slot failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrSlotUnavailable
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrSlotUnavailable {
			return err
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}

// CancelAppointmentTransactionally marks the appointment cancelled and releases
// its slot atomically. Cancellation is refused once the slot has started.
func (repo *MongoScheduleRepo) CancelAppointmentTransactionally(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	var appt models.Appointment
	filter := bson.M{"id": appointmentID}
	if err := repo.appointmentColl.FindOne(ctx, filter).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("appointment with id %s not found", appointmentID)
		}
		return nil, fmt.Errorf("error fetching appointment with id %s: %w", appointmentID, err)
	}

	startsAt, err := appt.StartsAt()
	if err != nil {
		return nil, fmt.Errorf("invalid appointment time %q %q: %w", appt.AppointmentDate, appt.AppointmentTime, err)
	}
	if time.Now().After(startsAt) {
		return nil, fmt.Errorf("cannot cancel appointment %s: timeslot has already started", appointmentID)
	}

	day, err := weekdayOf(appt.AppointmentDate)
	if err != nil {
		return nil, err
	}
	slot, err := slotOfRange(appt.AppointmentTime)
	if err != nil {
		return nil, err
	}

	client := repo.scheduleColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		update := bson.M{"$set": bson.M{
			"status":    models.AppointmentCancelled,
			"updatedAt": time.Now(),
		}}
		if _, err := repo.appointmentColl.UpdateOne(sc, filter, update); err != nil {
			return fmt.Errorf("cancel appointment failed: %w", err)
		}

		// Release is best matched on the booked state; a schedule edit may have
		// replaced the slot list since booking, in which case there is nothing
		// to release.
		if _, err := repo.scheduleColl.UpdateOne(sc,
			slotFilter(appt.PsychologistID, day, slot, false),
			slotFlip(true),
		); err != nil {
			return fmt.Errorf("release slot failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return nil, fmt.Errorf("cancellation transaction failed: %w", err)
	}

	appt.Status = models.AppointmentCancelled
	return &appt, nil
}

func weekdayOf(date string) (models.Weekday, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return models.WeekdayOf(t), nil
}

func slotOfRange(timeRange string) (models.TimeSlot, error) {
	if len(timeRange) != len("HH:MM-HH:MM") || timeRange[5] != '-' {
		return models.TimeSlot{}, fmt.Errorf("invalid time range %q", timeRange)
	}
	return models.TimeSlot{StartTime: timeRange[:5], EndTime: timeRange[6:]}, nil
}
