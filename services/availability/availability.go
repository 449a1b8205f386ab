// Package availability owns the mapping from (psychologist, day-of-week) to
// bookable timeslots: listing what is open on a date, reserving and releasing
// slots, and replacing a day's schedule.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	scheduleRepo "mindcare/database/repository/schedule"
	"mindcare/models"
)

var (
	// ErrInvalidDate rejects dates that do not parse as "YYYY-MM-DD". Invalid
	// input is an error, never silently mapped to a default weekday.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrSlotUnavailable mirrors the repository sentinel for callers that do
	// not import the repo package.
	ErrSlotUnavailable = scheduleRepo.ErrSlotUnavailable
	// ErrScheduleNotFound means no schedule exists for the pair being mutated.
	ErrScheduleNotFound = scheduleRepo.ErrScheduleNotFound
)

// AvailabilityService defines the slot read and mutate operations.
type AvailabilityService interface {
	ListAvailableSlots(ctx context.Context, psychologistID, date string) ([]models.TimeSlot, error)
	ReserveSlot(ctx context.Context, psychologistID, date string, slot models.TimeSlot) error
	ReleaseSlot(ctx context.Context, psychologistID, date string, slot models.TimeSlot) error
	UpsertSchedule(ctx context.Context, psychologistID string, day models.Weekday, slots []models.TimeSlot, isRecurring bool) (*models.Schedule, error)
}

// DefaultAvailabilityService is a concrete implementation over the schedule repository.
type DefaultAvailabilityService struct {
	Repo scheduleRepo.ScheduleRepository
}

// ListAvailableSlots returns the open slots for the psychologist on the given
// date, in stored order. An empty psychologist ID yields an empty result
// without touching the store; a schedule-less weekday yields an empty result.
func (s *DefaultAvailabilityService) ListAvailableSlots(ctx context.Context, psychologistID, date string) ([]models.TimeSlot, error) {
	if psychologistID == "" {
		return nil, nil
	}
	day, err := WeekdayOfDate(date)
	if err != nil {
		return nil, err
	}

	schedule, err := s.Repo.GetByPsychologistAndDay(ctx, psychologistID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if schedule == nil {
		return nil, nil
	}

	var available []models.TimeSlot
	for _, ts := range schedule.TimeSlots {
		if ts.IsAvailable {
			available = append(available, ts)
		}
	}
	return available, nil
}

// ReserveSlot marks the exact slot booked. The repository performs the flip as
// a conditional update, so a slot can be reserved exactly once: a concurrent
// second caller gets ErrSlotUnavailable instead of silently re-flipping it.
func (s *DefaultAvailabilityService) ReserveSlot(ctx context.Context, psychologistID, date string, slot models.TimeSlot) error {
	if psychologistID == "" {
		return ErrScheduleNotFound
	}
	day, err := WeekdayOfDate(date)
	if err != nil {
		return err
	}
	return s.Repo.ReserveSlot(ctx, psychologistID, day, slot)
}

// ReleaseSlot makes a booked slot available again (cancellation flow).
func (s *DefaultAvailabilityService) ReleaseSlot(ctx context.Context, psychologistID, date string, slot models.TimeSlot) error {
	if psychologistID == "" {
		return ErrScheduleNotFound
	}
	day, err := WeekdayOfDate(date)
	if err != nil {
		return err
	}
	return s.Repo.ReleaseSlot(ctx, psychologistID, day, slot)
}

// UpsertSchedule validates and stores a full replacement slot list for the
// pair. Slots absent from the new list are discarded, not merged.
func (s *DefaultAvailabilityService) UpsertSchedule(ctx context.Context, psychologistID string, day models.Weekday, slots []models.TimeSlot, isRecurring bool) (*models.Schedule, error) {
	if psychologistID == "" {
		return nil, fmt.Errorf("psychologist id is required")
	}
	if !day.Valid() {
		return nil, fmt.Errorf("invalid day of week %q", day)
	}
	if err := ValidateSlots(slots); err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		PsychologistID: psychologistID,
		DayOfWeek:      day,
		TimeSlots:      slots,
		IsRecurring:    isRecurring,
	}
	stored, err := s.Repo.Upsert(ctx, schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert schedule: %w", err)
	}
	return stored, nil
}

// WeekdayOfDate maps a "YYYY-MM-DD" date to its schedule weekday symbol.
// Unparseable dates fail closed with ErrInvalidDate.
func WeekdayOfDate(date string) (models.Weekday, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", ErrInvalidDate
	}
	return models.WeekdayOf(t), nil
}

// ValidateSlots checks every slot parses, starts before it ends, and that no
// two slots in the list overlap.
func ValidateSlots(slots []models.TimeSlot) error {
	type window struct{ start, end int }
	windows := make([]window, len(slots))

	for i, ts := range slots {
		start, err := parseClock(ts.StartTime)
		if err != nil {
			return fmt.Errorf("slot %d: invalid start time %q", i+1, ts.StartTime)
		}
		end, err := parseClock(ts.EndTime)
		if err != nil {
			return fmt.Errorf("slot %d: invalid end time %q", i+1, ts.EndTime)
		}
		if start >= end {
			return fmt.Errorf("slot %d: start %s must be before end %s", i+1, ts.StartTime, ts.EndTime)
		}
		windows[i] = window{start, end}
	}

	for i := range windows {
		for j := i + 1; j < len(windows); j++ {
			if windows[i].start < windows[j].end && windows[j].start < windows[i].end {
				return fmt.Errorf("slot %d overlaps slot %d", i+1, j+1)
			}
		}
	}
	return nil
}

// parseClock converts "HH:MM" to minutes from midnight.
func parseClock(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
