package availability

import (
	"context"
	"testing"
	"time"

	scheduleRepo "mindcare/database/repository/schedule"
	"mindcare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduleRepo is an in-memory ScheduleRepository keyed by
// (psychologistID, weekday).
type fakeScheduleRepo struct {
	schedules map[string]*models.Schedule
	calls     int
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[string]*models.Schedule)}
}

func key(psychologistID string, day models.Weekday) string {
	return psychologistID + "|" + string(day)
}

func (f *fakeScheduleRepo) GetByPsychologistAndDay(_ context.Context, psychologistID string, day models.Weekday) (*models.Schedule, error) {
	f.calls++
	s, ok := f.schedules[key(psychologistID, day)]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.TimeSlots = append([]models.TimeSlot(nil), s.TimeSlots...)
	return &cp, nil
}

func (f *fakeScheduleRepo) Upsert(_ context.Context, schedule *models.Schedule) (*models.Schedule, error) {
	f.calls++
	k := key(schedule.PsychologistID, schedule.DayOfWeek)
	existing, ok := f.schedules[k]
	if !ok {
		stored := *schedule
		stored.ID = "sched-" + k
		stored.CreatedAt = time.Now()
		stored.UpdatedAt = stored.CreatedAt
		f.schedules[k] = &stored
		return &stored, nil
	}
	existing.TimeSlots = append([]models.TimeSlot(nil), schedule.TimeSlots...)
	existing.IsRecurring = schedule.IsRecurring
	existing.UpdatedAt = time.Now()
	return existing, nil
}

func (f *fakeScheduleRepo) setSlot(psychologistID string, day models.Weekday, slot models.TimeSlot, available bool) error {
	f.calls++
	s, ok := f.schedules[key(psychologistID, day)]
	if !ok {
		return scheduleRepo.ErrScheduleNotFound
	}
	for i := range s.TimeSlots {
		if s.TimeSlots[i].Matches(slot) && s.TimeSlots[i].IsAvailable != available {
			s.TimeSlots[i].IsAvailable = available
			return nil
		}
	}
	return scheduleRepo.ErrSlotUnavailable
}

func (f *fakeScheduleRepo) ReserveSlot(_ context.Context, psychologistID string, day models.Weekday, slot models.TimeSlot) error {
	return f.setSlot(psychologistID, day, slot, false)
}

func (f *fakeScheduleRepo) ReleaseSlot(_ context.Context, psychologistID string, day models.Weekday, slot models.TimeSlot) error {
	return f.setSlot(psychologistID, day, slot, true)
}

func (f *fakeScheduleRepo) BookSlotTransactionally(_ context.Context, day models.Weekday, slot models.TimeSlot, appt *models.Appointment) error {
	return f.setSlot(appt.PsychologistID, day, slot, false)
}

func (f *fakeScheduleRepo) CancelAppointmentTransactionally(context.Context, string) (*models.Appointment, error) {
	panic("not used in these tests")
}

func mondaySlots() []models.TimeSlot {
	return []models.TimeSlot{
		{StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
		{StartTime: "10:00", EndTime: "11:00", IsAvailable: true},
		{StartTime: "11:00", EndTime: "12:00", IsAvailable: false},
	}
}

// 2026-09-07 is a Monday.
const mondayDate = "2026-09-07"

func seededService(t *testing.T) (*DefaultAvailabilityService, *fakeScheduleRepo) {
	t.Helper()
	repo := newFakeScheduleRepo()
	svc := &DefaultAvailabilityService{Repo: repo}
	_, err := svc.UpsertSchedule(context.Background(), "psy-1", models.Monday, mondaySlots(), true)
	require.NoError(t, err)
	return svc, repo
}

func TestListAvailableSlots_FiltersInStoredOrder(t *testing.T) {
	svc, _ := seededService(t)

	got, err := svc.ListAvailableSlots(context.Background(), "psy-1", mondayDate)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "09:00", got[0].StartTime)
	assert.Equal(t, "10:00", got[1].StartTime)
}

func TestListAvailableSlots_EmptyPsychologistSkipsStore(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := &DefaultAvailabilityService{Repo: repo}

	got, err := svc.ListAvailableSlots(context.Background(), "", mondayDate)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, repo.calls, "empty psychologist id must not hit the repository")
}

func TestListAvailableSlots_InvalidDateFailsClosed(t *testing.T) {
	svc, _ := seededService(t)

	for _, date := range []string{"not-a-date", "2026-13-40", "07-09-2026", ""} {
		_, err := svc.ListAvailableSlots(context.Background(), "psy-1", date)
		assert.ErrorIs(t, err, ErrInvalidDate, "date %q", date)
	}
}

func TestListAvailableSlots_NoScheduleIsEmptyNotError(t *testing.T) {
	svc, _ := seededService(t)

	// 2026-09-08 is a Tuesday; psy-1 only has a Monday schedule.
	got, err := svc.ListAvailableSlots(context.Background(), "psy-1", "2026-09-08")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReserveSlot_FlipsOnlyMatchingSlot(t *testing.T) {
	svc, repo := seededService(t)
	slot := models.TimeSlot{StartTime: "09:00", EndTime: "10:00"}

	require.NoError(t, svc.ReserveSlot(context.Background(), "psy-1", mondayDate, slot))

	stored := repo.schedules[key("psy-1", models.Monday)]
	assert.False(t, stored.TimeSlots[0].IsAvailable)
	assert.True(t, stored.TimeSlots[1].IsAvailable, "other slots must be untouched")

	got, err := svc.ListAvailableSlots(context.Background(), "psy-1", mondayDate)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "10:00", got[0].StartTime)
}

func TestReserveSlot_SecondReservationRejected(t *testing.T) {
	svc, _ := seededService(t)
	slot := models.TimeSlot{StartTime: "09:00", EndTime: "10:00"}

	require.NoError(t, svc.ReserveSlot(context.Background(), "psy-1", mondayDate, slot))
	err := svc.ReserveSlot(context.Background(), "psy-1", mondayDate, slot)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestReserveSlot_MissingScheduleNeverCreatesOne(t *testing.T) {
	svc, repo := seededService(t)
	slot := models.TimeSlot{StartTime: "09:00", EndTime: "10:00"}

	err := svc.ReserveSlot(context.Background(), "psy-2", mondayDate, slot)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
	assert.Len(t, repo.schedules, 1, "reservation must not create schedule records")
}

func TestReleaseSlot_ReopensBookedSlot(t *testing.T) {
	svc, _ := seededService(t)
	slot := models.TimeSlot{StartTime: "09:00", EndTime: "10:00"}

	require.NoError(t, svc.ReserveSlot(context.Background(), "psy-1", mondayDate, slot))
	require.NoError(t, svc.ReleaseSlot(context.Background(), "psy-1", mondayDate, slot))

	got, err := svc.ListAvailableSlots(context.Background(), "psy-1", mondayDate)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUpsertSchedule_ReplacesWholesale(t *testing.T) {
	svc, _ := seededService(t)

	replacement := []models.TimeSlot{
		{StartTime: "14:00", EndTime: "15:00", IsAvailable: true},
	}
	stored, err := svc.UpsertSchedule(context.Background(), "psy-1", models.Monday, replacement, false)
	require.NoError(t, err)
	require.Len(t, stored.TimeSlots, 1)
	assert.Equal(t, "14:00", stored.TimeSlots[0].StartTime)
	assert.False(t, stored.IsRecurring)
}

func TestUpsertSchedule_Validation(t *testing.T) {
	svc := &DefaultAvailabilityService{Repo: newFakeScheduleRepo()}
	ctx := context.Background()

	tests := []struct {
		name  string
		day   models.Weekday
		slots []models.TimeSlot
	}{
		{
			name:  "bad weekday",
			day:   models.Weekday("someday"),
			slots: []models.TimeSlot{{StartTime: "09:00", EndTime: "10:00"}},
		},
		{
			name:  "unparseable start",
			day:   models.Monday,
			slots: []models.TimeSlot{{StartTime: "9am", EndTime: "10:00"}},
		},
		{
			name:  "start not before end",
			day:   models.Monday,
			slots: []models.TimeSlot{{StartTime: "10:00", EndTime: "10:00"}},
		},
		{
			name: "overlapping slots",
			day:  models.Monday,
			slots: []models.TimeSlot{
				{StartTime: "09:00", EndTime: "10:30"},
				{StartTime: "10:00", EndTime: "11:00"},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpsertSchedule(ctx, "psy-1", tc.day, tc.slots, true)
			assert.Error(t, err)
		})
	}
}

func TestWeekdayOfDate(t *testing.T) {
	day, err := WeekdayOfDate("2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, models.Monday, day)

	day, err = WeekdayOfDate("2026-09-13")
	require.NoError(t, err)
	assert.Equal(t, models.Sunday, day)
}
