package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	scheduleRepo "mindcare/database/repository/schedule"
	"mindcare/models"
	"mindcare/services/availability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type memorySessionStore struct {
	sessions map[string]*models.BookingSession
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*models.BookingSession)}
}

func (m *memorySessionStore) Save(_ context.Context, s *models.BookingSession) error {
	cp := *s
	m.sessions[s.SessionID] = &cp
	return nil
}

func (m *memorySessionStore) Load(_ context.Context, id string) (*models.BookingSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memorySessionStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

type fakeScheduleRepo struct {
	schedules    map[string]*models.Schedule
	appointments []*models.Appointment
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[string]*models.Schedule)}
}

func skey(psychologistID string, day models.Weekday) string {
	return psychologistID + "|" + string(day)
}

func (f *fakeScheduleRepo) GetByPsychologistAndDay(_ context.Context, id string, day models.Weekday) (*models.Schedule, error) {
	s, ok := f.schedules[skey(id, day)]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (f *fakeScheduleRepo) Upsert(_ context.Context, s *models.Schedule) (*models.Schedule, error) {
	f.schedules[skey(s.PsychologistID, s.DayOfWeek)] = s
	return s, nil
}

func (f *fakeScheduleRepo) flip(id string, day models.Weekday, slot models.TimeSlot, available bool) error {
	s, ok := f.schedules[skey(id, day)]
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

func (f *fakeScheduleRepo) ReserveSlot(_ context.Context, id string, day models.Weekday, slot models.TimeSlot) error {
	return f.flip(id, day, slot, false)
}

func (f *fakeScheduleRepo) ReleaseSlot(_ context.Context, id string, day models.Weekday, slot models.TimeSlot) error {
	return f.flip(id, day, slot, true)
}

func (f *fakeScheduleRepo) BookSlotTransactionally(_ context.Context, day models.Weekday, slot models.TimeSlot, appt *models.Appointment) error {
	if err := f.flip(appt.PsychologistID, day, slot, false); err != nil {
		return err
	}
	f.appointments = append(f.appointments, appt)
	return nil
}

func (f *fakeScheduleRepo) CancelAppointmentTransactionally(_ context.Context, appointmentID string) (*models.Appointment, error) {
	for _, appt := range f.appointments {
		if appt.ID == appointmentID {
			appt.Status = models.AppointmentCancelled
			return appt, nil
		}
	}
	return nil, scheduleRepo.ErrScheduleNotFound
}

type fakeAppointments struct {
	repo *fakeScheduleRepo
}

func (f *fakeAppointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	for _, appt := range f.repo.appointments {
		if appt.ID == id {
			return appt, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointments) ListByUser(context.Context, string) ([]models.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointments) ListByPsychologist(context.Context, string) ([]models.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointments) ListForDate(context.Context, string, string) ([]models.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointments) UpdateStatus(context.Context, string, string) error        { return nil }
func (f *fakeAppointments) UpdatePaymentStatus(context.Context, string, string) error { return nil }
func (f *fakeAppointments) SetChatRoom(context.Context, string, string) error         { return nil }

type fakePsychologists struct {
	psychs map[string]*models.Psychologist
}

func (f *fakePsychologists) GetByID(_ context.Context, id string) (*models.Psychologist, error) {
	return f.psychs[id], nil
}
func (f *fakePsychologists) Create(context.Context, *models.Psychologist) error { return nil }
func (f *fakePsychologists) GetByEmail(context.Context, string) (*models.Psychologist, error) {
	return nil, nil
}
func (f *fakePsychologists) List(context.Context, models.PsychologistFilter) ([]models.Psychologist, error) {
	return nil, nil
}
func (f *fakePsychologists) Update(context.Context, string, map[string]interface{}) error {
	return nil
}
func (f *fakePsychologists) AddRating(context.Context, string, float64) error { return nil }

type recordingNotifier struct {
	confirmed []string
	cancelled []string
}

func (r *recordingNotifier) AppointmentConfirmed(_ context.Context, appt *models.Appointment) error {
	r.confirmed = append(r.confirmed, appt.ID)
	return nil
}

func (r *recordingNotifier) AppointmentCancelled(_ context.Context, appt *models.Appointment) error {
	r.cancelled = append(r.cancelled, appt.ID)
	return nil
}

type recordingReminders struct {
	scheduled []string
}

func (r *recordingReminders) ScheduleAppointmentReminder(appt *models.Appointment) error {
	r.scheduled = append(r.scheduled, appt.ID)
	return nil
}

type fakePayments struct {
	intents   int
	succeeded bool
	lookupErr error
}

func (f *fakePayments) CreateIntent(context.Context, float64, map[string]string) (string, string, error) {
	f.intents++
	return "pi_test", "secret_test", nil
}

func (f *fakePayments) IntentSucceeded(context.Context, string) (bool, error) {
	return f.succeeded, f.lookupErr
}

// --- fixtures ---

// 2026-09-07 is a Monday.
const mondayDate = "2026-09-07"

func newBookingService(t *testing.T) (*DefaultBookingService, *fakeScheduleRepo, *recordingNotifier, *recordingReminders) {
	t.Helper()
	repo := newFakeScheduleRepo()
	repo.schedules[skey("psy-1", models.Monday)] = &models.Schedule{
		PsychologistID: "psy-1",
		DayOfWeek:      models.Monday,
		TimeSlots: []models.TimeSlot{
			{StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
			{StartTime: "10:00", EndTime: "11:00", IsAvailable: true},
		},
	}
	notifier := &recordingNotifier{}
	reminders := &recordingReminders{}
	svc := &DefaultBookingService{
		Availability:  &availability.DefaultAvailabilityService{Repo: repo},
		ScheduleRepo:  repo,
		Appointments:  &fakeAppointments{repo: repo},
		Psychologists: &fakePsychologists{psychs: map[string]*models.Psychologist{
			"psy-1": {ID: "psy-1", Name: "Dr. A", SessionFee: 50},
		}},
		Sessions:  newMemorySessionStore(),
		Payments:  &fakePayments{succeeded: true},
		Notifier:  notifier,
		Reminders: reminders,
	}
	return svc, repo, notifier, reminders
}

func confirmBooking(t *testing.T, svc *DefaultBookingService, slot models.TimeSlot) (*models.Appointment, error) {
	t.Helper()
	ctx := context.Background()
	session, err := svc.StartSession(ctx, "user-1", "psy-1", mondayDate, models.ConsultationVideo)
	require.NoError(t, err)

	if _, err := svc.SelectSlot(ctx, "user-1", session.SessionID, models.BookingRequestInput{Slot: slot}); err != nil {
		return nil, err
	}
	return svc.Confirm(ctx, "user-1", session.SessionID)
}

// --- tests ---

func TestStartSession_ListsOpenSlots(t *testing.T) {
	svc, _, _, _ := newBookingService(t)

	session, err := svc.StartSession(context.Background(), "user-1", "psy-1", mondayDate, "")
	require.NoError(t, err)
	assert.Len(t, session.AvailableSlots, 2)
	assert.Equal(t, 50.0, session.Fee)
	assert.Equal(t, models.ConsultationVideo, session.ConsultationType)
}

func TestStartSession_InvalidDate(t *testing.T) {
	svc, _, _, _ := newBookingService(t)

	_, err := svc.StartSession(context.Background(), "user-1", "psy-1", "bogus", "")
	assert.ErrorIs(t, err, availability.ErrInvalidDate)
}

func TestSelectSlot_RejectsUnlistedSlot(t *testing.T) {
	svc, _, _, _ := newBookingService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1", "psy-1", mondayDate, "")
	require.NoError(t, err)

	_, err = svc.SelectSlot(ctx, "user-1", session.SessionID, models.BookingRequestInput{
		Slot: models.TimeSlot{StartTime: "22:00", EndTime: "23:00"},
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestConfirm_WithoutSelection(t *testing.T) {
	svc, _, _, _ := newBookingService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1", "psy-1", mondayDate, "")
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, "user-1", session.SessionID)
	assert.ErrorIs(t, err, ErrNoSlotSelected)
}

func TestConfirm_BooksSlotAndNotifies(t *testing.T) {
	svc, repo, notifier, reminders := newBookingService(t)
	slot := models.TimeSlot{StartTime: "09:00", EndTime: "10:00"}

	appt, err := confirmBooking(t, svc, slot)
	require.NoError(t, err)

	assert.Equal(t, models.AppointmentConfirmed, appt.Status)
	assert.Equal(t, "09:00-10:00", appt.AppointmentTime)
	assert.Equal(t, models.PaymentPaid, appt.PaymentStatus)
	require.Len(t, repo.appointments, 1)
	assert.False(t, repo.schedules[skey("psy-1", models.Monday)].TimeSlots[0].IsAvailable)
	assert.Equal(t, []string{appt.ID}, notifier.confirmed)
	assert.Equal(t, []string{appt.ID}, reminders.scheduled)
}

func TestConfirm_UnsettledIntentStaysUnpaid(t *testing.T) {
	svc, repo, _, _ := newBookingService(t)
	svc.Payments.(*fakePayments).succeeded = false
	slot := models.TimeSlot{StartTime: "09:00", EndTime: "10:00"}

	appt, err := confirmBooking(t, svc, slot)
	require.NoError(t, err)

	// A declined or abandoned intent must not be recorded as settled.
	assert.Equal(t, models.PaymentUnpaid, appt.PaymentStatus)
	assert.Equal(t, models.AppointmentConfirmed, appt.Status)
	require.Len(t, repo.appointments, 1)
}

func TestConfirm_PaymentLookupFailureAborts(t *testing.T) {
	svc, repo, _, _ := newBookingService(t)
	svc.Payments.(*fakePayments).lookupErr = errors.New("stripe down")
	slot := models.TimeSlot{StartTime: "09:00", EndTime: "10:00"}

	_, err := confirmBooking(t, svc, slot)
	require.Error(t, err)
	assert.Empty(t, repo.appointments)
	assert.True(t, repo.schedules[skey("psy-1", models.Monday)].TimeSlots[0].IsAvailable)
}

func TestConfirm_DoubleBookingRejected(t *testing.T) {
	svc, repo, _, _ := newBookingService(t)
	slot := models.TimeSlot{StartTime: "09:00", EndTime: "10:00"}

	_, err := confirmBooking(t, svc, slot)
	require.NoError(t, err)

	// A second session racing for the same slot loses at confirm time: the
	// slot vanished from the session's list, so selection already fails.
	_, err = confirmBooking(t, svc, slot)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Len(t, repo.appointments, 1, "losing booking must not persist an appointment")
}

func TestConfirm_SessionConsumedAfterBooking(t *testing.T) {
	svc, _, _, _ := newBookingService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1", "psy-1", mondayDate, "")
	require.NoError(t, err)
	_, err = svc.SelectSlot(ctx, "user-1", session.SessionID, models.BookingRequestInput{
		Slot: models.TimeSlot{StartTime: "09:00", EndTime: "10:00"},
	})
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, "user-1", session.SessionID)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, "user-1", session.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCancelAppointment_ReleasesAndNotifies(t *testing.T) {
	svc, _, notifier, _ := newBookingService(t)
	slot := models.TimeSlot{StartTime: "10:00", EndTime: "11:00"}

	appt, err := confirmBooking(t, svc, slot)
	require.NoError(t, err)

	cancelled, err := svc.CancelAppointment(context.Background(), "user-1", appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)
	assert.Equal(t, []string{appt.ID}, notifier.cancelled)
}

func TestCancelAppointment_StrangerRejected(t *testing.T) {
	svc, _, _, _ := newBookingService(t)
	slot := models.TimeSlot{StartTime: "10:00", EndTime: "11:00"}

	appt, err := confirmBooking(t, svc, slot)
	require.NoError(t, err)

	_, err = svc.CancelAppointment(context.Background(), "someone-else", appt.ID)
	assert.Error(t, err)
}

func TestSessionOwnershipEnforced(t *testing.T) {
	svc, _, _, _ := newBookingService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1", "psy-1", mondayDate, "")
	require.NoError(t, err)

	_, err = svc.SelectSlot(ctx, "user-2", session.SessionID, models.BookingRequestInput{
		Slot: models.TimeSlot{StartTime: "09:00", EndTime: "10:00"},
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAppointmentStartsAt(t *testing.T) {
	appt := models.Appointment{AppointmentDate: mondayDate, AppointmentTime: "09:00-10:00"}
	start, err := appt.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 7, 9, 0, 0, 0, time.Local), start)
}
