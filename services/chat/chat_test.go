package chat

import (
	"context"
	"testing"

	"mindcare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatRepo struct {
	rooms    map[string]*models.ChatRoom
	messages []models.ChatMessage
	watched  chan models.ChatMessage
	canceled bool
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{rooms: map[string]*models.ChatRoom{}, watched: make(chan models.ChatMessage, 8)}
}

func (f *fakeChatRepo) GetOrCreateRoom(ctx context.Context, userID, psychologistID, appointmentID string) (*models.ChatRoom, error) {
	for _, r := range f.rooms {
		if r.UserID == userID && r.PsychologistID == psychologistID {
			return r, nil
		}
	}
	r := &models.ChatRoom{ID: "room-" + userID, UserID: userID, PsychologistID: psychologistID, AppointmentID: appointmentID}
	f.rooms[r.ID] = r
	return r, nil
}

func (f *fakeChatRepo) GetRoom(ctx context.Context, roomID string) (*models.ChatRoom, error) {
	return f.rooms[roomID], nil
}

func (f *fakeChatRepo) ListRoomsFor(ctx context.Context, participantID string) ([]models.ChatRoom, error) {
	var out []models.ChatRoom
	for _, r := range f.rooms {
		if r.UserID == participantID || r.PsychologistID == participantID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) InsertMessage(ctx context.Context, msg *models.ChatMessage) error {
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeChatRepo) ListMessages(ctx context.Context, roomID string, limit int64) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range f.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) MarkRead(ctx context.Context, roomID, readerID string) error {
	for i := range f.messages {
		if f.messages[i].RoomID == roomID && f.messages[i].SenderID != readerID {
			f.messages[i].Read = true
		}
	}
	return nil
}

func (f *fakeChatRepo) Watch(ctx context.Context, roomID string) (<-chan models.ChatMessage, func(), error) {
	return f.watched, func() { f.canceled = true }, nil
}

type fakeAppointments struct {
	byID map[string]*models.Appointment
}

func (f *fakeAppointments) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return f.byID[id], nil
}
func (f *fakeAppointments) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointments) ListByPsychologist(ctx context.Context, psychologistID string) ([]models.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointments) ListForDate(ctx context.Context, psychologistID, date string) ([]models.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointments) UpdateStatus(ctx context.Context, id, status string) error { return nil }
func (f *fakeAppointments) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	return nil
}
func (f *fakeAppointments) SetChatRoom(ctx context.Context, id, roomID string) error {
	if a, ok := f.byID[id]; ok {
		a.ChatRoomID = roomID
	}
	return nil
}

func newChatService() (*DefaultChatService, *fakeChatRepo, *fakeAppointments) {
	repo := newFakeChatRepo()
	appts := &fakeAppointments{byID: map[string]*models.Appointment{
		"appt-1": {ID: "appt-1", UserID: "user-1", PsychologistID: "psy-1", Status: models.AppointmentConfirmed},
		"appt-2": {ID: "appt-2", UserID: "user-1", PsychologistID: "psy-1", Status: models.AppointmentPending},
	}}
	return &DefaultChatService{Repo: repo, Appointments: appts}, repo, appts
}

func TestOpenRoomRequiresConfirmedAppointment(t *testing.T) {
	svc, _, appts := newChatService()

	room, err := svc.OpenRoom(context.Background(), "user-1", "appt-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", room.UserID)
	assert.Equal(t, room.ID, appts.byID["appt-1"].ChatRoomID)

	_, err = svc.OpenRoom(context.Background(), "user-1", "appt-2")
	assert.ErrorIs(t, err, ErrAppointmentNotChattable)

	_, err = svc.OpenRoom(context.Background(), "stranger", "appt-1")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestSendAndListEnforceMembership(t *testing.T) {
	svc, repo, _ := newChatService()
	room, err := svc.OpenRoom(context.Background(), "psy-1", "appt-1")
	require.NoError(t, err)

	msg, err := svc.Send(context.Background(), "user-1", room.ID, models.SendMessageRequest{Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Body)
	assert.False(t, msg.Read)

	_, err = svc.Send(context.Background(), "stranger", room.ID, models.SendMessageRequest{Body: "hi"})
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.Messages(context.Background(), "stranger", room.ID, 50)
	assert.ErrorIs(t, err, ErrNotParticipant)

	msgs, err := svc.Messages(context.Background(), "psy-1", room.ID, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	require.NoError(t, svc.MarkRead(context.Background(), "psy-1", room.ID))
	assert.True(t, repo.messages[0].Read)
}

func TestSubscribeReturnsCancelableHandle(t *testing.T) {
	svc, repo, _ := newChatService()
	room, err := svc.OpenRoom(context.Background(), "user-1", "appt-1")
	require.NoError(t, err)

	sub, err := svc.Subscribe(context.Background(), "user-1", room.ID)
	require.NoError(t, err)

	repo.watched <- models.ChatMessage{RoomID: room.ID, Body: "ping"}
	got := <-sub.Messages
	assert.Equal(t, "ping", got.Body)

	sub.Cancel()
	assert.True(t, repo.canceled)

	_, err = svc.Subscribe(context.Background(), "stranger", room.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.Subscribe(context.Background(), "user-1", "missing-room")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
