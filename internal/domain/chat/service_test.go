package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

type stubRooms struct {
	mu    sync.Mutex
	rooms []Room

	createErr error
	findErr   error
}

func (s *stubRooms) FindByMembers(_ context.Context, a, b int64) (Room, bool, error) {
	if s.findErr != nil {
		return Room{}, false, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		if r.HasMember(a) && r.HasMember(b) {
			return r, true, nil
		}
	}
	return Room{}, false, nil
}

func (s *stubRooms) Create(_ context.Context, room Room) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = append(s.rooms, room)
	return nil
}

func (s *stubRooms) Get(_ context.Context, id uuid.UUID) (Room, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		if r.ID == id {
			return r, true, nil
		}
	}
	return Room{}, false, nil
}

type stubMessages struct {
	mu        sync.Mutex
	msgs      []Message
	appendErr error
}

func (s *stubMessages) Append(_ context.Context, msg Message) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *stubMessages) ListByRoom(_ context.Context, roomID uuid.UUID) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Message
	for _, m := range s.msgs {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMessages) LastByRoom(_ context.Context, roomID uuid.UUID) (Message, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.msgs) - 1; i >= 0; i-- {
		if s.msgs[i].RoomID == roomID {
			return s.msgs[i], true, nil
		}
	}
	return Message{}, false, nil
}

type stubStorage struct {
	keys   []string
	putErr error
}

func (s *stubStorage) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	s.keys = append(s.keys, key)
	return key, nil
}

type stubBroadcaster struct {
	events []string
	rooms  []uuid.UUID
}

func (s *stubBroadcaster) Broadcast(roomID uuid.UUID, event string, _ any) {
	s.rooms = append(s.rooms, roomID)
	s.events = append(s.events, event)
}

type stubUsers struct {
	known map[int64]bool
	err   error
}

func (s *stubUsers) Exists(_ context.Context, userNo int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.known[userNo], nil
}

func testLogger() *slog.Logger {
	return slog.Default()
}

func newTestService(t *testing.T) (Service, *stubRooms, *stubMessages, *stubStorage, *stubBroadcaster) {
	t.Helper()
	rooms := &stubRooms{}
	msgs := &stubMessages{}
	storage := &stubStorage{}
	bc := &stubBroadcaster{}
	users := &stubUsers{known: map[int64]bool{1: true, 2: true}}
	svc := NewService(rooms, msgs, storage, bc, users, 1<<20, testLogger())
	return svc, rooms, msgs, storage, bc
}

func TestGetOrCreateRoomCreatesOnce(t *testing.T) {
	svc, rooms, _, _, _ := newTestService(t)

	first, err := svc.GetOrCreateRoom(context.Background(), 1, 2)
	require.NoError(t, err)
	require.True(t, first.HasMember(1))
	require.True(t, first.HasMember(2))

	// Opposite member order resolves to the same room.
	second, err := svc.GetOrCreateRoom(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, rooms.rooms, 1)
}

func TestGetOrCreateRoomUnknownUser(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	_, err := svc.GetOrCreateRoom(context.Background(), 1, 99)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestGetOrCreateRoomValidatesInput(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	_, err := svc.GetOrCreateRoom(context.Background(), 0, 2)
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.GetOrCreateRoom(context.Background(), 1, 1)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestGetOrCreateRoomRecoversFromCreateRace(t *testing.T) {
	rooms := &stubRooms{}
	users := &stubUsers{known: map[int64]bool{1: true, 2: true}}
	svc := NewService(rooms, &stubMessages{}, &stubStorage{}, nil, users, 0, testLogger())

	existing := Room{ID: uuid.New(), Members: [2]int64{1, 2}}
	rooms.createErr = errors.New("duplicate key")
	rooms.rooms = []Room{existing}

	got, err := svc.GetOrCreateRoom(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, existing.ID, got.ID)
}

func TestSendMessageStoresAndBroadcasts(t *testing.T) {
	svc, _, msgs, _, bc := newTestService(t)

	room, err := svc.GetOrCreateRoom(context.Background(), 1, 2)
	require.NoError(t, err)

	sent, err := svc.SendMessage(context.Background(), SendMessageRequest{
		RoomID:  room.ID,
		Sender:  1,
		Content: "hello",
	})
	require.NoError(t, err)
	require.Equal(t, MessageTypeText, sent.Type)
	require.Len(t, msgs.msgs, 1)
	require.Equal(t, []string{EventNewMessage}, bc.events)
	require.Equal(t, []uuid.UUID{room.ID}, bc.rooms)
}

func TestSendMessageRejectsNonMember(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	room, err := svc.GetOrCreateRoom(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), SendMessageRequest{
		RoomID:  room.ID,
		Sender:  7,
		Content: "hi",
	})
	require.True(t, apperrors.IsCode(err, "forbidden"))
}

func TestSendMessageUnknownRoom(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	_, err := svc.SendMessage(context.Background(), SendMessageRequest{
		RoomID:  uuid.New(),
		Sender:  1,
		Content: "hi",
	})
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestSendMessageEmptyText(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	room, err := svc.GetOrCreateRoom(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), SendMessageRequest{
		RoomID:  room.ID,
		Sender:  1,
		Content: "   ",
	})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestSendMessageUploadsAttachment(t *testing.T) {
	svc, _, msgs, storage, _ := newTestService(t)

	room, err := svc.GetOrCreateRoom(context.Background(), 1, 2)
	require.NoError(t, err)

	sent, err := svc.SendMessage(context.Background(), SendMessageRequest{
		RoomID: room.ID,
		Sender: 2,
		Type:   MessageTypeImage,
		Attachment: &Attachment{
			Filename: "photo.png",
			MimeType: "image/png",
			Data:     []byte{0x89, 0x50},
		},
	})
	require.NoError(t, err)
	require.Len(t, storage.keys, 1)
	// Content carries the storage key, not the raw bytes.
	require.Equal(t, storage.keys[0], sent.Content)
	require.Equal(t, sent.Content, msgs.msgs[0].Content)
}

func TestSendMessageAttachmentTooLarge(t *testing.T) {
	rooms := &stubRooms{}
	users := &stubUsers{known: map[int64]bool{1: true, 2: true}}
	svc := NewService(rooms, &stubMessages{}, &stubStorage{}, nil, users, 4, testLogger())

	room, err := svc.GetOrCreateRoom(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), SendMessageRequest{
		RoomID: room.ID,
		Sender: 1,
		Type:   MessageTypePDF,
		Attachment: &Attachment{
			Filename: "big.pdf",
			Data:     []byte("0123456789"),
		},
	})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestMessagesReturnsInOrder(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	room, err := svc.GetOrCreateRoom(context.Background(), 1, 2)
	require.NoError(t, err)

	for _, body := range []string{"one", "two", "three"} {
		_, err := svc.SendMessage(context.Background(), SendMessageRequest{
			RoomID:  room.ID,
			Sender:  1,
			Content: body,
		})
		require.NoError(t, err)
	}

	got, err := svc.Messages(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "one", got[0].Content)
	require.Equal(t, "three", got[2].Content)

	last, ok, err := svc.LastMessage(context.Background(), room.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "three", last.Content)
}

func TestLastMessageEmptyRoom(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	room, err := svc.GetOrCreateRoom(context.Background(), 1, 2)
	require.NoError(t, err)

	_, ok, err := svc.LastMessage(context.Background(), room.ID)
	require.NoError(t, err)
	require.False(t, ok)
}
