package chat

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

// EventNewMessage is pushed to room subscribers whenever a message is stored.
const EventNewMessage = "newMessage"

// Service exposes the room and message operations.
type Service interface {
	// GetOrCreateRoom returns the room shared by the two users, creating it
	// on first contact.
	GetOrCreateRoom(ctx context.Context, a, b int64) (Room, error)
	SendMessage(ctx context.Context, req SendMessageRequest) (Message, error)
	Messages(ctx context.Context, roomID uuid.UUID) ([]Message, error)
	LastMessage(ctx context.Context, roomID uuid.UUID) (Message, bool, error)
}

type service struct {
	rooms       RoomRepository
	messages    MessageRepository
	storage     ObjectStorage
	broadcaster Broadcaster
	users       UserLookup
	maxAttach   int64
	logger      *slog.Logger
}

// NewService wires the chat service.
func NewService(rooms RoomRepository, messages MessageRepository, storage ObjectStorage, broadcaster Broadcaster, users UserLookup, maxAttachmentBytes int64, logger *slog.Logger) Service {
	return &service{
		rooms:       rooms,
		messages:    messages,
		storage:     storage,
		broadcaster: broadcaster,
		users:       users,
		maxAttach:   maxAttachmentBytes,
		logger:      logger.With("component", "chat_service"),
	}
}

func (s *service) GetOrCreateRoom(ctx context.Context, a, b int64) (Room, error) {
	if a <= 0 || b <= 0 {
		return Room{}, apperrors.Wrap("invalid_input", "both user ids are required", nil)
	}
	if a == b {
		return Room{}, apperrors.Wrap("invalid_input", "a room needs two distinct users", nil)
	}
	for _, userNo := range []int64{a, b} {
		ok, err := s.users.Exists(ctx, userNo)
		if err != nil {
			return Room{}, apperrors.Wrap("store_unavailable", "look up user", err)
		}
		if !ok {
			return Room{}, apperrors.Wrap("not_found", fmt.Sprintf("user %d does not exist", userNo), nil)
		}
	}

	room, ok, err := s.rooms.FindByMembers(ctx, a, b)
	if err != nil {
		return Room{}, apperrors.Wrap("store_unavailable", "look up room", err)
	}
	if ok {
		return room, nil
	}

	room = Room{ID: uuid.New(), Members: [2]int64{a, b}, CreatedAt: time.Now().UTC()}
	if err := s.rooms.Create(ctx, room); err != nil {
		// Lost a race against a concurrent get-room for the same pair.
		if existing, ok2, err2 := s.rooms.FindByMembers(ctx, a, b); err2 == nil && ok2 {
			return existing, nil
		}
		return Room{}, apperrors.Wrap("store_unavailable", "create room", err)
	}
	s.logger.Info("room created", "room_id", room.ID, "users", room.Members)
	return room, nil
}

func (s *service) SendMessage(ctx context.Context, req SendMessageRequest) (Message, error) {
	if req.Sender <= 0 {
		return Message{}, apperrors.Wrap("invalid_input", "sender is required", nil)
	}
	if req.Type == "" {
		req.Type = MessageTypeText
	}
	switch req.Type {
	case MessageTypeText:
		if strings.TrimSpace(req.Content) == "" {
			return Message{}, apperrors.Wrap("invalid_input", "message content is required", nil)
		}
	case MessageTypeImage, MessageTypePDF:
		if req.Attachment == nil || len(req.Attachment.Data) == 0 {
			return Message{}, apperrors.Wrap("invalid_input", "attachment is required for "+string(req.Type)+" messages", nil)
		}
		if s.maxAttach > 0 && int64(len(req.Attachment.Data)) > s.maxAttach {
			return Message{}, apperrors.Wrap("invalid_input", "attachment exceeds the size limit", nil)
		}
	default:
		return Message{}, apperrors.Wrap("invalid_input", "unknown message type "+string(req.Type), nil)
	}

	room, ok, err := s.rooms.Get(ctx, req.RoomID)
	if err != nil {
		return Message{}, apperrors.Wrap("store_unavailable", "look up room", err)
	}
	if !ok {
		return Message{}, apperrors.Wrap("not_found", "room does not exist", nil)
	}
	if !room.HasMember(req.Sender) {
		return Message{}, apperrors.Wrap("forbidden", "sender is not a member of the room", nil)
	}

	msg := Message{
		ID:      uuid.New(),
		RoomID:  room.ID,
		Sender:  req.Sender,
		Content: req.Content,
		Type:    req.Type,
		SentAt:  time.Now().UTC(),
	}
	if req.Attachment != nil {
		key := attachmentKey(room.ID, msg.ID, req.Attachment.Filename)
		stored, err := s.storage.Put(ctx, key, req.Attachment.Data, req.Attachment.MimeType)
		if err != nil {
			return Message{}, apperrors.Wrap("store_unavailable", "store attachment", err)
		}
		msg.Content = stored
	}

	if err := s.messages.Append(ctx, msg); err != nil {
		return Message{}, apperrors.Wrap("store_unavailable", "store message", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(room.ID, EventNewMessage, msg)
	}
	return msg, nil
}

func (s *service) Messages(ctx context.Context, roomID uuid.UUID) ([]Message, error) {
	if _, ok, err := s.rooms.Get(ctx, roomID); err != nil {
		return nil, apperrors.Wrap("store_unavailable", "look up room", err)
	} else if !ok {
		return nil, apperrors.Wrap("not_found", "room does not exist", nil)
	}
	msgs, err := s.messages.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, apperrors.Wrap("store_unavailable", "list messages", err)
	}
	return msgs, nil
}

func (s *service) LastMessage(ctx context.Context, roomID uuid.UUID) (Message, bool, error) {
	if _, ok, err := s.rooms.Get(ctx, roomID); err != nil {
		return Message{}, false, apperrors.Wrap("store_unavailable", "look up room", err)
	} else if !ok {
		return Message{}, false, apperrors.Wrap("not_found", "room does not exist", nil)
	}
	msg, ok, err := s.messages.LastByRoom(ctx, roomID)
	if err != nil {
		return Message{}, false, apperrors.Wrap("store_unavailable", "load last message", err)
	}
	return msg, ok, nil
}

func attachmentKey(roomID, msgID uuid.UUID, filename string) string {
	name := path.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == "/" {
		name = "attachment"
	}
	return fmt.Sprintf("rooms/%s/%s-%s", roomID, msgID, name)
}
