package chat

import (
	"context"

	"github.com/google/uuid"
)

// RoomRepository persists rooms. Member pairs are unordered: FindByMembers
// must locate the room regardless of the order the two numbers arrive in.
type RoomRepository interface {
	FindByMembers(ctx context.Context, a, b int64) (Room, bool, error)
	Create(ctx context.Context, room Room) error
	Get(ctx context.Context, id uuid.UUID) (Room, bool, error)
}

// MessageRepository persists messages in send order.
type MessageRepository interface {
	Append(ctx context.Context, msg Message) error
	// ListByRoom returns all messages in the room, oldest first.
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]Message, error)
	// LastByRoom returns the newest message, or ok=false when the room is empty.
	LastByRoom(ctx context.Context, roomID uuid.UUID) (Message, bool, error)
}

// ObjectStorage stores message attachments and returns the stored object key.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Broadcaster fans an event out to every connection subscribed to a room.
type Broadcaster interface {
	Broadcast(roomID uuid.UUID, event string, payload any)
}

// UserLookup answers whether a public user number exists.
type UserLookup interface {
	Exists(ctx context.Context, userNo int64) (bool, error)
}
