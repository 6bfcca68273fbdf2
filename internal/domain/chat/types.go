package chat

import (
	"time"

	"github.com/google/uuid"
)

// MessageType classifies message content.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypePDF   MessageType = "pdf"
)

// Room is a two-party conversation keyed by the members' public user numbers.
type Room struct {
	ID        uuid.UUID `json:"id"`
	Members   [2]int64  `json:"users"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasMember reports whether the user number belongs to the room.
func (r Room) HasMember(userNo int64) bool {
	return r.Members[0] == userNo || r.Members[1] == userNo
}

// Message is a single chat turn. Content holds the text body, or the storage
// key for image/pdf messages.
type Message struct {
	ID      uuid.UUID   `json:"id"`
	RoomID  uuid.UUID   `json:"roomId"`
	Sender  int64       `json:"sender"`
	Content string      `json:"content"`
	Type    MessageType `json:"type"`
	SentAt  time.Time   `json:"timestamp"`
}

// Attachment carries an uploaded file alongside a message.
type Attachment struct {
	Filename string
	MimeType string
	Data     []byte
}

// SendMessageRequest captures the send-message payload.
type SendMessageRequest struct {
	RoomID     uuid.UUID
	Sender     int64
	Content    string
	Type       MessageType
	Attachment *Attachment
}
