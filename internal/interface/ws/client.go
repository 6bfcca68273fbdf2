package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zwinglabs/support-chat/internal/domain/chat"
	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameBytes  = 64 << 10
	sendBufferSize = 32
)

// Client events understood by the read loop.
const (
	eventJoinRoom    = "joinRoom"
	eventTyping      = "typing"
	eventSendMessage = "sendMessage"
	eventError       = "error"
)

type joinRoomPayload struct {
	RoomID uuid.UUID `json:"roomId"`
}

type typingPayload struct {
	RoomID uuid.UUID `json:"roomId"`
	Sender int64     `json:"sender"`
	Typing bool      `json:"typing"`
}

type sendMessagePayload struct {
	RoomID  uuid.UUID `json:"roomId"`
	Sender  int64     `json:"sender"`
	Content string    `json:"content"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client is one websocket connection.
type Client struct {
	hub    *Hub
	chats  chat.Service
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	logger *slog.Logger

	closeOnce sync.Once
}

func newClient(hub *Hub, chats chat.Service, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		hub:    hub,
		chats:  chats,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger.With("component", "ws.client"),
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// run pumps frames in both directions until the connection dies.
func (c *Client) run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.leaveAll(c)
		c.close()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket closed unexpectedly", "error", err)
			}
			return
		}
		var frame Envelope
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.sendError("invalid_input", "malformed frame")
			continue
		}
		c.handleFrame(ctx, frame)
	}
}

func (c *Client) handleFrame(ctx context.Context, frame Envelope) {
	switch frame.Event {
	case eventJoinRoom:
		var payload joinRoomPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil || payload.RoomID == uuid.Nil {
			c.sendError("invalid_input", "joinRoom requires a roomId")
			return
		}
		c.hub.join(payload.RoomID, c)
	case eventTyping:
		var payload typingPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil || payload.RoomID == uuid.Nil {
			return
		}
		c.hub.BroadcastExcept(payload.RoomID, c, eventTyping, payload)
	case eventSendMessage:
		var payload sendMessagePayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			c.sendError("invalid_input", "malformed sendMessage payload")
			return
		}
		// Persisting also broadcasts newMessage to the room through the hub.
		_, err := c.chats.SendMessage(ctx, chat.SendMessageRequest{
			RoomID:  payload.RoomID,
			Sender:  payload.Sender,
			Content: payload.Content,
			Type:    chat.MessageTypeText,
		})
		if err != nil {
			c.sendError(apperrors.Code(err), "could not send message")
		}
	default:
		c.sendError("invalid_input", "unknown event "+frame.Event)
	}
}

func (c *Client) sendError(code, message string) {
	data, err := json.Marshal(errorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	frame, err := json.Marshal(Envelope{Event: eventError, Data: data})
	if err != nil {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}
