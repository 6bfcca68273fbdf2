package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zwinglabs/support-chat/internal/domain/chat"
)

type getRoomPayload struct {
	User1 int64 `json:"user1"`
	User2 int64 `json:"user2"`
}

// GetRoom handles POST /api/chat/get-room.
func (h *Handler) GetRoom(c *gin.Context) {
	var req getRoomPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "malformed request body", err))
		return
	}
	room, err := h.chatSvc.GetOrCreateRoom(c.Request.Context(), req.User1, req.User2)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "room retrieved successfully", room)
}

// SendMessage handles POST /api/chat/send-message. Text messages arrive as
// JSON; attachments as multipart with the same field names plus a file part.
func (h *Handler) SendMessage(c *gin.Context) {
	req, httpErr := parseSendMessage(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}
	msg, err := h.chatSvc.SendMessage(c.Request.Context(), req)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "message sent successfully", msg)
}

// FetchMessages handles GET /api/chat/fetch-messages.
func (h *Handler) FetchMessages(c *gin.Context) {
	roomID, httpErr := roomIDParam(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}
	msgs, err := h.chatSvc.Messages(c.Request.Context(), roomID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "messages fetched successfully", msgs)
}

// LastMessage handles GET /api/chat/last-message.
func (h *Handler) LastMessage(c *gin.Context) {
	roomID, httpErr := roomIDParam(c)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}
	msg, ok, err := h.chatSvc.LastMessage(c.Request.Context(), roomID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	if !ok {
		respond(c, http.StatusOK, "room has no messages yet", nil)
		return
	}
	respond(c, http.StatusOK, "last message fetched successfully", msg)
}

func roomIDParam(c *gin.Context) (uuid.UUID, *HTTPError) {
	roomID, err := uuid.Parse(c.Query("roomId"))
	if err != nil {
		return uuid.Nil, NewHTTPError(http.StatusBadRequest, "invalid_input", "roomId is required", err)
	}
	return roomID, nil
}

type sendMessagePayload struct {
	RoomID  string           `json:"roomId" form:"roomId"`
	Sender  int64            `json:"sender" form:"sender"`
	Content string           `json:"content" form:"content"`
	Type    chat.MessageType `json:"type" form:"type"`
}

func parseSendMessage(c *gin.Context) (chat.SendMessageRequest, *HTTPError) {
	var payload sendMessagePayload
	var attachment *chat.Attachment

	if fileHeader, err := c.FormFile("file"); err == nil {
		if err := c.ShouldBind(&payload); err != nil {
			return chat.SendMessageRequest{}, NewHTTPError(http.StatusBadRequest, "invalid_input", "malformed form fields", err)
		}
		file, err := fileHeader.Open()
		if err != nil {
			return chat.SendMessageRequest{}, NewHTTPError(http.StatusBadRequest, "invalid_input", "failed to read upload", err)
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return chat.SendMessageRequest{}, NewHTTPError(http.StatusInternalServerError, "internal_error", "failed to read file", err)
		}
		attachment = &chat.Attachment{
			Filename: fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Data:     data,
		}
	} else if err := c.ShouldBindJSON(&payload); err != nil {
		return chat.SendMessageRequest{}, NewHTTPError(http.StatusBadRequest, "invalid_input", "malformed request body", err)
	}

	roomID, err := uuid.Parse(payload.RoomID)
	if err != nil {
		return chat.SendMessageRequest{}, NewHTTPError(http.StatusBadRequest, "invalid_input", "roomId is required", err)
	}
	return chat.SendMessageRequest{
		RoomID:     roomID,
		Sender:     payload.Sender,
		Content:    payload.Content,
		Type:       payload.Type,
		Attachment: attachment,
	}, nil
}
