package ws

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/zwinglabs/support-chat/internal/domain/chat"
)

// Handler upgrades HTTP requests into hub-managed websocket connections.
type Handler struct {
	hub      *Hub
	chats    chat.Service
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler constructs the handler. allowedOrigins of ["*"] accepts any
// origin.
func NewHandler(hub *Hub, chats chat.Service, allowedOrigins []string, logger *slog.Logger) *Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	allowAll := false
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = struct{}{}
	}
	return &Handler{
		hub:   hub,
		chats: chats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 << 10,
			WriteBufferSize: 4 << 10,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		logger: logger.With("component", "ws.handler"),
	}
}

// Serve handles GET /ws.
func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := newClient(h.hub, h.chats, conn, h.logger)
	client.run(c.Request.Context())
}
