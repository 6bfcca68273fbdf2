package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/zwinglabs/support-chat/internal/domain/chat"
	"github.com/zwinglabs/support-chat/internal/domain/faq"
	"github.com/zwinglabs/support-chat/internal/domain/user"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	userSvc user.Service
	chatSvc chat.Service
	faqSvc  faq.Service
	faqCfg  faq.Config
	logger  *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(userSvc user.Service, chatSvc chat.Service, faqSvc faq.Service, faqCfg faq.Config, logger *slog.Logger) *Handler {
	return &Handler{
		userSvc: userSvc,
		chatSvc: chatSvc,
		faqSvc:  faqSvc,
		faqCfg:  faqCfg,
		logger:  logger.With("component", "http.handler"),
	}
}

// respond renders the envelope the frontend expects on every success path.
func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}
