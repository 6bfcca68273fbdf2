package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zwinglabs/support-chat/internal/infra/config"
	"github.com/zwinglabs/support-chat/internal/interface/ws"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, wsHandler *ws.Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	users := router.Group("/api/users")
	{
		users.POST("/create", handler.CreateUser)
		users.POST("/login", handler.Login)
		users.GET("/fetch-users", handler.FetchUsers)
	}

	chats := router.Group("/api/chat")
	{
		chats.POST("/get-room", handler.GetRoom)
		chats.POST("/send-message", handler.SendMessage)
		chats.GET("/fetch-messages", handler.FetchMessages)
		chats.GET("/last-message", handler.LastMessage)
	}

	ai := router.Group("/api/ai")
	{
		ai.POST("/upload-pdf", handler.UploadPDF)
		ai.POST("/chat", handler.AIChat)
		ai.GET("/faqs", handler.ListFAQs)
		ai.GET("/trending", handler.Trending)
	}

	router.GET("/ws", wsHandler.Serve)

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
