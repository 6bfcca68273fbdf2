package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zwinglabs/support-chat/internal/domain/user"
)

// CreateUser handles POST /api/users/create.
func (h *Handler) CreateUser(c *gin.Context) {
	var req user.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "malformed request body", err))
		return
	}
	created, err := h.userSvc.Create(c.Request.Context(), req)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	respond(c, http.StatusCreated, "user created", created)
}

// Login handles POST /api/users/login.
func (h *Handler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "malformed request body", err))
		return
	}
	found, err := h.userSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "login successful", found)
}

// FetchUsers handles GET /api/users/fetch-users.
func (h *Handler) FetchUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		abortDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "users fetched", users)
}
