package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/agrotalent/talent-hub/internal/api/auth"
	"github.com/agrotalent/talent-hub/internal/api/domain"
	"github.com/agrotalent/talent-hub/internal/api/dto"
	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/gin-gonic/gin"
)

// Context keys set by the admin token middleware
const (
	ContextAdminID    = "admin_id"
	ContextAdminEmail = "admin_email"
)

type AuthHandler struct {
	deps   *Dependencies
	logger *slog.Logger
}

func NewAuthHandler(deps *Dependencies) *AuthHandler {
	return &AuthHandler{deps: deps, logger: deps.Logger}
}

// Login handles POST /api/v1/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	email := intake.NormalizeEmail(req.Email)
	admin, err := h.deps.Admins.GetAdminByEmail(c.Request.Context(), email)
	if err != nil && !errors.Is(err, domain.ErrAdminNotFound) {
		h.logger.Error("Failed to load admin", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}
	if admin == nil || !auth.CheckPassword(admin.PasswordHash, req.Password) {
		h.logger.Warn("Rejected admin login", slog.String("email", email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidCredentials.Error()})
		return
	}

	token, expires, err := h.deps.Tokens.Issue(admin.ID, admin.Email)
	if err != nil {
		h.logger.Error("Failed to issue token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	h.logger.Info("Admin signed in", slog.String("email", admin.Email))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expires.UTC().Format(time.RFC3339)})
}
