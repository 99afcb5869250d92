package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sentinelai/sentinel-core/internal/api/middleware"
	"github.com/sentinelai/sentinel-core/internal/config"
	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/internal/storage"
	"github.com/sentinelai/sentinel-core/pkg/cache"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

type AuthHandler struct {
	users    storage.UserStore
	sessions cache.Cache
	config   config.AuthConfig
	logger   logger.Logger
}

func NewAuthHandler(users storage.UserStore, sessions cache.Cache, cfg config.AuthConfig, logger logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, config: cfg, logger: logger}
}

// POST /api/auth/login - verify credentials, mint a session and a JWT
// carrying its id
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.unauthorized(c)
			return
		}
		h.logger.Error("User lookup failed", "username", req.Username, "error", err)
		internalError(c)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		h.unauthorized(c)
		return
	}

	now := time.Now().UTC()
	session := &models.UserSession{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		CreatedAt:    now,
		LastActivity: now,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	}
	if err := h.sessions.SetSession(c.Request.Context(), session); err != nil {
		h.logger.Error("Failed to store session", "error", err)
		internalError(c)
		return
	}

	claims := jwt.MapClaims{
		"sub": user.Username,
		"sid": session.ID,
		"iat": now.Unix(),
		"exp": middleware.ExpiresAt(h.config, now).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.config.JWTSecret))
	if err != nil {
		h.logger.Error("Failed to sign token", "error", err)
		internalError(c)
		return
	}

	h.logger.Info("User logged in", "username", user.Username, "session_id", session.ID)
	c.JSON(http.StatusOK, models.Token{AccessToken: token, TokenType: "bearer"})
}

// GET /api/auth/me - the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := c.Get("user_id")
	if !ok {
		h.unauthorized(c)
		return
	}
	id, _ := userID.(int64)
	if id == 0 {
		h.unauthorized(c)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.unauthorized(c)
			return
		}
		h.logger.Error("User lookup failed", "user_id", id, "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": user})
}

// POST /api/auth/logout - drop the cached session so the token stops
// validating
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, ok := c.Get("session_id")
	if ok {
		if id, _ := sessionID.(string); id != "" {
			if err := h.sessions.InvalidateSession(c.Request.Context(), id); err != nil {
				h.logger.Warn("Failed to invalidate session", "session_id", id, "error", err)
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"message": "Logged out"}})
}

func (h *AuthHandler) unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "error": "Invalid username or password"})
}
