package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sentinelai/sentinel-core/internal/api/middleware"
	"github.com/sentinelai/sentinel-core/internal/config"
	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/pkg/cache"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *fakeUserStore) {
	t.Helper()
	cfg := config.AuthConfig{Enabled: true, JWTSecret: "test-secret", ExpiryMinutes: 30}
	sessions := cache.NewMemory()
	users := newFakeUserStore()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	users.users = append(users.users, models.User{
		ID:             1,
		Username:       "admin",
		Email:          "admin@example.com",
		HashedPassword: string(hash),
		Role:           models.RoleAdmin,
	})

	h := NewAuthHandler(users, sessions, cfg, logger.NewNop())
	router := gin.New()
	router.Use(middleware.AuthMiddleware(cfg, sessions))
	router.POST("/api/auth/login", h.Login)
	router.GET("/api/auth/me", h.Me)
	router.POST("/api/auth/logout", h.Logout)
	return router, users
}

func login(t *testing.T, router *gin.Engine, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(gin.H{"username": username, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authedRequest(t *testing.T, router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginIssuesToken(t *testing.T) {
	router, _ := newAuthRouter(t)

	w := login(t, router, "admin", "secret123")
	require.Equal(t, http.StatusOK, w.Code)

	var token models.Token
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := newAuthRouter(t)

	w := login(t, router, "admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = login(t, router, "nobody", "secret123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeReturnsAuthenticatedUser(t *testing.T) {
	router, _ := newAuthRouter(t)

	w := login(t, router, "admin", "secret123")
	require.Equal(t, http.StatusOK, w.Code)
	var token models.Token
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))

	w = authedRequest(t, router, http.MethodGet, "/api/auth/me", token.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "admin", data["username"])
	assert.Equal(t, "admin", data["role"])
	_, leaked := data["hashed_password"]
	assert.False(t, leaked)
}

func TestMeRejectsMissingToken(t *testing.T) {
	router, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	router, _ := newAuthRouter(t)

	w := login(t, router, "admin", "secret123")
	require.Equal(t, http.StatusOK, w.Code)
	var token models.Token
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))

	w = authedRequest(t, router, http.MethodPost, "/api/auth/logout", token.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	// the token still parses but its session is gone
	w = authedRequest(t, router, http.MethodGet, "/api/auth/me", token.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
