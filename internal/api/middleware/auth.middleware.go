package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sentinelai/sentinel-core/internal/config"
	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/pkg/cache"
)

// AuthMiddleware validates the bearer JWT and resolves its cached session.
func AuthMiddleware(authConfig config.AuthConfig, sessions cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Authentication required",
			})
			c.Abort()
			return
		}

		session, err := validateToken(c, token, authConfig, sessions)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Invalid authentication token",
			})
			c.Abort()
			return
		}

		session.IPAddress = c.ClientIP()
		session.UserAgent = c.Request.UserAgent()
		// refresh last-activity; a failed refresh never fails the request
		_ = sessions.SetSession(c.Request.Context(), session)

		c.Set("session", session)
		c.Set("session_id", session.ID)
		c.Set("user_id", session.UserID)
		c.Set("username", session.Username)
		c.Set("role", string(session.Role))

		c.Next()
	}
}

// NoAuthMiddleware installs an anonymous context when auth is disabled.
func NoAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", int64(0))
		c.Set("username", "anonymous")
		c.Set("role", string(models.RoleViewer))
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	// query parameter fallback for WebSocket upgrades
	if queryToken := c.Query("token"); queryToken != "" {
		return queryToken
	}

	return ""
}

func validateToken(c *gin.Context, token string, authConfig config.AuthConfig, sessions cache.Cache) (*models.UserSession, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(authConfig.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	sessionID, _ := claims["sid"].(string)
	if sessionID == "" {
		return nil, errors.New("token carries no session")
	}

	session, err := sessions.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}
	return session, nil
}

func isPublicEndpoint(path string) bool {
	publicEndpoints := []string{
		"/",
		"/health",
		"/metrics",
		"/api/auth/login",
	}
	for _, endpoint := range publicEndpoints {
		if path == endpoint {
			return true
		}
	}
	return false
}

// ExpiresAt computes the token expiry from config.
func ExpiresAt(authConfig config.AuthConfig, now time.Time) time.Time {
	return now.Add(time.Duration(authConfig.ExpiryMinutes) * time.Minute)
}
