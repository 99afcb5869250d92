package cache

import (
	"context"
	"errors"
	"time"

	"github.com/sentinelai/sentinel-core/internal/models"
)

// ErrCacheMiss is returned when a key or session is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache backs login sessions and short-lived dashboard query results.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	GetSession(ctx context.Context, sessionID string) (*models.UserSession, error)
	SetSession(ctx context.Context, session *models.UserSession) error
	InvalidateSession(ctx context.Context, sessionID string) error
}
