package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/sentinelai/sentinel-core/internal/models"
)

const sessionTTL = 24 * time.Hour

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects a single-node Redis cache.
func NewRedis(addr, password string, db int, defaultTTL time.Duration) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisCache{client: client, ttl: defaultTTL}, nil
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	return data, err
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCache) GetSession(ctx context.Context, sessionID string) (*models.UserSession, error) {
	data, err := r.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, err
	}
	var session models.UserSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *redisCache) SetSession(ctx context.Context, session *models.UserSession) error {
	session.LastActivity = time.Now()
	return r.Set(ctx, sessionKey(session.ID), session, sessionTTL)
}

func (r *redisCache) InvalidateSession(ctx context.Context, sessionID string) error {
	return r.Delete(ctx, sessionKey(sessionID))
}

func sessionKey(id string) string {
	return "session:" + id
}
