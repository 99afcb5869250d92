package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sentinelai/sentinel-core/internal/models"
)

// memoryCache is a process-local Cache used when no redis address is
// configured (dev and tests). Entries expire lazily on read.
type memoryCache struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	sessions map[string]models.UserSession
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemory() Cache {
	return &memoryCache{
		entries:  make(map[string]memoryEntry),
		sessions: make(map[string]models.UserSession),
	}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok || (!entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt)) {
		delete(m.entries, key)
		return nil, ErrCacheMiss
	}
	return entry.data, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{data: data, expiresAt: expiresAt}
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) GetSession(ctx context.Context, sessionID string) (*models.UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrCacheMiss
	}
	return &session, nil
}

func (m *memoryCache) SetSession(ctx context.Context, session *models.UserSession) error {
	session.LastActivity = time.Now()
	m.mu.Lock()
	m.sessions[session.ID] = *session
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) InvalidateSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}
