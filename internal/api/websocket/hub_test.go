package websocket

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

type fakeConn struct {
	writes  []interface{}
	failOn  int // fail every write when > 0 and write index >= failOn
	written int
	closed  bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.written++
	if f.failOn > 0 && f.written >= f.failOn {
		return errors.New("write: broken pipe")
	}
	f.writes = append(f.writes, v)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (f *fakeConn) Close() error                     { f.closed = true; return nil }

func newTestHub() *Hub {
	return NewHub(time.Second, logger.NewNop())
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := newTestHub()
	c := &fakeConn{}

	h.Register(c)
	assert.Equal(t, 1, h.Count())

	h.Unregister(c)
	assert.Equal(t, 0, h.Count())

	// idempotent
	h.Unregister(c)
	assert.Equal(t, 0, h.Count())
}

func TestHub_BroadcastReachesAllSubscribers(t *testing.T) {
	h := newTestHub()
	conns := []*fakeConn{{}, {}, {}}
	for _, c := range conns {
		h.Register(c)
	}

	h.BroadcastEventCreated(&models.Event{
		ID:          1,
		EventID:     "evt-1",
		Title:       "suspicious completion",
		Severity:    models.SeverityHigh,
		Status:      models.EventStatusOpen,
		TriggerDate: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	})

	for _, c := range conns {
		require.Len(t, c.writes, 1)
		msg, ok := c.writes[0].(Message)
		require.True(t, ok)
		assert.Equal(t, MessageNewEvent, msg.Type)
		payload := msg.Event.(map[string]interface{})
		assert.Equal(t, "evt-1", payload["event_id"])
		assert.Equal(t, "2024-01-01T10:00:00Z", payload["trigger_date"])
	}
	assert.Equal(t, 3, h.Count())
}

func TestHub_BroadcastPrunesOnlyFailingConnections(t *testing.T) {
	h := newTestHub()
	ok1 := &fakeConn{}
	bad := &fakeConn{failOn: 1}
	ok2 := &fakeConn{}
	h.Register(ok1)
	h.Register(bad)
	h.Register(ok2)

	h.BroadcastEventUpdated(&models.Event{ID: 5, Status: models.EventStatusAcknowledged})

	// delivery attempted at every member; exactly the failing one removed
	assert.Len(t, ok1.writes, 1)
	assert.Len(t, ok2.writes, 1)
	assert.Empty(t, bad.writes)
	assert.True(t, bad.closed)
	assert.Equal(t, 2, h.Count())

	// a later broadcast no longer touches the pruned member
	h.BroadcastEventUpdated(&models.Event{ID: 5, Status: models.EventStatusResolved})
	assert.Equal(t, 1, bad.written)
	assert.Len(t, ok1.writes, 2)
}

func TestHub_BroadcastAllFailLeavesEmptyRegistry(t *testing.T) {
	h := newTestHub()
	for i := 0; i < 4; i++ {
		h.Register(&fakeConn{failOn: 1})
	}

	h.BroadcastEventCreated(&models.Event{ID: 9, EventID: "evt-9", TriggerDate: time.Now()})
	assert.Equal(t, 0, h.Count())
}

func TestHub_EventUpdatedPayloadShape(t *testing.T) {
	h := newTestHub()
	c := &fakeConn{}
	h.Register(c)

	actor := int64(12)
	h.BroadcastEventUpdated(&models.Event{
		ID:             7,
		Status:         models.EventStatusAcknowledged,
		AcknowledgedBy: &actor,
	})

	require.Len(t, c.writes, 1)
	msg := c.writes[0].(Message)
	assert.Equal(t, MessageEventUpdated, msg.Type)
	payload := msg.Event.(map[string]interface{})
	assert.Equal(t, int64(7), payload["id"])
	assert.Equal(t, models.EventStatusAcknowledged, payload["status"])
	assert.Equal(t, &actor, payload["acknowledged_by"])
}
