package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCenter(cfg Config, clock *time.Time) *Center {
	c := NewCenter(cfg, zerolog.Nop())
	c.now = func() time.Time { return *clock }
	return c
}

func TestDrainReturnsOnce(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	c := newTestCenter(Config{}, &now)

	c.For("p-1").Notify(Notification{Level: LevelError, Title: "Load failed", Message: "timeout"})

	got := c.Drain("p-1")
	require.Len(t, got, 1)
	assert.Equal(t, "timeout", got[0].Message)
	assert.NotEmpty(t, got[0].ID)
	assert.Empty(t, c.Drain("p-1"))
	assert.NotNil(t, c.Drain("nobody"))
}

func TestRecipientsAreIsolated(t *testing.T) {
	now := time.Now()
	c := newTestCenter(Config{}, &now)
	c.Push("a", Notification{Message: "for a"})
	c.Push("b", Notification{Message: "for b"})

	got := c.Drain("a")
	require.Len(t, got, 1)
	assert.Equal(t, "for a", got[0].Message)
	assert.Equal(t, LevelInfo, got[0].Level)
	assert.Len(t, c.Drain("b"), 1)
}

func TestExpiredNotificationsAreDropped(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	c := newTestCenter(Config{TTL: time.Minute}, &now)
	c.Push("p", Notification{Message: "old"})

	now = now.Add(2 * time.Minute)
	c.Push("p", Notification{Message: "new"})

	got := c.Drain("p")
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Message)
}

func TestQueueIsCapped(t *testing.T) {
	now := time.Now()
	c := newTestCenter(Config{PerRecipient: 3}, &now)
	for i := 0; i < 5; i++ {
		c.Push("p", Notification{Message: fmt.Sprintf("n%d", i)})
	}
	got := c.Drain("p")
	require.Len(t, got, 3)
	assert.Equal(t, "n2", got[0].Message)
	assert.Equal(t, "n4", got[2].Message)
}

func TestPushSweepsIdleRecipients(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	c := newTestCenter(Config{TTL: time.Minute}, &now)

	c.Push("idle", Notification{Message: "never drained"})
	c.Push("busy", Notification{Message: "first"})
	require.Len(t, c.pending, 2)

	now = now.Add(2 * time.Minute)
	c.Push("busy", Notification{Message: "second"})

	assert.NotContains(t, c.pending, "idle")
	got := c.Drain("busy")
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Message)
	assert.Empty(t, c.pending)
}
