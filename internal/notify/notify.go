// Package notify keeps short-lived, per-recipient notifications: the toasts a
// dashboard user sees once and then loses.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})

type Config struct {
	TTL          time.Duration
	PerRecipient int
}

// Center buffers notifications per recipient. Entries older than TTL are
// dropped on read, and each recipient keeps at most PerRecipient entries.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	limit   int
	pending map[string][]Notification
	swept   time.Time
	log     zerolog.Logger
	now     func() time.Time
}

func NewCenter(cfg Config, log zerolog.Logger) *Center {
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Minute
	}
	if cfg.PerRecipient <= 0 {
		cfg.PerRecipient = 20
	}
	return &Center{
		ttl:     cfg.TTL,
		limit:   cfg.PerRecipient,
		pending: make(map[string][]Notification),
		log:     log,
		now:     time.Now,
	}
}

// For binds the center to one recipient.
func (c *Center) For(recipient string) Notifier {
	return NotifierFunc(func(n Notification) {
		c.Push(recipient, n)
	})
}

func (c *Center) Push(recipient string, n Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Level == "" {
		n.Level = LevelInfo
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = c.now().UTC()
	}
	c.log.Debug().
		Str("recipient", recipient).
		Str("level", string(n.Level)).
		Str("title", n.Title).
		Msg("notification queued")

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep()
	queue := c.fresh(c.pending[recipient])
	queue = append(queue, n)
	if len(queue) > c.limit {
		queue = queue[len(queue)-c.limit:]
	}
	c.pending[recipient] = queue
}

// Drain returns and forgets every live notification for recipient, oldest
// first. It never returns nil.
func (c *Center) Drain(recipient string) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	queue := c.fresh(c.pending[recipient])
	delete(c.pending, recipient)
	if queue == nil {
		return []Notification{}
	}
	return queue
}

// sweep drops expired queues of every recipient, at most once per TTL.
func (c *Center) sweep() {
	now := c.now()
	if now.Sub(c.swept) < c.ttl {
		return
	}
	c.swept = now
	for recipient, queue := range c.pending {
		if live := c.fresh(queue); len(live) > 0 {
			c.pending[recipient] = live
		} else {
			delete(c.pending, recipient)
		}
	}
}

func (c *Center) fresh(queue []Notification) []Notification {
	cutoff := c.now().Add(-c.ttl)
	var out []Notification
	for _, n := range queue {
		if n.CreatedAt.After(cutoff) {
			out = append(out, n)
		}
	}
	return out
}
