// Package notification is the transient toast center. Mutations post a
// pending toast that later resolves to success or error in the same visual
// slot; failed queries post a one-shot error toast.
package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "pending"
	}
}

type Notification struct {
	ID         string
	Status     Status
	Message    string
	CreatedAt  time.Time
	ResolvedAt time.Time
}

type Center struct {
	mu      sync.Mutex
	items   map[string]*Notification
	order   []string
	subs    map[int]func(Notification)
	nextSub int
	limit   int
}

func NewCenter() *Center {
	return &Center{
		items: make(map[string]*Notification),
		subs:  make(map[int]func(Notification)),
		limit: 50,
	}
}

// Pending posts a toast in the pending state and returns its id for the
// in-place resolution.
func (c *Center) Pending(message string) string {
	return c.push(StatusPending, message)
}

// Error posts an already-failed toast (queries have no pending phase).
func (c *Center) Error(message string) string {
	return c.push(StatusError, message)
}

// Success posts an already-resolved toast, for events with no pending phase.
func (c *Center) Success(message string) string {
	return c.push(StatusSuccess, message)
}

// Resolve transitions a pending toast to success or error in place. Unknown
// ids are ignored; a toast resolves at most once.
func (c *Center) Resolve(id string, success bool, message string) {
	c.mu.Lock()
	n, ok := c.items[id]
	if !ok || n.Status != StatusPending {
		c.mu.Unlock()
		return
	}
	if success {
		n.Status = StatusSuccess
	} else {
		n.Status = StatusError
	}
	if message != "" {
		n.Message = message
	}
	n.ResolvedAt = time.Now()
	snapshot := *n
	c.mu.Unlock()
	c.publish(snapshot)
}

// Recent returns up to n notifications, newest first.
func (c *Center) Recent(n int) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, 0, n)
	for i := len(c.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, *c.items[c.order[i]])
	}
	return out
}

// Subscribe registers fn for every posted or resolved notification. The
// returned func cancels the subscription.
func (c *Center) Subscribe(fn func(Notification)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Center) push(status Status, message string) string {
	n := &Notification{
		ID:        uuid.NewString(),
		Status:    status,
		Message:   message,
		CreatedAt: time.Now(),
	}
	c.mu.Lock()
	c.items[n.ID] = n
	c.order = append(c.order, n.ID)
	if len(c.order) > c.limit {
		drop := c.order[0]
		c.order = c.order[1:]
		delete(c.items, drop)
	}
	snapshot := *n
	c.mu.Unlock()
	c.publish(snapshot)
	return n.ID
}

func (c *Center) publish(n Notification) {
	c.mu.Lock()
	fns := make([]func(Notification), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(n)
	}
}
