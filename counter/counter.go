// Package counter provides a subject that broadcasts an increasing count.
package counter

import (
	"github.com/lemmego/observer/event"
)

// Counter is a Subject[int] that broadcasts its count after every Update.
type Counter struct {
	*event.Subject[int]
	count int
}

func New(opts ...event.Option) *Counter {
	return &Counter{Subject: event.NewSubject[int](opts...)}
}

// Update increments the count and broadcasts the new value. The count is
// kept even if a listener fails.
func (c *Counter) Update() error {
	c.count++
	return c.Notify(c.count)
}

func (c *Counter) Count() int {
	return c.count
}

// Replay sends the current count to the observer registered under id
// only. Re-registering never replays on its own; callers that want a
// late joiner to catch up call this explicitly.
func (c *Counter) Replay(id event.ID) error {
	return c.NotifyOne(id, c.count)
}
