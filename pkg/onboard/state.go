// File: pkg/onboard/state.go
package onboard

import "go.uber.org/zap"

// Event is one observable state change: completion (with the collected
// mapping, possibly nil) or a reset.
type Event struct {
	Completed bool
	Data      map[string]string
}

// subscriberBuffer bounds each subscription channel. Publishes never block
// the completion path; a saturated subscriber drops events instead.
const subscriberBuffer = 4

// Subscribe registers an observer of state changes. The returned cancel
// function removes the subscription and closes the channel; it is safe to
// call more than once. At most one event is delivered per completion or
// reset.
func (c *Client) Subscribe() (<-chan Event, func()) {
	if !c.ready() {
		closed := make(chan Event)
		close(closed)
		return closed, func() {}
	}

	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	ch := make(chan Event, subscriberBuffer)
	c.subs[id] = ch
	c.mu.Unlock()

	return ch, func() {
		c.mu.Lock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
		c.mu.Unlock()
	}
}

// publish delivers an event to every subscriber without blocking. The sends
// happen under the read lock: a concurrent cancel closes its channel under
// the write lock, so sending after the snapshot would race a send against a
// close.
func (c *Client) publish(ev Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
			c.logger.Warn("Subscriber channel full. Dropping state event.",
				zap.Bool("completed", ev.Completed))
		}
	}
}
