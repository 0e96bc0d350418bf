package state

import (
	"github.com/disgoorg/snowflake/v2"
)

// Deferred event replay: records whose target entity does not exist yet
// are suspended as closures keyed by (kind, id) and replayed, in enqueue
// order, once an entity with that key is genuinely created. A replayed
// closure may defer itself again under a different key; the queue entry is
// removed before invocation so it can never re-trigger under the old key.

type eventKey struct {
	kind Kind
	id   snowflake.ID
}

// Defer parks work until an entity of the given kind and id is created.
func (c *Cache) Defer(kind Kind, id snowflake.ID, work func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := eventKey{kind: kind, id: id}
	c.events[key] = append(c.events[key], work)
	metricDeferrals.Inc()
}

// DeferredCount reports how many closures are parked for the key.
func (c *Cache) DeferredCount(kind Kind, id snowflake.ID) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events[eventKey{kind: kind, id: id}])
}

func (c *Cache) takeEventsLocked(kind Kind, id snowflake.ID) []func() {
	key := eventKey{kind: kind, id: id}
	queued, ok := c.events[key]
	if !ok {
		return nil
	}
	delete(c.events, key)
	return queued
}

func (c *Cache) discardEventsLocked(kind Kind, id snowflake.ID) {
	// The dependency is gone, deferred work describing references into it
	// is moot.
	delete(c.events, eventKey{kind: kind, id: id})
}

func (c *Cache) replay(queued []func()) {
	for _, work := range queued {
		work()
		metricReplays.Inc()
	}
}
