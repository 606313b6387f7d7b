package presence

import (
	"sync"
	"time"
)

type entry struct {
	connCount int
	lastSeen  time.Time
}

// Tracker keeps per-user connection liveness in memory. A user is online while
// at least one connection is registered. If a transport dies without a close
// handshake the entry stays online until the transport's own keep-alive
// expires; there is no heartbeat fallback here.
type Tracker struct {
	mu      sync.RWMutex
	entries map[int]*entry
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[int]*entry)}
}

// MarkOnline increments the user's connection count and reports whether this
// was the 0 to 1 transition.
func (t *Tracker) MarkOnline(userID int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[userID]
	if !ok {
		e = &entry{}
		t.entries[userID] = e
	}
	e.connCount++
	return e.connCount == 1
}

// MarkOffline decrements the user's connection count and reports whether this
// was the 1 to 0 transition. The last-seen timestamp is recorded when the
// user goes fully offline.
func (t *Tracker) MarkOffline(userID int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[userID]
	if !ok || e.connCount == 0 {
		return false
	}
	e.connCount--
	if e.connCount > 0 {
		return false
	}
	e.lastSeen = time.Now()
	return true
}

// IsOnline is a point-in-time read of the user's liveness.
func (t *Tracker) IsOnline(userID int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[userID]
	return ok && e.connCount > 0
}

// LastSeen returns when the user last went offline; zero when unknown or
// currently online.
func (t *Tracker) LastSeen(userID int) time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if e, ok := t.entries[userID]; ok && e.connCount == 0 {
		return e.lastSeen
	}
	return time.Time{}
}

// OnlineUsers snapshots the set of currently online user IDs.
func (t *Tracker) OnlineUsers() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	online := make([]int, 0, len(t.entries))
	for id, e := range t.entries {
		if e.connCount > 0 {
			online = append(online, id)
		}
	}
	return online
}
