package presence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerOnlineOfflineTransitions(t *testing.T) {
	tracker := NewTracker()

	assert.True(t, tracker.MarkOnline(1), "0 to 1 should report transition")
	assert.False(t, tracker.MarkOnline(1), "1 to 2 should not")
	assert.True(t, tracker.IsOnline(1))

	assert.False(t, tracker.MarkOffline(1), "2 to 1 should not report transition")
	assert.True(t, tracker.MarkOffline(1), "1 to 0 should")
	assert.False(t, tracker.IsOnline(1))
}

func TestTrackerConnectionCounts(t *testing.T) {
	tracker := NewTracker()

	// users 1 and 3 connect, user 3 twice; user 2 never does
	tracker.MarkOnline(1)
	tracker.MarkOnline(3)
	tracker.MarkOnline(3)

	assert.True(t, tracker.IsOnline(1))
	assert.False(t, tracker.IsOnline(2))
	assert.True(t, tracker.IsOnline(3))
	assert.ElementsMatch(t, []int{1, 3}, tracker.OnlineUsers())

	tracker.MarkOffline(3)
	assert.True(t, tracker.IsOnline(3))
	tracker.MarkOffline(3)
	assert.False(t, tracker.IsOnline(3))
}

func TestTrackerOfflineWithoutOnlineIsNoop(t *testing.T) {
	tracker := NewTracker()
	assert.False(t, tracker.MarkOffline(7))
	assert.False(t, tracker.IsOnline(7))
}

func TestTrackerLastSeen(t *testing.T) {
	tracker := NewTracker()
	assert.True(t, tracker.LastSeen(1).IsZero())

	tracker.MarkOnline(1)
	assert.True(t, tracker.LastSeen(1).IsZero(), "no last-seen while online")

	tracker.MarkOffline(1)
	assert.False(t, tracker.LastSeen(1).IsZero())
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tracker := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.MarkOnline(9)
			tracker.IsOnline(9)
			tracker.MarkOffline(9)
		}()
	}
	wg.Wait()

	assert.False(t, tracker.IsOnline(9))
}
