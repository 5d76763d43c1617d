package http

import (
	"testing"
	"time"

	"xandar-lab/internal/interview/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveHub_WatchAndBroadcast(t *testing.T) {
	hub := NewLiveHub(nil)

	ch := hub.Watch("i1", "w1")
	hub.Broadcast("i1", usecase.LiveEvent{Type: "started", At: time.Now()})

	select {
	case event := <-ch:
		assert.Equal(t, "started", event.Type)
	case <-time.After(time.Second):
		t.Fatal("watcher did not receive event")
	}
}

func TestLiveHub_BroadcastReachesAllWatchers(t *testing.T) {
	hub := NewLiveHub(nil)

	first := hub.Watch("i1", "w1")
	second := hub.Watch("i1", "w2")
	require.Equal(t, 2, hub.WatcherCount("i1"))

	hub.Broadcast("i1", usecase.LiveEvent{Type: "finished"})

	assert.Equal(t, "finished", (<-first).Type)
	assert.Equal(t, "finished", (<-second).Type)
}

func TestLiveHub_BroadcastScopedToInterview(t *testing.T) {
	hub := NewLiveHub(nil)

	other := hub.Watch("i2", "w1")
	hub.Broadcast("i1", usecase.LiveEvent{Type: "started"})

	select {
	case <-other:
		t.Fatal("watcher of a different interview received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLiveHub_UnwatchClosesChannel(t *testing.T) {
	hub := NewLiveHub(nil)

	ch := hub.Watch("i1", "w1")
	hub.Unwatch("i1", "w1")

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.WatcherCount("i1"))
}

func TestLiveHub_SlowWatcherDropsInsteadOfBlocking(t *testing.T) {
	hub := NewLiveHub(nil)

	hub.Watch("i1", "slow")
	done := make(chan struct{})
	go func() {
		// Buffer is 16; the extras must be dropped without blocking.
		for i := 0; i < 40; i++ {
			hub.Broadcast("i1", usecase.LiveEvent{Type: "tick"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow watcher")
	}
}
