package http

import (
	"sync"

	"xandar-lab/internal/interview/usecase"

	"go.uber.org/zap"
)

const watcherBuffer = 16

// LiveHub fans interview events out to WebSocket watchers. One interview can
// have many watchers; each watcher owns a buffered channel and slow watchers
// drop events rather than block the publisher.
type LiveHub struct {
	mu       sync.RWMutex
	watchers map[string]map[string]chan usecase.LiveEvent
	log      *zap.Logger
}

// NewLiveHub creates a new live hub.
func NewLiveHub(log *zap.Logger) *LiveHub {
	if log == nil {
		log = zap.NewNop()
	}
	return &LiveHub{
		watchers: make(map[string]map[string]chan usecase.LiveEvent),
		log:      log,
	}
}

// Watch registers a watcher for an interview and returns its event channel.
func (h *LiveHub) Watch(interviewID, watcherID string) chan usecase.LiveEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.watchers[interviewID] == nil {
		h.watchers[interviewID] = make(map[string]chan usecase.LiveEvent)
	}
	ch := make(chan usecase.LiveEvent, watcherBuffer)
	h.watchers[interviewID][watcherID] = ch

	h.log.Info("watcher registered",
		zap.String("interviewID", interviewID),
		zap.String("watcherID", watcherID))
	return ch
}

// Unwatch removes a watcher and closes its channel.
func (h *LiveHub) Unwatch(interviewID, watcherID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.watchers[interviewID]
	if !ok {
		return
	}
	if ch, ok := group[watcherID]; ok {
		close(ch)
		delete(group, watcherID)
	}
	if len(group) == 0 {
		delete(h.watchers, interviewID)
	}

	h.log.Info("watcher removed",
		zap.String("interviewID", interviewID),
		zap.String("watcherID", watcherID))
}

// Broadcast delivers an event to every watcher of the interview.
func (h *LiveHub) Broadcast(interviewID string, event usecase.LiveEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	group := h.watchers[interviewID]
	if len(group) == 0 {
		h.log.Debug("no watchers for interview",
			zap.String("interviewID", interviewID),
			zap.String("eventType", event.Type))
		return
	}

	for watcherID, ch := range group {
		select {
		case ch <- event:
		default:
			h.log.Warn("dropping event for slow watcher",
				zap.String("interviewID", interviewID),
				zap.String("watcherID", watcherID),
				zap.String("eventType", event.Type))
		}
	}
}

// WatcherCount returns the number of watchers for an interview.
func (h *LiveHub) WatcherCount(interviewID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[interviewID])
}

var _ usecase.LiveFeed = (*LiveHub)(nil)
