package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/fbxtools/pkg/domain"
)

// allPaths is the subscription key that receives every event.
const allPaths = ""

// StreamManager fans operation results out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{} // document path -> set of channels
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
	}
}

// Subscribe registers a listener for results on path ("" for all paths).
// The returned function unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(path string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[path]; !ok {
		sm.subscribers[path] = make(map[chan string]struct{})
	}
	sm.subscribers[path][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[path]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(sm.subscribers, path)
				}
			}
			close(ch)
		})
	}
}

// Subscribers reports the number of active listeners.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	n := 0
	for _, subs := range sm.subscribers {
		n += len(subs)
	}
	return n
}

// Broadcast sends res to the listeners of its path and to global listeners.
// Slow listeners miss messages rather than block the engine.
func (sm *StreamManager) Broadcast(res *domain.Result) {
	payload, err := json.Marshal(res)
	if err != nil {
		slog.Error("StreamManager: failed to encode result", "error", err)
		return
	}
	msg := string(payload)

	sm.mu.RLock()
	defer sm.mu.RUnlock()
	keys := []string{allPaths}
	if res.Request.Path != allPaths {
		keys = append(keys, res.Request.Path)
	}
	for _, key := range keys {
		for ch := range sm.subscribers[key] {
			select {
			case ch <- msg:
			default:
				slog.Warn("SSE: client buffer full, dropping message", "op", res.ID)
			}
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every finished clone.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCloneFinish: func(_ context.Context, e *domain.CloneEvent) {
			sm.Broadcast(e.Result)
		},
	}
}
