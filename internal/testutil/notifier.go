package testutil

import (
	"context"
	"sync"

	"github.com/dom/videotube/internal/domain"
)

// RecordingNotifier keeps every activity event it is handed.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []*domain.ActivityEvent
}

func (n *RecordingNotifier) Notify(_ context.Context, event *domain.ActivityEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *RecordingNotifier) Events() []*domain.ActivityEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*domain.ActivityEvent(nil), n.events...)
}
