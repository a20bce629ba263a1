package websocket

import (
	"context"
	"sync"

	"github.com/dom/videotube/internal/domain"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// SubscriberLister resolves the users subscribed to a channel.
type SubscriberLister interface {
	ListSubscriberIDs(ctx context.Context, channelID string) ([]string, error)
}

// Hub fans channel activity out to the live feed connections of the
// channel's subscribers. All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients     map[string]map[*Client]struct{}
	register    chan *Client
	unregister  chan *Client
	broadcast   chan *delivery
	stop        chan struct{}
	done        chan struct{} // closed when Run() exits
	stopped     bool
	subscribers SubscriberLister
	mu          sync.RWMutex
}

type delivery struct {
	userIDs []string
	data    []byte
}

func NewHub(subscribers SubscriberLister) *Hub {
	return &Hub{
		clients:     make(map[string]map[*Client]struct{}),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *delivery, 64),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		subscribers: subscribers,
	}
}

func (h *Hub) Run() {
	defer close(h.done) // Signal that Run() has exited

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for _, set := range h.clients {
				for client := range set {
					client.Close()
				}
			}
			h.clients = make(map[string]map[*Client]struct{})
			h.mu.Unlock()
			return

		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}

			msg, err := NewMessage(MessageTypeFeedReady, FeedReadyPayload{UserID: client.userID})
			if err == nil {
				client.Send(msg)
			}

		case client := <-h.unregister:
			h.drop(client)

		case d := <-h.broadcast:
			for _, id := range d.userIDs {
				for client := range h.clients[id] {
					if !client.enqueue(d.data) {
						logrus.WithField("user_id", id).Warn("dropping slow feed client")
						h.drop(client)
					}
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
	client.Close()
}

// Stop gracefully shuts down the hub and closes every connection.
// It blocks until the hub has fully shut down.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done // Wait for Run() to finish
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister safely unregisters a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Notify delivers event to every connected subscriber of its channel.
// Failures are logged; the activity itself already succeeded.
func (h *Hub) Notify(ctx context.Context, event *domain.ActivityEvent) {
	ids, err := h.subscribers.ListSubscriberIDs(ctx, event.ChannelID)
	if err != nil {
		logrus.WithError(err).WithField("channel_id", event.ChannelID).Error("failed to load subscribers for feed")
		return
	}
	if len(ids) == 0 {
		return
	}

	msg, err := NewMessage(messageTypeFor(event.Kind), event)
	if err != nil {
		logrus.WithError(err).Error("failed to build feed message")
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal feed message")
		return
	}

	select {
	case h.broadcast <- &delivery{userIDs: ids, data: data}:
	case <-h.done:
	case <-ctx.Done():
	}
}
