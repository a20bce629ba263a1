package testutil

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/websocket"
	"github.com/goccy/go-json"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	client, resp, err := DialWS(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("failed to connect to websocket (status %d): %v", status, err)
	}
	client.t = t

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// DialWS connects without failing the test, for handshakes expected to be rejected.
func DialWS(url string, header http.Header) (*WSClient, *http.Response, error) {
	dialer := *gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, resp, err := dialer.Dial(url, header)
	if err != nil {
		return nil, resp, err
	}

	client := &WSClient{
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}
	go client.readPump()

	return client, resp, nil
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			case c.errors <- err:
			default:
			}
			return
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			select {
			case c.errors <- err:
			default:
			}
			continue
		}

		select {
		case c.messages <- &msg:
		case <-c.done:
			return
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// ExpectMessage waits for a message of the specified type
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

// ExpectNoMessage fails if any message arrives within wait
func (c *WSClient) ExpectNoMessage(wait time.Duration) {
	c.t.Helper()

	select {
	case msg := <-c.messages:
		if msg != nil {
			c.t.Fatalf("unexpected %s message", msg.Type)
		}
	case <-time.After(wait):
	}
}

// ExpectActivity waits for msgType and decodes its activity payload
func (c *WSClient) ExpectActivity(msgType websocket.MessageType, timeout time.Duration) *domain.ActivityEvent {
	c.t.Helper()

	msg := c.ExpectMessage(msgType, timeout)

	var payload domain.ActivityEvent
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode activity payload: %v", err)
	}
	return &payload
}
