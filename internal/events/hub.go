// Package events pushes session changes to connected screens over
// websockets so that other users of the same reference can refresh.
package events

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	TypeEntryUpdated   = "entry_updated"
	TypeSessionSaved   = "session_saved"
	TypeSessionDeleted = "session_deleted"
)

type Event struct {
	Type        string    `json:"type"`
	Workflow    string    `json:"workflow"`
	ReferenceID string    `json:"referenceId"`
	SessionID   string    `json:"sessionId,omitempty"`
	Payload     any       `json:"payload,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// subscription filters events for one client; empty fields match anything.
type subscription struct {
	workflow    string
	referenceID string
}

func (s subscription) matches(e Event) bool {
	if s.workflow != "" && s.workflow != e.Workflow {
		return false
	}
	return s.referenceID == "" || s.referenceID == e.ReferenceID
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Hub struct {
	logger     *logrus.Logger
	clients    map[*websocket.Conn]subscription
	clientsMux sync.Mutex
	broadcast  chan Event
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		logger:    logger,
		clients:   make(map[*websocket.Conn]subscription),
		broadcast: make(chan Event, 64),
	}
}

// Publish queues e for delivery. A full queue drops the event; clients
// reload on their next request anyway.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- e:
	default:
		h.logger.WithField("type", e.Type).Warn("event queue full, dropping event")
	}
}

// Run delivers queued events until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case e := <-h.broadcast:
			h.deliver(e)
		}
	}
}

func (h *Hub) deliver(e Event) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for client, sub := range h.clients {
		if !sub.matches(e) {
			continue
		}
		client.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := client.WriteJSON(e); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}

func (h *Hub) closeAll() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}

// ClientCount returns the number of connected sockets.
func (h *Hub) ClientCount() int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and keeps the socket registered until the
// client goes away. ?workflow= and ?ref= narrow what the client receives.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := subscription{
		workflow:    r.URL.Query().Get("workflow"),
		referenceID: r.URL.Query().Get("ref"),
	}
	h.clientsMux.Lock()
	h.clients[conn] = sub
	h.clientsMux.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.clientsMux.Lock()
			delete(h.clients, conn)
			h.clientsMux.Unlock()
			break
		}
	}
}
