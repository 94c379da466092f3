package roster

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub maintains the set of live roster subscribers and fans the current
// roster snapshot out to them. Subscribers receive one snapshot on connect
// and a fresh one after every successful student mutation.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// last snapshot, replayed to clients that connect between mutations
	snapshot []byte

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 8),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub loop, handling registrations and broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case payload := <-h.broadcast:
			h.broadcastSnapshot(payload)
		}
	}
}

// Broadcast queues a roster snapshot for delivery to all subscribers
func (h *Hub) Broadcast(payload []byte) {
	h.broadcast <- payload
}

// HasSnapshot reports whether a snapshot is available for replay
func (h *Hub) HasSnapshot() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot != nil
}

// Prime seeds the replay snapshot for subscribers that connect before the
// first mutation. A snapshot already produced by a broadcast is kept.
func (h *Hub) Prime(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.snapshot == nil {
		h.snapshot = payload
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	snapshot := h.snapshot
	h.mu.Unlock()

	// replay the latest roster so a new subscriber is current immediately
	if snapshot != nil {
		select {
		case client.send <- snapshot:
		default:
		}
	}

	h.logger.Info().
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Roster subscriber registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info().
			Str("addr", client.conn.RemoteAddr().String()).
			Msg("Roster subscriber unregistered")
	}
}

func (h *Hub) broadcastSnapshot(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.snapshot = payload

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Slow consumer: drop it rather than block the hub
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// SubscriberCount returns the number of live subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
