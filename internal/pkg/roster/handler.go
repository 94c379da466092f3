package roster

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler upgrades HTTP requests into roster subscriptions
type Handler struct {
	hub      *Hub
	snapshot SnapshotFunc
	logger   zerolog.Logger
}

// NewHandler creates a new websocket roster handler
func NewHandler(hub *Hub, snapshot SnapshotFunc, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, snapshot: snapshot, logger: logger}
}

// HandleConnection upgrades the request and registers the subscriber.
// The subscription is released when the connection closes, on every exit path.
func (h *Handler) HandleConnection(c *gin.Context) {
	// A hub that has not seen a mutation yet has nothing to replay, so
	// build the snapshot from the store before registering.
	if !h.hub.HasSnapshot() {
		payload, err := h.snapshot(c.Request.Context())
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to build initial roster snapshot")
		} else {
			h.hub.Prime(payload)
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade roster subscription")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 4),
		logger: h.logger,
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// SnapshotFunc produces the current roster snapshot as a JSON payload
type SnapshotFunc func(ctx context.Context) ([]byte, error)

// Publisher pushes fresh roster snapshots into the hub after mutations
type Publisher struct {
	hub      *Hub
	snapshot SnapshotFunc
	logger   zerolog.Logger
}

// NewPublisher creates a Publisher
func NewPublisher(hub *Hub, snapshot SnapshotFunc, logger zerolog.Logger) *Publisher {
	return &Publisher{hub: hub, snapshot: snapshot, logger: logger}
}

// StudentsChanged rebuilds the roster snapshot and fans it out.
// Failures are logged, never propagated: the mutation has already succeeded.
func (p *Publisher) StudentsChanged(ctx context.Context) {
	payload, err := p.snapshot(ctx)
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to build roster snapshot")
		return
	}
	p.hub.Broadcast(payload)
}
