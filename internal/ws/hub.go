package ws

import (
	"encoding/json"
	"sync"

	"megamind_api/internal/game"
	"megamind_api/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	FramesProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trace_frames_processed_total",
		Help: "Total fingertip frame samples processed",
	})
	ShapesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trace_shapes_completed_total",
		Help: "Total shapes fully traced",
	})
)

func init() {
	prometheus.MustRegister(FramesProcessed, ShapesCompleted)
}

// Hub tracks the one live connection per user and routes frame events into
// the session registry. Sessions outlive connections; reconnecting resumes
// the same trace.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	Games *game.Registry
}

func NewHub(games *game.Registry) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		Games:   games,
	}
}

// Register attaches a client, replacing any previous connection for the
// same user. Frames from a superseded connection are dropped on read error.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	prev := h.clients[c.UserID]
	h.clients[c.UserID] = c
	h.mu.Unlock()

	if prev != nil {
		logger.Debug("replacing live connection", "user_id", c.UserID)
		prev.Close()
	}
}

func (h *Hub) OnDisconnect(c *Client) {
	h.mu.Lock()
	if h.clients[c.UserID] == c {
		delete(h.clients, c.UserID)
	}
	h.mu.Unlock()
}

// HandleMessage dispatches one inbound event to the game core and queues
// the resulting snapshot back to the sender.
func (h *Hub) HandleMessage(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.SendError("malformed message")
		return
	}

	switch env.Type {
	case MsgFrame:
		sess := h.Games.GetOrCreate(c.UserID)
		wasCompleted := sess.Snapshot().Completed

		snap := sess.Advance(env.Fingertip)
		FramesProcessed.Inc()
		if snap.Completed && !wasCompleted {
			ShapesCompleted.Inc()
		}
		c.SendResult(snap)

	case MsgReset:
		sess, err := h.Games.Reset(c.UserID, env.Shape)
		if err != nil {
			c.SendError("unknown shape: " + env.Shape)
			return
		}
		c.SendResult(sess.Snapshot())

	case MsgPing:
		// keepalive only

	default:
		c.SendError("unknown message type: " + env.Type)
	}
}
