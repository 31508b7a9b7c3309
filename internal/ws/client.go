package ws

import (
	"encoding/json"
	"sync"
	"time"

	"megamind_api/internal/game"
	"megamind_api/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxFrameBytes = 4096
)

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	Hub  *Hub
	Done chan struct{}

	closeOnce sync.Once
}

func NewClient(userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    hub,
		Done:   make(chan struct{}),
	}
}

func (c *Client) Run() {
	go c.writePump()

	c.Hub.Register(c)

	// handshake so clients know the channel is live
	c.queue([]byte(`{"type":"ready"}`))

	go c.readPump()

	<-c.Done
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.OnDisconnect(c)
		c.Close()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(maxFrameBytes)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			logger.Debug("ws read closed", "user_id", c.UserID, "error", err)
			return
		}
		c.Hub.HandleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write failed", "user_id", c.UserID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) SendResult(snap game.Snapshot) {
	msg, err := json.Marshal(ResultPayload{Type: MsgResult, Snapshot: snap})
	if err != nil {
		return
	}
	c.queue(msg)
}

func (c *Client) SendError(message string) {
	msg, _ := json.Marshal(ErrorPayload{Type: MsgError, Message: message})
	c.queue(msg)
}

// queue drops the message if the send buffer is full; a slow consumer must
// not stall frame processing for other users.
func (c *Client) queue(msg []byte) {
	select {
	case c.Send <- msg:
	default:
		logger.Warn("ws send buffer full, dropping message", "user_id", c.UserID)
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		_ = c.Conn.Close()
	})
}
