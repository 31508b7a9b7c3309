package handlers

import (
	"errors"
	"net/http"
	"os"

	"megamind_api/internal/logger"
	"megamind_api/internal/service"
	"megamind_api/internal/shapes"
	"megamind_api/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades to the persistent frame channel. The browser WebSocket API
// cannot set headers, so the token comes from the query string.
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		userID, err := service.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		client := ws.NewClient(userID, conn, hub)
		go client.Run()
	}
}

type ResetSessionRequest struct {
	Shape string `json:"shape"` // empty = random
}

// ResetSession rebinds the user's trace session to a fresh shape.
func (h *Handler) ResetSession(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req ResetSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}
	}

	sess, err := h.Games.Reset(userID, req.Shape)
	if err != nil {
		if errors.Is(err, shapes.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown shape: " + req.Shape})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset session"})
		return
	}

	c.JSON(http.StatusOK, sess.Snapshot())
}

// Shapes lists the names of all registered trace paths.
func (h *Handler) Shapes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"shapes": h.Catalog.Names()})
}

// Session returns the current trace snapshot without consuming a frame.
func (h *Handler) Session(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	sess, ok := h.Games.Get(userID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	c.JSON(http.StatusOK, sess.Snapshot())
}
