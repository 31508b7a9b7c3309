package handlers

import (
	"errors"
	"net/http"

	"megamind_api/internal/repository"
	"megamind_api/internal/service"

	"github.com/gin-gonic/gin"
)

// Stats returns the user's streak state, lazily zeroing a lapsed streak.
func (h *Handler) Stats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	stats, err := h.Streaks.GetStats(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

type RecordTaskRequest struct {
	Task string `json:"task"`
}

// RecordTask submits one completed daily task; crossing the threshold
// credits the streak.
func (h *Handler) RecordTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req RecordTaskRequest
	if err := c.BindJSON(&req); err != nil || req.Task == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task required"})
		return
	}

	stats, err := h.Streaks.RecordTask(c.Request.Context(), userID, req.Task)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownTask):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown task: " + req.Task})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record task"})
		}
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ResetStreak(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	stats, err := h.Streaks.ResetStreak(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset streak"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
