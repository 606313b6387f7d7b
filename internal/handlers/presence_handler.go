package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spark-service/internal/models"
	"spark-service/internal/presence"
	"spark-service/internal/repositories"
)

// PresenceHandler exposes point-in-time presence reads.
type PresenceHandler struct {
	tracker  *presence.Tracker
	userRepo repositories.UserRepository
}

// NewPresenceHandler builds a PresenceHandler.
func NewPresenceHandler(tracker *presence.Tracker, userRepo repositories.UserRepository) *PresenceHandler {
	return &PresenceHandler{tracker: tracker, userRepo: userRepo}
}

// GetPresence reports whether a user currently has a live connection and when
// they were last seen by this process.
func (h *PresenceHandler) GetPresence(c *gin.Context) {
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if _, err := h.userRepo.GetUser(c.Request.Context(), targetID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "user not found"})
		return
	}

	status := models.PresenceStatus{
		UserID: targetID,
		Online: h.tracker.IsOnline(targetID),
	}
	if lastSeen := h.tracker.LastSeen(targetID); !lastSeen.IsZero() {
		status.LastSeen = lastSeen.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, status)
}
