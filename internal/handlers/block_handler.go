package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"spark-service/internal/models"
	"spark-service/internal/repositories"
	"spark-service/internal/ws"
)

// BlockHandler manages block relationships.
type BlockHandler struct {
	blockRepo repositories.BlockRepository
	userRepo  repositories.UserRepository
	hub       *ws.Hub
}

// NewBlockHandler builds a BlockHandler.
func NewBlockHandler(blockRepo repositories.BlockRepository, userRepo repositories.UserRepository, hub *ws.Hub) *BlockHandler {
	return &BlockHandler{blockRepo: blockRepo, userRepo: userRepo, hub: hub}
}

// Block records a block edge. Repeating the call is a no-op success. The
// blocked user gets a live notification so their client can refresh views.
func (h *BlockHandler) Block(c *gin.Context) {
	userID := c.GetInt("userID")
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if targetID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot block yourself"})
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

	if err := h.blockRepo.Block(c.Request.Context(), userID, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not block user"})
		return
	}

	h.hub.DeliverToUser(targetID, models.LiveEvent{Type: "blocked", UserID: userID})
	c.Status(http.StatusNoContent)
}

// Unblock removes a block edge; succeeds even when none exists.
func (h *BlockHandler) Unblock(c *gin.Context) {
	userID := c.GetInt("userID")
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if err := h.blockRepo.Unblock(c.Request.Context(), userID, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not unblock user"})
		return
	}

	h.hub.DeliverToUser(targetID, models.LiveEvent{Type: "unblocked", UserID: userID})
	c.Status(http.StatusNoContent)
}

// ListBlocked returns the caller's block list.
func (h *BlockHandler) ListBlocked(c *gin.Context) {
	userID := c.GetInt("userID")

	ids, err := h.blockRepo.ListBlocked(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load block list"})
		return
	}
	if ids == nil {
		ids = []int{}
	}

	c.JSON(http.StatusOK, gin.H{"blocked": ids})
}
