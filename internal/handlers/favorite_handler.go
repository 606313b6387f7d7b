package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"spark-service/internal/repositories"
)

// FavoriteHandler manages the favorites list. Blocking a user removes them
// from favorites, which these endpoints make observable.
type FavoriteHandler struct {
	userRepo repositories.UserRepository
}

// NewFavoriteHandler builds a FavoriteHandler.
func NewFavoriteHandler(userRepo repositories.UserRepository) *FavoriteHandler {
	return &FavoriteHandler{userRepo: userRepo}
}

// Add marks another user as a favorite; repeated adds are no-ops.
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID := c.GetInt("userID")
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if targetID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot favorite yourself"})
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

	if err := h.userRepo.AddFavorite(c.Request.Context(), userID, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add favorite"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Remove drops a favorite edge.
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID := c.GetInt("userID")
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if err := h.userRepo.RemoveFavorite(c.Request.Context(), userID, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove favorite"})
		return
	}

	c.Status(http.StatusNoContent)
}

// List returns the caller's favorite IDs.
func (h *FavoriteHandler) List(c *gin.Context) {
	userID := c.GetInt("userID")

	ids, err := h.userRepo.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load favorites"})
		return
	}
	if ids == nil {
		ids = []int{}
	}

	c.JSON(http.StatusOK, gin.H{"favorites": ids})
}
