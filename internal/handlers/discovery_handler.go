package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spark-service/internal/discovery"
	"spark-service/internal/models"
	"spark-service/internal/presence"
	"spark-service/internal/repositories"
)

// DiscoveryHandler serves the ranked user list.
type DiscoveryHandler struct {
	userRepo  repositories.UserRepository
	blockRepo repositories.BlockRepository
	tracker   *presence.Tracker
}

// NewDiscoveryHandler builds a DiscoveryHandler.
func NewDiscoveryHandler(userRepo repositories.UserRepository, blockRepo repositories.BlockRepository, tracker *presence.Tracker) *DiscoveryHandler {
	return &DiscoveryHandler{userRepo: userRepo, blockRepo: blockRepo, tracker: tracker}
}

// Discover returns users ordered by distance to the viewer, blocked
// relationships excluded, unknown distances last, the viewer pinned first.
// Guests have no coordinates or block list and get the unranked set.
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	users, err := h.userRepo.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}

	viewerID, authenticated := c.Get("userID")
	if !authenticated {
		c.JSON(http.StatusOK, gin.H{"users": h.present(discovery.Unranked(users))})
		return
	}

	viewer, err := h.userRepo.GetUser(c.Request.Context(), viewerID.(int))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load viewer"})
		return
	}
	blocked, err := h.blockRepo.ListBlockedEitherWay(c.Request.Context(), viewer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load block list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": h.present(discovery.Rank(viewer, users, blocked))})
}

func (h *DiscoveryHandler) present(entries []discovery.Entry) []models.PublicUser {
	out := make([]models.PublicUser, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.PublicUser{
			ID:             e.User.ID,
			Username:       e.User.Username,
			Online:         h.tracker.IsOnline(e.User.ID),
			DistanceMeters: e.DistanceMeters,
		})
	}
	return out
}
