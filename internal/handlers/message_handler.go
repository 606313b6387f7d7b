package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spark-service/internal/conversations"
	"spark-service/internal/models"
	"spark-service/internal/observability"
	"spark-service/internal/repositories"
	"spark-service/internal/ws"
)

// MessageHandler manages the synchronous messaging endpoints.
type MessageHandler struct {
	messageRepo repositories.MessageRepository
	blockRepo   repositories.BlockRepository
	userRepo    repositories.UserRepository
	hub         *ws.Hub
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messageRepo repositories.MessageRepository, blockRepo repositories.BlockRepository, userRepo repositories.UserRepository, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{
		messageRepo: messageRepo,
		blockRepo:   blockRepo,
		userRepo:    userRepo,
		hub:         hub,
	}
}

// PostMessage persists a message and then fans it out to the recipient's live
// connections. The append must land durably before any delivery happens, so a
// recipient reacting to the live event always finds the row via the read path.
// A blocked pair still gets the row stored, but delivery is suppressed.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		RecipientID int     `json:"recipient_id" binding:"required"`
		Text        *string `json:"text"`
		ImageURL    *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RecipientID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot message yourself"})
		return
	}

	recipient, err := h.userRepo.GetUser(c.Request.Context(), req.RecipientID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "recipient not found"})
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), userID, req.RecipientID, req.Text, req.ImageURL)
	if err != nil {
		if errors.Is(err, repositories.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message needs text or an image"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	blocked, err := h.blockRepo.IsBlocked(c.Request.Context(), userID, req.RecipientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check block state"})
		return
	}
	var result ws.DeliveryResult
	if blocked {
		result = ws.DeliveryResult{Suppressed: true}
	} else {
		result = h.hub.DeliverToUser(req.RecipientID, models.LiveEvent{Type: "message", Message: &msg})
	}
	switch {
	case result.Suppressed:
		observability.IncDelivery("suppressed")
	case result.Dropped():
		observability.IncDelivery("dropped")
	default:
		observability.IncDelivery("delivered")
	}

	sender, err := h.userRepo.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sender"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   msg,
		"delivery":  result,
		"sender":    gin.H{"id": sender.ID, "username": sender.Username},
		"recipient": gin.H{"id": recipient.ID, "username": recipient.Username},
	})
}

// ListConversations returns one summary per counterpart, most recent first.
func (h *MessageHandler) ListConversations(c *gin.Context) {
	userID := c.GetInt("userID")

	history, err := h.messageRepo.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	blocked, err := h.blockRepo.ListBlockedEitherWay(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load block list"})
		return
	}

	summaries := conversations.Summarize(userID, history, blocked)

	peerIDs := make([]int, 0, len(summaries))
	for _, s := range summaries {
		peerIDs = append(peerIDs, s.PeerID)
	}
	peers, err := h.userRepo.GetUsers(c.Request.Context(), peerIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load peers"})
		return
	}
	usernameByID := map[int]string{}
	for _, p := range peers {
		usernameByID[p.ID] = p.Username
	}
	for i := range summaries {
		summaries[i].PeerUsername = usernameByID[summaries[i].PeerID]
	}

	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

// ListMessagesWithPeer returns the full exchange with one user, oldest first.
func (h *MessageHandler) ListMessagesWithPeer(c *gin.Context) {
	userID := c.GetInt("userID")
	peerID, ok := pathID(c, "peer_id")
	if !ok {
		return
	}

	blocked, err := h.blockRepo.IsBlocked(c.Request.Context(), userID, peerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check block state"})
		return
	}
	if blocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "conversation unavailable"})
		return
	}

	msgs, err := h.messageRepo.ListBetween(c.Request.Context(), userID, peerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// MarkConversationRead flags all incoming messages from the peer as read.
func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	userID := c.GetInt("userID")
	peerID, ok := pathID(c, "peer_id")
	if !ok {
		return
	}

	if err := h.messageRepo.MarkRead(c.Request.Context(), userID, peerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark read"})
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteMessage removes a message; only the original sender may do so.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID := c.GetInt("userID")
	messageID, ok := pathID(c, "message_id")
	if !ok {
		return
	}

	err := h.messageRepo.DeleteMessage(c.Request.Context(), messageID, userID)
	switch {
	case errors.Is(err, repositories.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
	case errors.Is(err, repositories.ErrNotSender):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the sender can delete a message"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete message"})
	default:
		c.Status(http.StatusNoContent)
	}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
