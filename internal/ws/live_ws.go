package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"spark-service/internal/auth"
	"spark-service/internal/models"
	"spark-service/internal/observability"
	"spark-service/internal/presence"
)

// LiveHandler upgrades client connections, registers them with the hub, and
// keeps presence in sync with the connection lifecycle.
type LiveHandler struct {
	hub     *Hub
	tracker *presence.Tracker
	tokens  *auth.TokenManager
	logger  *zap.Logger
}

// NewLiveHandler constructs a LiveHandler.
func NewLiveHandler(hub *Hub, tracker *presence.Tracker, tokens *auth.TokenManager, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{hub: hub, tracker: tracker, tokens: tokens, logger: logger}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type clientFrame struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
}

// Handle authenticates, upgrades, and registers the connection. The server
// acks with a connected event; afterwards the client may join and leave rooms.
// Disconnect needs no client message: the read loop failing is the signal.
func (h *LiveHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("spark-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
		if token != "" {
			token = "Bearer " + token
		}
	}

	userID, err := h.validateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.Register(userID, conn, info)

	if h.tracker.MarkOnline(userID) {
		h.hub.BroadcastRoom("presence", models.LiveEvent{Type: "presence_online", UserID: userID})
	}
	observability.SetOnlineUsers(len(h.tracker.OnlineUsers()))
	observability.IncWSActive("live")
	observability.IncWSEvent("live", "ws_connect")
	h.publishConnEvent(ctx, info, "ws_connect", "")

	go h.readLoop(ctx, conn, info)
}

// readLoop consumes client frames until the transport closes, then tears the
// registration down. Room membership and presence die with the connection.
func (h *LiveHandler) readLoop(ctx context.Context, conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		h.hub.Unregister(info.UserID, conn)
		if h.tracker.MarkOffline(info.UserID) {
			h.hub.BroadcastRoom("presence", models.LiveEvent{Type: "presence_offline", UserID: info.UserID})
		}
		observability.SetOnlineUsers(len(h.tracker.OnlineUsers()))
		observability.DecWSActive("live")
		observability.IncWSEvent("live", "ws_disconnect")
		h.publishConnEvent(ctx, info, "ws_disconnect", closeReason)
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("live", "ws_error")
				h.publishConnEvent(ctx, info, "ws_error", closeReason)
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			h.logger.Debug("unreadable client frame", zap.Int("user_id", info.UserID), zap.Error(err))
			continue
		}

		switch frame.Type {
		case "join_room":
			if frame.RoomID != "" {
				h.hub.JoinRoom(frame.RoomID, conn)
			}
		case "leave_room":
			if frame.RoomID != "" {
				h.hub.LeaveRoom(frame.RoomID, conn)
			}
		}
	}
}

func (h *LiveHandler) publishConnEvent(ctx context.Context, info ConnInfo, event, reason string) {
	envelope := observability.NewEnvelope("ws_events", event, map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        "live",
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": info.uptimeMillis(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	})
	_ = observability.PublishEvent(ctx, "ws_events.live", envelope, observability.BuildHeaders(info.RequestID, info.TraceID))
}

func (h *LiveHandler) validateToken(header string) (int, error) {
	parts := strings.Split(header, " ")
	if len(parts) == 2 {
		return h.tokens.Validate(parts[1])
	}
	return 0, auth.ErrInvalidToken
}
