package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"spark-service/internal/models"
	"spark-service/internal/observability"
)

// DeliveryResult is the tagged outcome of a fan-out attempt. Delivery is
// best-effort, at-most-once: zero delivered connections is a defined no-op,
// not an error, and a suppressed delivery never reaches the transport at all.
type DeliveryResult struct {
	Delivered  int  `json:"delivered"`
	Suppressed bool `json:"suppressed"`
}

// Dropped reports whether the event reached no live connection.
func (r DeliveryResult) Dropped() bool {
	return !r.Suppressed && r.Delivered == 0
}

// client pairs a connection with its metadata and room memberships.
// gorilla/websocket supports at most one concurrent writer per connection, so
// every frame leaving the hub goes through write.
type client struct {
	conn  *websocket.Conn
	info  ConnInfo
	rooms map[string]struct{}

	writeMu sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub binds user identities to their live websocket connections and tracks ad
// hoc room membership. It is created at process start and owned by main; all
// state is in-memory and scoped to this process.
type Hub struct {
	userConns map[int]map[*websocket.Conn]*client
	rooms     map[string]map[*websocket.Conn]*client
	clients   map[*websocket.Conn]*client
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		userConns: make(map[int]map[*websocket.Conn]*client),
		rooms:     make(map[string]map[*websocket.Conn]*client),
		clients:   make(map[*websocket.Conn]*client),
		logger:    logger,
	}
}

// Register binds a connection to the user's private delivery channel and acks
// with a connected event on that connection only. Registering the same
// connection twice is a no-op. A user may hold several live connections.
func (h *Hub) Register(userID int, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		h.mu.Unlock()
		return
	}
	cl := &client{conn: conn, info: info, rooms: make(map[string]struct{})}
	if _, ok := h.userConns[userID]; !ok {
		h.userConns[userID] = make(map[*websocket.Conn]*client)
	}
	h.userConns[userID][conn] = cl
	h.clients[conn] = cl
	h.mu.Unlock()

	ack, _ := json.Marshal(models.LiveEvent{Type: "connected", UserID: userID})
	if err := cl.write(ack); err != nil {
		h.logger.Warn("websocket ack write failed", zap.Int("user_id", userID), zap.Error(err))
	}
}

// Unregister removes a connection and its room memberships.
func (h *Hub) Unregister(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.userConns[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.userConns, userID)
		}
	}
	if cl, ok := h.clients[conn]; ok {
		for roomID := range cl.rooms {
			h.leaveRoomLocked(roomID, conn)
		}
	}
	delete(h.clients, conn)
}

// JoinRoom adds the connection to an ad hoc room. Membership lives only as
// long as the connection does.
func (h *Hub) JoinRoom(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cl, ok := h.clients[conn]
	if !ok {
		return
	}
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*websocket.Conn]*client)
	}
	h.rooms[roomID][conn] = cl
	cl.rooms[roomID] = struct{}{}
}

// LeaveRoom removes the connection from a room.
func (h *Hub) LeaveRoom(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveRoomLocked(roomID, conn)
	if cl, ok := h.clients[conn]; ok {
		delete(cl.rooms, roomID)
	}
}

func (h *Hub) leaveRoomLocked(roomID string, conn *websocket.Conn) {
	if conns, ok := h.rooms[roomID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// DeliverToUser pushes an event to every live connection registered for the
// user. With no registered connection the event is dropped; the recipient
// catches up through the persisted-read path.
func (h *Hub) DeliverToUser(userID int, event models.LiveEvent) DeliveryResult {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.userConns[userID]))
	for _, cl := range h.userConns[userID] {
		targets = append(targets, cl)
	}
	h.mu.RUnlock()

	payload, _ := json.Marshal(event)
	delivered := 0
	for _, cl := range targets {
		if err := cl.write(payload); err != nil {
			h.logger.Warn("websocket write failed",
				zap.Int("user_id", userID),
				zap.String("event", event.Type),
				zap.Error(err))
			cl.conn.Close()
			h.Unregister(userID, cl.conn)
			observability.IncWSEvent("live", "ws_error")
			continue
		}
		delivered++
	}

	return DeliveryResult{Delivered: delivered}
}

// BroadcastRoom pushes an event to every member of a room and returns how
// many connections received it.
func (h *Hub) BroadcastRoom(roomID string, event models.LiveEvent) int {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.rooms[roomID]))
	for _, cl := range h.rooms[roomID] {
		targets = append(targets, cl)
	}
	h.mu.RUnlock()

	payload, _ := json.Marshal(event)
	delivered := 0
	for _, cl := range targets {
		if err := cl.write(payload); err != nil {
			h.logger.Warn("websocket room write failed",
				zap.String("room_id", roomID),
				zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered
}

// ConnectionCount returns how many live connections the user holds.
func (h *Hub) ConnectionCount(userID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID])
}

// Shutdown closes every tracked connection and clears hub state.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
	}
	h.userConns = make(map[int]map[*websocket.Conn]*client)
	h.rooms = make(map[string]map[*websocket.Conn]*client)
	h.clients = make(map[*websocket.Conn]*client)
}
