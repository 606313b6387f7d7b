package ws

import (
	"time"

	"github.com/google/uuid"
)

// ConnInfo carries per-connection metadata captured during the handshake. It
// rides along with the hub registration and into connection lifecycle events;
// the hub never interprets it.
type ConnInfo struct {
	ConnID      string
	UserID      int
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

// uptimeMillis reports how long the connection has been open.
func (i ConnInfo) uptimeMillis() int64 {
	return time.Since(i.ConnectedAt).Milliseconds()
}

func newConnID() string {
	return uuid.NewString()
}
