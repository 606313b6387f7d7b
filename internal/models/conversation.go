package models

// ConversationSummary is a derived view of the exchange with one counterpart.
// It is recomputed from the message log on each read and never persisted.
type ConversationSummary struct {
	PeerID       int     `json:"peer_id"`
	PeerUsername string  `json:"peer_username,omitempty"`
	LastMessage  Message `json:"last_message"`
	UnreadCount  int     `json:"unread_count"`
}

// PresenceStatus is the API-facing shape of a presence read.
type PresenceStatus struct {
	UserID   int    `json:"user_id"`
	Online   bool   `json:"online"`
	LastSeen string `json:"last_seen,omitempty"`
}
