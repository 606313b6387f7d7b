package models

import "time"

// Message is a direct message between two users. A message carries text, an
// image reference, or both; rows are immutable after insert.
type Message struct {
	ID          int       `db:"id" json:"id"`
	SenderID    int       `db:"sender_id" json:"sender_id"`
	RecipientID int       `db:"recipient_id" json:"recipient_id"`
	Text        *string   `db:"text" json:"text"`
	ImageURL    *string   `db:"image_url" json:"image_url"`
	Read        bool      `db:"read" json:"read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// PeerID returns the other party of the message relative to userID.
func (m Message) PeerID(userID int) int {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}

// LiveEvent is broadcasted through websockets.
type LiveEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
	UserID  int      `json:"user_id,omitempty"`
	RoomID  string   `json:"room_id,omitempty"`
}
