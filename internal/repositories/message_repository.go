package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"spark-service/internal/models"
)

var (
	ErrEmptyMessage    = errors.New("message has no text and no image")
	ErrMessageNotFound = errors.New("message not found")
	ErrNotSender       = errors.New("only the sender can delete a message")
)

// MessageRepository defines interactions for direct messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, senderID, recipientID int, text, imageURL *string) (models.Message, error)
	ListBetween(ctx context.Context, userA, userB int) ([]models.Message, error)
	ListForUser(ctx context.Context, userID int) ([]models.Message, error)
	MarkRead(ctx context.Context, viewerID, peerID int) error
	DeleteMessage(ctx context.Context, messageID, requesterID int) error
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a direct message. At least one of text and imageURL must
// be non-empty.
func (r *MessageRepo) CreateMessage(ctx context.Context, senderID, recipientID int, text, imageURL *string) (models.Message, error) {
	if isEmpty(text) && isEmpty(imageURL) {
		return models.Message{}, ErrEmptyMessage
	}

	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender_id, recipient_id, text, image_url) VALUES ($1, $2, $3, $4)
        RETURNING id, sender_id, recipient_id, text, image_url, read, created_at`, senderID, recipientID, text, imageURL).
		Scan(&msg.ID, &msg.SenderID, &msg.RecipientID, &msg.Text, &msg.ImageURL, &msg.Read, &msg.CreatedAt)
	return msg, err
}

// ListBetween returns all messages exchanged between two users, oldest first.
func (r *MessageRepo) ListBetween(ctx context.Context, userA, userB int) ([]models.Message, error) {
	query := `SELECT id, sender_id, recipient_id, text, image_url, read, created_at
        FROM messages
        WHERE (sender_id=$1 AND recipient_id=$2) OR (sender_id=$2 AND recipient_id=$1)
        ORDER BY created_at ASC, id ASC`
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, query, userA, userB)
	return msgs, err
}

// ListForUser returns every message the user sent or received, newest first.
// The conversation aggregator projects summaries from this slice.
func (r *MessageRepo) ListForUser(ctx context.Context, userID int) ([]models.Message, error) {
	query := `SELECT id, sender_id, recipient_id, text, image_url, read, created_at
        FROM messages
        WHERE sender_id=$1 OR recipient_id=$1
        ORDER BY created_at DESC, id DESC`
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, query, userID)
	return msgs, err
}

// MarkRead flags all messages from peer to viewer as read.
func (r *MessageRepo) MarkRead(ctx context.Context, viewerID, peerID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE messages SET read = TRUE WHERE recipient_id=$1 AND sender_id=$2 AND read = FALSE`, viewerID, peerID)
	return err
}

// DeleteMessage removes a message. Only the original sender may delete.
func (r *MessageRepo) DeleteMessage(ctx context.Context, messageID, requesterID int) error {
	var senderID int
	err := r.db.GetContext(ctx, &senderID, `SELECT sender_id FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMessageNotFound
	}
	if err != nil {
		return err
	}
	if senderID != requesterID {
		return ErrNotSender
	}

	_, err = r.db.ExecContext(ctx, `DELETE FROM messages WHERE id=$1`, messageID)
	return err
}

func isEmpty(s *string) bool {
	return s == nil || *s == ""
}
