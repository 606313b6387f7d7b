package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// BlockRepository abstracts block relationship persistence. Every cross-user
// read path consults IsBlocked before returning data.
type BlockRepository interface {
	Block(ctx context.Context, blockerID, blockedID int) error
	Unblock(ctx context.Context, blockerID, blockedID int) error
	IsBlocked(ctx context.Context, userA, userB int) (bool, error)
	ListBlocked(ctx context.Context, blockerID int) ([]int, error)
	ListBlockedEitherWay(ctx context.Context, userID int) ([]int, error)
}

// BlockRepo is a sqlx implementation of BlockRepository.
type BlockRepo struct {
	db *sqlx.DB
}

// NewBlockRepo constructs a BlockRepo.
func NewBlockRepo(db *sqlx.DB) *BlockRepo {
	return &BlockRepo{db: db}
}

// Block records a block edge. Blocking an already-blocked user is a no-op, and
// blocking supersedes favoriting: the target is dropped from the blocker's
// favorites.
func (r *BlockRepo) Block(ctx context.Context, blockerID, blockedID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO blocks (blocker_id, blocked_id) VALUES ($1, $2)
        ON CONFLICT (blocker_id, blocked_id) DO NOTHING`, blockerID, blockedID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites WHERE user_id=$1 AND favorite_id=$2`, blockerID, blockedID); err != nil {
		return err
	}

	return tx.Commit()
}

// Unblock removes a block edge, succeeding even if none exists.
func (r *BlockRepo) Unblock(ctx context.Context, blockerID, blockedID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM blocks WHERE blocker_id=$1 AND blocked_id=$2`, blockerID, blockedID)
	return err
}

// IsBlocked reports whether either user blocks the other.
func (r *BlockRepo) IsBlocked(ctx context.Context, userA, userB int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM blocks
        WHERE (blocker_id=$1 AND blocked_id=$2) OR (blocker_id=$2 AND blocked_id=$1))`, userA, userB)
	return exists, err
}

// ListBlocked returns the IDs the user has blocked.
func (r *BlockRepo) ListBlocked(ctx context.Context, blockerID int) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids, `SELECT blocked_id FROM blocks WHERE blocker_id=$1 ORDER BY blocked_id`, blockerID)
	return ids, err
}

// ListBlockedEitherWay returns every ID with a block edge to or from the user.
func (r *BlockRepo) ListBlockedEitherWay(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids, `SELECT DISTINCT CASE WHEN blocker_id=$1 THEN blocked_id ELSE blocker_id END
        FROM blocks WHERE blocker_id=$1 OR blocked_id=$1`, userID)
	return ids, err
}
