package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"spark-service/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository exposes the user reads this core needs plus favorites.
type UserRepository interface {
	GetUser(ctx context.Context, userID int) (models.User, error)
	GetUsers(ctx context.Context, userIDs []int) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	AddFavorite(ctx context.Context, userID, favoriteID int) error
	RemoveFavorite(ctx context.Context, userID, favoriteID int) error
	ListFavorites(ctx context.Context, userID int) ([]int, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, username, latitude, longitude, created_at FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetUsers fetches users by id, skipping missing ones.
func (r *UserRepo) GetUsers(ctx context.Context, userIDs []int) ([]models.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, username, latitude, longitude, created_at FROM users WHERE id IN (?)`, userIDs)
	if err != nil {
		return nil, err
	}
	var users []models.User
	err = r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...)
	return users, err
}

// ListUsers returns the full user set for discovery.
func (r *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT id, username, latitude, longitude, created_at FROM users ORDER BY id`)
	return users, err
}

// AddFavorite marks favoriteID as a favorite of userID; repeated adds are no-ops.
func (r *UserRepo) AddFavorite(ctx context.Context, userID, favoriteID int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO favorites (user_id, favorite_id) VALUES ($1, $2)
        ON CONFLICT (user_id, favorite_id) DO NOTHING`, userID, favoriteID)
	return err
}

// RemoveFavorite drops the favorite edge if present.
func (r *UserRepo) RemoveFavorite(ctx context.Context, userID, favoriteID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id=$1 AND favorite_id=$2`, userID, favoriteID)
	return err
}

// ListFavorites returns the user's favorite IDs.
func (r *UserRepo) ListFavorites(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids, `SELECT favorite_id FROM favorites WHERE user_id=$1 ORDER BY favorite_id`, userID)
	return ids, err
}
