package models

import "time"

// User is the platform identity referenced by the messaging core. Profiles are
// owned by the profile service; only the fields this core needs live here.
type User struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Latitude  *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude *float64  `db:"longitude" json:"longitude,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PublicUser is the API-facing shape of another user, with presence and
// distance filled in by the caller.
type PublicUser struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	Online         bool   `json:"online"`
	DistanceMeters *int   `json:"distance_meters"`
}

// Block is a directed suppression edge from blocker to blocked.
type Block struct {
	BlockerID int       `db:"blocker_id" json:"blocker_id"`
	BlockedID int       `db:"blocked_id" json:"blocked_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Favorite marks another user as a favorite of UserID.
type Favorite struct {
	UserID     int       `db:"user_id" json:"user_id"`
	FavoriteID int       `db:"favorite_id" json:"favorite_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
