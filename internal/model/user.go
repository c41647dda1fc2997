package model

import (
	"errors"
	"time"
)

// User represents a user in the system
type User struct {
	ID             int64   `db:"id" json:"id"`
	Username       string  `db:"username" json:"username"`
	Email          string  `db:"email" json:"email"`
	PasswordHashed string  `db:"password_hashed" json:"-"` // "-" hides from JSON output
	ProfilePicture *string `db:"profile_picture" json:"profile_picture"`
	AvatarKey      *string `db:"avatar_key" json:"-"`

	// Aggregate watch stats. Only the watch-state engine may change these,
	// and always in the same transaction as the list mutation they describe.
	MoviesWatched   int `db:"movies_watched" json:"movies_watched"`
	TVShowsWatched  int `db:"tv_shows_watched" json:"tv_shows_watched"`
	EpisodesWatched int `db:"episodes_watched" json:"episodes_watched"`
	TotalRuntime    int `db:"total_runtime" json:"total_runtime"` // minutes

	FollowerCount  int `db:"follower_count" json:"follower_count"`
	FollowingCount int `db:"following_count" json:"following_count"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the credential-free projection used in search results
// and follower/following listings.
type UserSummary struct {
	ID             int64   `db:"id" json:"id"`
	Username       string  `db:"username" json:"username"`
	ProfilePicture *string `db:"profile_picture" json:"profile_picture"`
	FollowerCount  int     `db:"follower_count" json:"follower_count"`
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	ProfilePicture *string `json:"-"`
	AvatarKey      *string `json:"-"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Profile is the full public view of a user: the record minus credentials,
// plus the watch lists, both sides of the follow graph, and recent activity.
type Profile struct {
	User           *User            `json:"user"`
	Watchlist      []WatchlistItem  `json:"watchlist"`
	WatchedMovies  []WatchedMovie   `json:"watched_movies"`
	WatchedTV      []WatchedTVShow  `json:"watched_tv"`
	Following      []FollowingEntry `json:"following"`
	Followers      []FollowerEntry  `json:"followers"`
	RecentActivity []Activity       `json:"recent_activity"`
	IsFollowing    bool             `json:"is_following"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when attempting to create a user with a taken email
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)
