package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Rtvk-001/FilmHive/internal/model"
)

// Methods that take a *sqlx.Tx participate in a caller-owned transaction;
// the service layer decides the transaction boundary so a follow edge, its
// counter bumps, and its activity entry commit or roll back as one unit.

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error)
	IncrementFollowerCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error
	IncrementFollowingCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error
	// ApplyMovieSeen bumps movies_watched and total_runtime, returning the
	// updated counter values.
	ApplyMovieSeen(ctx context.Context, tx *sqlx.Tx, userID int64, runtimeMinutes int) (moviesWatched, totalRuntime int, err error)
	// ApplyTVSeen bumps tv_shows_watched and episodes_watched, returning the
	// updated counter values.
	ApplyTVSeen(ctx context.Context, tx *sqlx.Tx, userID int64, episodes int) (tvShowsWatched, episodesWatched int, err error)
}

type FollowRepository interface {
	// Create inserts the edge; returns false without error when it already exists.
	Create(ctx context.Context, tx *sqlx.Tx, followerID int64, req *model.FollowRequest) (bool, error)
	// Delete removes the edge matching both id and kind; returns false without
	// error when no such edge exists, so a kind-mismatched unfollow is the same
	// no-op as an absent edge and never touches counters it did not delete.
	Delete(ctx context.Context, tx *sqlx.Tx, followerID int64, targetID, targetKind string) (bool, error)
	ListFollowing(ctx context.Context, followerID int64) ([]model.FollowingEntry, error)
	ListFollowers(ctx context.Context, userID int64) ([]model.FollowerEntry, error)
	Exists(ctx context.Context, followerID int64, targetID string) (bool, error)
	// GetFollowerIDs returns ids of users following userID (user-kind edges only).
	GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error)
	// GetFolloweeUserIDs returns ids of users that followerID follows,
	// skipping person targets.
	GetFolloweeUserIDs(ctx context.Context, followerID int64) ([]int64, error)
}

type WatchRepository interface {
	AddWatchlistItem(ctx context.Context, tx *sqlx.Tx, userID int64, item *model.WatchlistItem) (bool, error)
	RemoveWatchlistItem(ctx context.Context, tx *sqlx.Tx, userID int64, catalogID string) (bool, error)
	ListWatchlist(ctx context.Context, userID int64) ([]model.WatchlistItem, error)
	AddWatchedMovie(ctx context.Context, tx *sqlx.Tx, userID int64, m *model.WatchedMovie) (bool, error)
	AddWatchedTV(ctx context.Context, tx *sqlx.Tx, userID int64, t *model.WatchedTVShow) (bool, error)
	ListWatchedMovies(ctx context.Context, userID int64) ([]model.WatchedMovie, error)
	ListWatchedTV(ctx context.Context, userID int64) ([]model.WatchedTVShow, error)
}

type ActivityRepository interface {
	// Create appends one entry and fills in its id and timestamp.
	Create(ctx context.Context, tx *sqlx.Tx, activity *model.Activity) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.Activity, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.FeedItem, error)
	// GetRecentScoresByUser returns (id, created_at unix) pairs for feed
	// cache backfill, newest first.
	GetRecentScoresByUser(ctx context.Context, userID int64, limit int) ([]model.ActivityScore, error)
	// GetFeedScores reads the newest activity ids across a set of authors,
	// used to warm a cold feed cache straight from the database.
	GetFeedScores(ctx context.Context, userIDs []int64, limit int) ([]model.ActivityScore, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}
