package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Rtvk-001/FilmHive/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hashed, profile_picture, avatar_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, movies_watched, tv_shows_watched, episodes_watched, total_runtime,
		          follower_count, following_count, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHashed,
		u.ProfilePicture,
		u.AvatarKey,
	)

	err := row.Scan(
		&u.ID,
		&u.MoviesWatched,
		&u.TVShowsWatched,
		&u.EpisodesWatched,
		&u.TotalRuntime,
		&u.FollowerCount,
		&u.FollowingCount,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

const userColumns = `id, username, email, password_hashed, profile_picture, avatar_key,
		       movies_watched, tv_shows_watched, episodes_watched, total_runtime,
		       follower_count, following_count, created_at, updated_at`

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByUsername retrieves a user by their username (case-insensitive)
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// ExistsByUsername checks if a username is already taken. Uniqueness is
// case-insensitive to keep near-duplicate accounts out.
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// ExistsByEmail checks if an email is already registered (case-insensitive).
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// Search finds users whose username contains the query as a case-insensitive
// substring, most-followed first.
func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	searchQuery := `
		SELECT id, username, profile_picture, follower_count
		FROM users
		WHERE username ILIKE $1
		ORDER BY follower_count DESC
		LIMIT $2
	`

	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, searchQuery, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

func (r *userRepository) IncrementFollowerCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error {
	query := `UPDATE users SET follower_count = follower_count + $1, updated_at = NOW() WHERE id = $2`
	_, err := tx.ExecContext(ctx, query, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to increment follower count: %w", err)
	}
	return nil
}

func (r *userRepository) IncrementFollowingCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error {
	query := `UPDATE users SET following_count = following_count + $1, updated_at = NOW() WHERE id = $2`
	_, err := tx.ExecContext(ctx, query, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to increment following count: %w", err)
	}
	return nil
}

// ApplyMovieSeen bumps the movie counters in the same transaction that
// inserts the watched row, so the counters can never drift from the list.
func (r *userRepository) ApplyMovieSeen(ctx context.Context, tx *sqlx.Tx, userID int64, runtimeMinutes int) (int, int, error) {
	query := `
		UPDATE users
		SET movies_watched = movies_watched + 1,
		    total_runtime = total_runtime + $1,
		    updated_at = NOW()
		WHERE id = $2
		RETURNING movies_watched, total_runtime
	`
	var moviesWatched, totalRuntime int
	err := tx.QueryRowxContext(ctx, query, runtimeMinutes, userID).Scan(&moviesWatched, &totalRuntime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, model.ErrUserNotFound
		}
		return 0, 0, fmt.Errorf("failed to apply movie seen counters: %w", err)
	}
	return moviesWatched, totalRuntime, nil
}

// ApplyTVSeen bumps the TV counters, returning the updated values.
func (r *userRepository) ApplyTVSeen(ctx context.Context, tx *sqlx.Tx, userID int64, episodes int) (int, int, error) {
	query := `
		UPDATE users
		SET tv_shows_watched = tv_shows_watched + 1,
		    episodes_watched = episodes_watched + $1,
		    updated_at = NOW()
		WHERE id = $2
		RETURNING tv_shows_watched, episodes_watched
	`
	var tvShowsWatched, episodesWatched int
	err := tx.QueryRowxContext(ctx, query, episodes, userID).Scan(&tvShowsWatched, &episodesWatched)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, model.ErrUserNotFound
		}
		return 0, 0, fmt.Errorf("failed to apply tv seen counters: %w", err)
	}
	return tvShowsWatched, episodesWatched, nil
}
