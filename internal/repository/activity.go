package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Rtvk-001/FilmHive/internal/model"
)

type activityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create appends one activity entry inside the caller's transaction.
// Entries are append-only: there is no update or delete path anywhere in
// this repository.
func (r *activityRepository) Create(ctx context.Context, tx *sqlx.Tx, a *model.Activity) error {
	query := `
		INSERT INTO activities (user_id, kind, content, target_id, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := tx.QueryRowxContext(ctx, query, a.UserID, a.Kind, a.Content, a.TargetID, a.Image).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// ListByUser returns a user's own log, newest first.
func (r *activityRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Activity, error) {
	query := `
		SELECT id, user_id, kind, content, target_id, image, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	var entries []model.Activity
	if err := r.db.SelectContext(ctx, &entries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return entries, nil
}

// GetByIDs hydrates feed items for a batch of activity ids in one query,
// newest first.
func (r *activityRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.FeedItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT a.id, a.user_id, a.kind, a.content, a.target_id, a.image, a.created_at,
		       u.username AS actor_username, u.profile_picture AS actor_picture
		FROM activities a
		JOIN users u ON u.id = a.user_id
		WHERE a.id = ANY($1)
		ORDER BY a.created_at DESC, a.id DESC
	`
	var items []model.FeedItem
	err := r.db.SelectContext(ctx, &items, query, pq.Array(ids))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get activities by ids: %w", err)
	}
	return items, nil
}

// GetRecentScoresByUser returns the newest activity ids for one author,
// used to backfill a follower's feed cache after a follow.
func (r *activityRepository) GetRecentScoresByUser(ctx context.Context, userID int64, limit int) ([]model.ActivityScore, error) {
	query := `
		SELECT id, EXTRACT(EPOCH FROM created_at)::BIGINT AS ts
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	var scores []model.ActivityScore
	if err := r.db.SelectContext(ctx, &scores, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent activity scores: %w", err)
	}
	return scores, nil
}

// GetFeedScores reads the newest activity ids across a set of authors,
// used to warm a cold feed cache straight from the database.
func (r *activityRepository) GetFeedScores(ctx context.Context, userIDs []int64, limit int) ([]model.ActivityScore, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, EXTRACT(EPOCH FROM created_at)::BIGINT AS ts
		FROM activities
		WHERE user_id = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	var scores []model.ActivityScore
	err := r.db.SelectContext(ctx, &scores, query, pq.Array(userIDs), limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get feed scores: %w", err)
	}
	return scores, nil
}
