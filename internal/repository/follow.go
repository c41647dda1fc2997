package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/Rtvk-001/FilmHive/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts a follow edge. ON CONFLICT DO NOTHING makes concurrent
// duplicate follows race-safe: exactly one caller sees inserted=true.
func (r *followRepository) Create(ctx context.Context, tx *sqlx.Tx, followerID int64, req *model.FollowRequest) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, target_id, target_kind, target_name, target_image)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (follower_id, target_id) DO NOTHING
	`
	result, err := tx.ExecContext(ctx, query, followerID, req.TargetID, req.Kind, req.Name, req.Image)
	if err != nil {
		return false, fmt.Errorf("failed to create follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Delete removes a follow edge. The kind must match the stored edge: the
// caller decides counter updates from the request's kind, so a kind-mismatched
// delete must fall through to the no-op path instead of removing an edge whose
// counters it would then skip. A missing edge is reported as deleted=false,
// not an error; unfollow is idempotent at this layer.
func (r *followRepository) Delete(ctx context.Context, tx *sqlx.Tx, followerID int64, targetID, targetKind string) (bool, error) {
	query := `DELETE FROM follows WHERE follower_id = $1 AND target_id = $2 AND target_kind = $3`
	result, err := tx.ExecContext(ctx, query, followerID, targetID, targetKind)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// ListFollowing returns the follower's outgoing edges, newest first.
func (r *followRepository) ListFollowing(ctx context.Context, followerID int64) ([]model.FollowingEntry, error) {
	query := `
		SELECT target_id, target_kind, target_name, target_image, created_at
		FROM follows
		WHERE follower_id = $1
		ORDER BY created_at DESC
	`
	var entries []model.FollowingEntry
	if err := r.db.SelectContext(ctx, &entries, query, followerID); err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return entries, nil
}

// ListFollowers returns the incoming user-kind edges for a user, joined
// back to users for current username and picture. Because this is the same
// row the follower's following list reads, the two views cannot disagree.
func (r *followRepository) ListFollowers(ctx context.Context, userID int64) ([]model.FollowerEntry, error) {
	query := `
		SELECT f.follower_id, u.username AS follower_username,
		       u.profile_picture AS follower_picture, f.created_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.target_kind = 'user' AND f.target_id = $1
		ORDER BY f.created_at DESC
	`
	var entries []model.FollowerEntry
	if err := r.db.SelectContext(ctx, &entries, query, strconv.FormatInt(userID, 10)); err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return entries, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID int64, targetID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND target_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, followerID, targetID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// GetFollowerIDs returns ids of users who follow the given user.
// Used by the worker to fan an activity out to follower feed caches.
func (r *followRepository) GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT follower_id FROM follows WHERE target_kind = 'user' AND target_id = $1`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, strconv.FormatInt(userID, 10)); err != nil {
		return nil, fmt.Errorf("failed to get follower ids: %w", err)
	}
	return ids, nil
}

// GetFolloweeUserIDs returns the user-kind targets a follower follows.
// Person targets have no activity of their own, so they never appear here.
func (r *followRepository) GetFolloweeUserIDs(ctx context.Context, followerID int64) ([]int64, error) {
	query := `
		SELECT CAST(target_id AS BIGINT)
		FROM follows
		WHERE follower_id = $1 AND target_kind = 'user'
	`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, followerID); err != nil {
		return nil, fmt.Errorf("failed to get followee ids: %w", err)
	}
	return ids, nil
}
