package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Rtvk-001/FilmHive/internal/cache"
	"github.com/Rtvk-001/FilmHive/internal/model"
	"github.com/Rtvk-001/FilmHive/internal/queue"
)

// BackfillLimit caps how many of a followee's recent entries are copied into
// a follower's feed cache on follow (and pruned on unfollow).
const BackfillLimit = 100

// FollowerProvider abstracts the follow repository so the worker does not
// depend on the database package directly.
type FollowerProvider interface {
	// GetFollowerIDs returns ids of users following the given user.
	GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error)
}

// ActivityProvider fetches recent activity entries for feed backfill/prune.
type ActivityProvider interface {
	GetRecentScoresByUser(ctx context.Context, userID int64, limit int) ([]model.ActivityScore, error)
}

// Handler processes activity events from the queue, maintaining follower
// feed caches. Every operation here is repair-safe: the cache is derived
// state and handlers are idempotent, so redelivered messages are harmless.
type Handler struct {
	feedCache        cache.FeedCache
	followerProvider FollowerProvider
	activityProvider ActivityProvider
}

// NewHandler creates a new event handler.
func NewHandler(feedCache cache.FeedCache, followerProvider FollowerProvider, activityProvider ActivityProvider) *Handler {
	return &Handler{
		feedCache:        feedCache,
		followerProvider: followerProvider,
		activityProvider: activityProvider,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ActivityEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventActivityCreated:
		err = h.handleActivityCreated(ctx, event)
	case queue.EventUserFollowed:
		err = h.handleUserFollowed(ctx, event)
	case queue.EventUserUnfollowed:
		err = h.handleUserUnfollowed(ctx, event)
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleActivityCreated fans a new activity entry out to the feed caches of
// every follower of its author.
func (h *Handler) handleActivityCreated(ctx context.Context, event queue.ActivityEvent) error {
	followers, err := h.followerProvider.GetFollowerIDs(ctx, event.ActorID)
	if err != nil {
		return fmt.Errorf("get followers: %w", err)
	}

	var failCount int
	for _, followerID := range followers {
		if err := h.feedCache.AddActivity(ctx, followerID, event.ActivityID, event.Timestamp); err != nil {
			// Keep fanning out to the remaining followers
			failCount++
		}
	}

	log.Printf("[Worker] ActivityCreated DONE: activity=%d actor=%d fanout=%d failed=%d",
		event.ActivityID, event.ActorID, len(followers), failCount)
	return nil
}

// handleUserFollowed backfills the followee's recent activity into the new
// follower's feed cache.
func (h *Handler) handleUserFollowed(ctx context.Context, event queue.ActivityEvent) error {
	entries, err := h.activityProvider.GetRecentScoresByUser(ctx, event.FolloweeID, BackfillLimit)
	if err != nil {
		return fmt.Errorf("get recent activity: %w", err)
	}

	if err := h.feedCache.WarmCache(ctx, event.FollowerID, entries); err != nil {
		return fmt.Errorf("backfill feed: %w", err)
	}

	log.Printf("[Worker] UserFollowed DONE: follower=%d followee=%d backfilled=%d",
		event.FollowerID, event.FolloweeID, len(entries))
	return nil
}

// handleUserUnfollowed prunes the followee's recent activity from the
// follower's feed cache. Entries older than the backfill window age out via
// the cache cap and TTL.
func (h *Handler) handleUserUnfollowed(ctx context.Context, event queue.ActivityEvent) error {
	entries, err := h.activityProvider.GetRecentScoresByUser(ctx, event.FolloweeID, BackfillLimit)
	if err != nil {
		return fmt.Errorf("get recent activity: %w", err)
	}

	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.ActivityID
	}

	if err := h.feedCache.RemoveActivities(ctx, event.FollowerID, ids); err != nil {
		return fmt.Errorf("prune feed: %w", err)
	}

	log.Printf("[Worker] UserUnfollowed DONE: follower=%d followee=%d pruned=%d",
		event.FollowerID, event.FolloweeID, len(ids))
	return nil
}
