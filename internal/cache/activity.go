package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rtvk-001/FilmHive/internal/model"
)

const (
	// FeedCachePrefix is the key prefix for per-user activity feed caches
	FeedCachePrefix = "feed:user:"

	// FeedCacheCap is the maximum number of activity entries cached per user
	FeedCacheCap = 500

	// FeedCacheTTL is the TTL for feed caches (7 days)
	FeedCacheTTL = 7 * 24 * time.Hour
)

// FeedCache holds, per user, the ids of recent activity entries authored by
// the users they follow, scored by creation time. It is derived state: a
// miss or a lost key is always recoverable from Postgres.
type FeedCache interface {
	// AddActivity adds one activity to a user's feed cache.
	// Pipeline: ZADD + ZREMRANGEBYRANK (maintain cap) + EXPIRE (refresh TTL).
	AddActivity(ctx context.Context, userID, activityID, timestamp int64) error

	// RemoveActivities removes a batch of activities from a user's feed cache.
	RemoveActivities(ctx context.Context, userID int64, activityIDs []int64) error

	// GetFeed returns activity ids newest-first. A nil cursor starts from the
	// top; otherwise only entries scored strictly below the cursor return.
	GetFeed(ctx context.Context, userID int64, cursorScore *float64, limit int) (activityIDs []int64, scores []float64, err error)

	// WarmCache bulk-inserts entries into a user's feed cache.
	WarmCache(ctx context.Context, userID int64, entries []model.ActivityScore) error

	// Exists reports whether the user has a feed cache key at all. False
	// means cold (new user or TTL expiry) and the caller should warm it.
	Exists(ctx context.Context, userID int64) (bool, error)
}

// RedisFeedCache implements FeedCache on Redis sorted sets.
type RedisFeedCache struct {
	client *redis.Client
}

// NewFeedCache creates a FeedCache backed by Redis.
func NewFeedCache(client *redis.Client) FeedCache {
	return &RedisFeedCache{client: client}
}

func feedKey(userID int64) string {
	return fmt.Sprintf("%s%d", FeedCachePrefix, userID)
}

func (c *RedisFeedCache) AddActivity(ctx context.Context, userID, activityID, timestamp int64) error {
	key := feedKey(userID)

	pipe := c.client.Pipeline()

	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(timestamp),
		Member: strconv.FormatInt(activityID, 10),
	})

	// Keep only the newest FeedCacheCap entries; rank 0 is the oldest.
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-FeedCacheCap-1))

	pipe.Expire(ctx, key, FeedCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[FeedCache] AddActivity FAILED: user=%d activity=%d err=%v", userID, activityID, err)
		return fmt.Errorf("add activity to feed: %w", err)
	}
	return nil
}

func (c *RedisFeedCache) RemoveActivities(ctx context.Context, userID int64, activityIDs []int64) error {
	if len(activityIDs) == 0 {
		return nil
	}

	key := feedKey(userID)
	members := make([]interface{}, len(activityIDs))
	for i, id := range activityIDs {
		members[i] = strconv.FormatInt(id, 10)
	}

	if err := c.client.ZRem(ctx, key, members...).Err(); err != nil {
		log.Printf("[FeedCache] RemoveActivities FAILED: user=%d count=%d err=%v", userID, len(activityIDs), err)
		return fmt.Errorf("remove activities from feed: %w", err)
	}
	return nil
}

func (c *RedisFeedCache) GetFeed(ctx context.Context, userID int64, cursorScore *float64, limit int) ([]int64, []float64, error) {
	key := feedKey(userID)

	var results []redis.Z
	var err error

	if cursorScore == nil {
		results, err = c.client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	} else {
		// "(" makes the cursor bound exclusive.
		results, err = c.client.ZRevRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
			Min:    "-inf",
			Max:    fmt.Sprintf("(%f", *cursorScore),
			Offset: 0,
			Count:  int64(limit),
		}).Result()
	}

	if err != nil {
		log.Printf("[FeedCache] GetFeed FAILED: user=%d err=%v", userID, err)
		return nil, nil, fmt.Errorf("get feed: %w", err)
	}

	// Refresh TTL on access
	c.client.Expire(ctx, key, FeedCacheTTL)

	activityIDs := make([]int64, len(results))
	scores := make([]float64, len(results))
	for i, z := range results {
		id, err := strconv.ParseInt(z.Member.(string), 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parse activity id: %w", err)
		}
		activityIDs[i] = id
		scores[i] = z.Score
	}

	return activityIDs, scores, nil
}

func (c *RedisFeedCache) WarmCache(ctx context.Context, userID int64, entries []model.ActivityScore) error {
	if len(entries) == 0 {
		return nil
	}

	key := feedKey(userID)

	members := make([]redis.Z, len(entries))
	for i, e := range entries {
		members[i] = redis.Z{
			Score:  float64(e.Timestamp),
			Member: strconv.FormatInt(e.ActivityID, 10),
		}
	}

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, key, members...)
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-FeedCacheCap-1))
	pipe.Expire(ctx, key, FeedCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[FeedCache] WarmCache FAILED: user=%d entries=%d err=%v", userID, len(entries), err)
		return fmt.Errorf("warm cache: %w", err)
	}

	log.Printf("[FeedCache] WarmCache OK: user=%d entries=%d", userID, len(entries))
	return nil
}

func (c *RedisFeedCache) Exists(ctx context.Context, userID int64) (bool, error) {
	exists, err := c.client.Exists(ctx, feedKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check cache exists: %w", err)
	}
	return exists > 0, nil
}
