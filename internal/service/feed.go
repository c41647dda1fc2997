package service

import (
	"context"
	"log"
	"strconv"

	"github.com/Rtvk-001/FilmHive/internal/cache"
	"github.com/Rtvk-001/FilmHive/internal/model"
	"github.com/Rtvk-001/FilmHive/internal/repository"
)

const (
	// FeedDefaultLimit is the page size when the client doesn't ask for one.
	FeedDefaultLimit = 20

	// FeedMaxLimit caps the page size a client may request.
	FeedMaxLimit = 50

	// FeedWarmLimit is how many entries a cold cache is seeded with.
	FeedWarmLimit = 200
)

// FeedService serves a user's activity feed: entries authored by the users
// they follow, newest first. Reads go through the Redis cache; a cold cache
// is warmed from Postgres on first access, and a broken cache falls back to
// Postgres directly.
type FeedService struct {
	feedCache    cache.FeedCache
	activityRepo repository.ActivityRepository
	followRepo   repository.FollowRepository
}

func NewFeedService(
	feedCache cache.FeedCache,
	activityRepo repository.ActivityRepository,
	followRepo repository.FollowRepository,
) *FeedService {
	return &FeedService{
		feedCache:    feedCache,
		activityRepo: activityRepo,
		followRepo:   followRepo,
	}
}

// GetFeed returns a page of the user's feed. The cursor is the score of the
// last entry of the previous page; passing it back returns strictly older
// entries.
func (s *FeedService) GetFeed(ctx context.Context, userID int64, cursor *float64, limit int) (*model.FeedResponse, error) {
	if limit <= 0 {
		limit = FeedDefaultLimit
	}
	if limit > FeedMaxLimit {
		limit = FeedMaxLimit
	}

	if err := s.ensureWarm(ctx, userID); err != nil {
		log.Printf("[FeedService] Cache warm failed, falling back to database: user=%d err=%v", userID, err)
		return s.feedFromDatabase(ctx, userID, limit)
	}

	// Over-fetch by one to learn whether another page exists.
	ids, scores, err := s.feedCache.GetFeed(ctx, userID, cursor, limit+1)
	if err != nil {
		log.Printf("[FeedService] Cache read failed, falling back to database: user=%d err=%v", userID, err)
		return s.feedFromDatabase(ctx, userID, limit)
	}

	hasMore := len(ids) > limit
	if hasMore {
		ids = ids[:limit]
		scores = scores[:limit]
	}

	items, err := s.hydrate(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &model.FeedResponse{
		Items:   items,
		HasMore: hasMore,
	}
	if hasMore && len(scores) > 0 {
		cursorStr := strconv.FormatFloat(scores[len(scores)-1], 'f', -1, 64)
		resp.NextCursor = &cursorStr
	}
	return resp, nil
}

// ensureWarm seeds the cache from Postgres when the user's feed key is cold.
func (s *FeedService) ensureWarm(ctx context.Context, userID int64) error {
	exists, err := s.feedCache.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	followeeIDs, err := s.followRepo.GetFolloweeUserIDs(ctx, userID)
	if err != nil {
		return err
	}
	if len(followeeIDs) == 0 {
		// Nothing to warm with; an empty feed is correct.
		return nil
	}

	scores, err := s.activityRepo.GetFeedScores(ctx, followeeIDs, FeedWarmLimit)
	if err != nil {
		return err
	}
	return s.feedCache.WarmCache(ctx, userID, scores)
}

// feedFromDatabase serves the first page straight from Postgres when Redis
// is unavailable. Cursor pagination needs the cache, so the fallback always
// reports no further pages.
func (s *FeedService) feedFromDatabase(ctx context.Context, userID int64, limit int) (*model.FeedResponse, error) {
	followeeIDs, err := s.followRepo.GetFolloweeUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followeeIDs) == 0 {
		return &model.FeedResponse{Items: []model.FeedItem{}}, nil
	}

	scores, err := s.activityRepo.GetFeedScores(ctx, followeeIDs, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(scores))
	for i, sc := range scores {
		ids[i] = sc.ActivityID
	}

	items, err := s.hydrate(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &model.FeedResponse{Items: items}, nil
}

func (s *FeedService) hydrate(ctx context.Context, ids []int64) ([]model.FeedItem, error) {
	if len(ids) == 0 {
		return []model.FeedItem{}, nil
	}
	return s.activityRepo.GetByIDs(ctx, ids)
}
