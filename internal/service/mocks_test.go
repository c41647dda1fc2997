package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Rtvk-001/FilmHive/internal/model"
	"github.com/Rtvk-001/FilmHive/internal/queue"
)

// Unit tests never touch Postgres. The repositories are mocked behind their
// interfaces with per-test function fields, and the transaction runner just
// invokes the callback with a nil *sqlx.Tx; the mocks ignore the tx argument
// the same way the real transaction would carry it.

// mockTxRunner runs the callback directly, recording whether the
// "transaction" committed (fn returned nil) or rolled back.
type mockTxRunner struct {
	commits   int
	rollbacks int
}

func (m *mockTxRunner) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if err := fn(nil); err != nil {
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

// ----------------------------------------------------------------------------

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	searchFn           func(ctx context.Context, query string, limit int) ([]model.UserSummary, error)
	applyMovieSeenFn   func(ctx context.Context, userID int64, runtimeMinutes int) (int, int, error)
	applyTVSeenFn      func(ctx context.Context, userID int64, episodes int) (int, int, error)

	createCalls []*model.User

	// Counter deltas recorded per call, for asserting exact bump behavior.
	followerDeltas  []counterDelta
	followingDeltas []counterDelta
}

type counterDelta struct {
	UserID int64
	Delta  int
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return []model.UserSummary{}, nil
}

func (m *mockUserRepository) IncrementFollowerCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error {
	m.followerDeltas = append(m.followerDeltas, counterDelta{UserID: userID, Delta: delta})
	return nil
}

func (m *mockUserRepository) IncrementFollowingCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error {
	m.followingDeltas = append(m.followingDeltas, counterDelta{UserID: userID, Delta: delta})
	return nil
}

func (m *mockUserRepository) ApplyMovieSeen(ctx context.Context, tx *sqlx.Tx, userID int64, runtimeMinutes int) (int, int, error) {
	if m.applyMovieSeenFn != nil {
		return m.applyMovieSeenFn(ctx, userID, runtimeMinutes)
	}
	return 1, runtimeMinutes, nil
}

func (m *mockUserRepository) ApplyTVSeen(ctx context.Context, tx *sqlx.Tx, userID int64, episodes int) (int, int, error) {
	if m.applyTVSeenFn != nil {
		return m.applyTVSeenFn(ctx, userID, episodes)
	}
	return 1, episodes, nil
}

// ----------------------------------------------------------------------------

type mockFollowRepository struct {
	createFn             func(ctx context.Context, followerID int64, req *model.FollowRequest) (bool, error)
	deleteFn             func(ctx context.Context, followerID int64, targetID, targetKind string) (bool, error)
	listFollowingFn      func(ctx context.Context, followerID int64) ([]model.FollowingEntry, error)
	listFollowersFn      func(ctx context.Context, userID int64) ([]model.FollowerEntry, error)
	existsFn             func(ctx context.Context, followerID int64, targetID string) (bool, error)
	getFollowerIDsFn     func(ctx context.Context, userID int64) ([]int64, error)
	getFolloweeUserIDsFn func(ctx context.Context, followerID int64) ([]int64, error)

	createCalls int
	deleteCalls int
}

func (m *mockFollowRepository) Create(ctx context.Context, tx *sqlx.Tx, followerID int64, req *model.FollowRequest) (bool, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, followerID, req)
	}
	return true, nil
}

func (m *mockFollowRepository) Delete(ctx context.Context, tx *sqlx.Tx, followerID int64, targetID, targetKind string) (bool, error) {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, followerID, targetID, targetKind)
	}
	return true, nil
}

func (m *mockFollowRepository) ListFollowing(ctx context.Context, followerID int64) ([]model.FollowingEntry, error) {
	if m.listFollowingFn != nil {
		return m.listFollowingFn(ctx, followerID)
	}
	return []model.FollowingEntry{}, nil
}

func (m *mockFollowRepository) ListFollowers(ctx context.Context, userID int64) ([]model.FollowerEntry, error) {
	if m.listFollowersFn != nil {
		return m.listFollowersFn(ctx, userID)
	}
	return []model.FollowerEntry{}, nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID int64, targetID string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, targetID)
	}
	return false, nil
}

func (m *mockFollowRepository) GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.getFollowerIDsFn != nil {
		return m.getFollowerIDsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockFollowRepository) GetFolloweeUserIDs(ctx context.Context, followerID int64) ([]int64, error) {
	if m.getFolloweeUserIDsFn != nil {
		return m.getFolloweeUserIDsFn(ctx, followerID)
	}
	return nil, nil
}

// ----------------------------------------------------------------------------

type mockWatchRepository struct {
	addWatchlistItemFn    func(ctx context.Context, userID int64, item *model.WatchlistItem) (bool, error)
	removeWatchlistItemFn func(ctx context.Context, userID int64, catalogID string) (bool, error)
	listWatchlistFn       func(ctx context.Context, userID int64) ([]model.WatchlistItem, error)
	addWatchedMovieFn     func(ctx context.Context, userID int64, mv *model.WatchedMovie) (bool, error)
	addWatchedTVFn        func(ctx context.Context, userID int64, tv *model.WatchedTVShow) (bool, error)
	listWatchedMoviesFn   func(ctx context.Context, userID int64) ([]model.WatchedMovie, error)
	listWatchedTVFn       func(ctx context.Context, userID int64) ([]model.WatchedTVShow, error)

	removeCalls []string
}

func (m *mockWatchRepository) AddWatchlistItem(ctx context.Context, tx *sqlx.Tx, userID int64, item *model.WatchlistItem) (bool, error) {
	if m.addWatchlistItemFn != nil {
		return m.addWatchlistItemFn(ctx, userID, item)
	}
	return true, nil
}

func (m *mockWatchRepository) RemoveWatchlistItem(ctx context.Context, tx *sqlx.Tx, userID int64, catalogID string) (bool, error) {
	m.removeCalls = append(m.removeCalls, catalogID)
	if m.removeWatchlistItemFn != nil {
		return m.removeWatchlistItemFn(ctx, userID, catalogID)
	}
	return true, nil
}

func (m *mockWatchRepository) ListWatchlist(ctx context.Context, userID int64) ([]model.WatchlistItem, error) {
	if m.listWatchlistFn != nil {
		return m.listWatchlistFn(ctx, userID)
	}
	return []model.WatchlistItem{}, nil
}

func (m *mockWatchRepository) AddWatchedMovie(ctx context.Context, tx *sqlx.Tx, userID int64, mv *model.WatchedMovie) (bool, error) {
	if m.addWatchedMovieFn != nil {
		return m.addWatchedMovieFn(ctx, userID, mv)
	}
	return true, nil
}

func (m *mockWatchRepository) AddWatchedTV(ctx context.Context, tx *sqlx.Tx, userID int64, tv *model.WatchedTVShow) (bool, error) {
	if m.addWatchedTVFn != nil {
		return m.addWatchedTVFn(ctx, userID, tv)
	}
	return true, nil
}

func (m *mockWatchRepository) ListWatchedMovies(ctx context.Context, userID int64) ([]model.WatchedMovie, error) {
	if m.listWatchedMoviesFn != nil {
		return m.listWatchedMoviesFn(ctx, userID)
	}
	return []model.WatchedMovie{}, nil
}

func (m *mockWatchRepository) ListWatchedTV(ctx context.Context, userID int64) ([]model.WatchedTVShow, error) {
	if m.listWatchedTVFn != nil {
		return m.listWatchedTVFn(ctx, userID)
	}
	return []model.WatchedTVShow{}, nil
}

// ----------------------------------------------------------------------------

type mockActivityRepository struct {
	createFn                func(ctx context.Context, activity *model.Activity) error
	listByUserFn            func(ctx context.Context, userID int64, limit int) ([]model.Activity, error)
	getByIDsFn              func(ctx context.Context, ids []int64) ([]model.FeedItem, error)
	getRecentScoresByUserFn func(ctx context.Context, userID int64, limit int) ([]model.ActivityScore, error)
	getFeedScoresFn         func(ctx context.Context, userIDs []int64, limit int) ([]model.ActivityScore, error)

	createCalls []*model.Activity
}

func (m *mockActivityRepository) Create(ctx context.Context, tx *sqlx.Tx, activity *model.Activity) error {
	m.createCalls = append(m.createCalls, activity)
	if m.createFn != nil {
		return m.createFn(ctx, activity)
	}
	activity.ID = int64(len(m.createCalls))
	return nil
}

func (m *mockActivityRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Activity, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, limit)
	}
	return []model.Activity{}, nil
}

func (m *mockActivityRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.FeedItem, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return []model.FeedItem{}, nil
}

func (m *mockActivityRepository) GetRecentScoresByUser(ctx context.Context, userID int64, limit int) ([]model.ActivityScore, error) {
	if m.getRecentScoresByUserFn != nil {
		return m.getRecentScoresByUserFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockActivityRepository) GetFeedScores(ctx context.Context, userIDs []int64, limit int) ([]model.ActivityScore, error) {
	if m.getFeedScoresFn != nil {
		return m.getFeedScoresFn(ctx, userIDs, limit)
	}
	return nil, nil
}

// ----------------------------------------------------------------------------

type publishedEvent struct {
	Stream string
	Event  queue.ActivityEvent
}

type mockPublisher struct {
	publishFn func(ctx context.Context, stream string, event queue.ActivityEvent) (string, error)

	published []publishedEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.ActivityEvent) (string, error) {
	m.published = append(m.published, publishedEvent{Stream: stream, Event: event})
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "1-0", nil
}

// ----------------------------------------------------------------------------

type mockFeedCache struct {
	addActivityFn      func(ctx context.Context, userID, activityID, timestamp int64) error
	removeActivitiesFn func(ctx context.Context, userID int64, activityIDs []int64) error
	getFeedFn          func(ctx context.Context, userID int64, cursorScore *float64, limit int) ([]int64, []float64, error)
	warmCacheFn        func(ctx context.Context, userID int64, entries []model.ActivityScore) error
	existsFn           func(ctx context.Context, userID int64) (bool, error)

	warmCalls int
}

func (m *mockFeedCache) AddActivity(ctx context.Context, userID, activityID, timestamp int64) error {
	if m.addActivityFn != nil {
		return m.addActivityFn(ctx, userID, activityID, timestamp)
	}
	return nil
}

func (m *mockFeedCache) RemoveActivities(ctx context.Context, userID int64, activityIDs []int64) error {
	if m.removeActivitiesFn != nil {
		return m.removeActivitiesFn(ctx, userID, activityIDs)
	}
	return nil
}

func (m *mockFeedCache) GetFeed(ctx context.Context, userID int64, cursorScore *float64, limit int) ([]int64, []float64, error) {
	if m.getFeedFn != nil {
		return m.getFeedFn(ctx, userID, cursorScore, limit)
	}
	return nil, nil, nil
}

func (m *mockFeedCache) WarmCache(ctx context.Context, userID int64, entries []model.ActivityScore) error {
	m.warmCalls++
	if m.warmCacheFn != nil {
		return m.warmCacheFn(ctx, userID, entries)
	}
	return nil
}

func (m *mockFeedCache) Exists(ctx context.Context, userID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, userID)
	}
	return true, nil
}
