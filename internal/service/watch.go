package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/Rtvk-001/FilmHive/internal/database"
	"github.com/Rtvk-001/FilmHive/internal/model"
	"github.com/Rtvk-001/FilmHive/internal/queue"
	"github.com/Rtvk-001/FilmHive/internal/repository"
)

// WatchService owns a user's watchlist and seen lists plus the counters
// derived from them. Marking a title seen, bumping the counters, retiring
// the watchlist entry, and recording the activity all happen in one
// transaction, so the counters always agree with the lists.
type WatchService struct {
	txRunner     database.TxRunner
	watchRepo    repository.WatchRepository
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	publisher    queue.Publisher
}

func NewWatchService(
	txRunner database.TxRunner,
	watchRepo repository.WatchRepository,
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	publisher queue.Publisher,
) *WatchService {
	return &WatchService{
		txRunner:     txRunner,
		watchRepo:    watchRepo,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		publisher:    publisher,
	}
}

// AddToWatchlist puts a title on the user's watchlist and returns the
// updated list.
func (s *WatchService) AddToWatchlist(ctx context.Context, userID int64, req *model.AddWatchlistRequest) ([]model.WatchlistItem, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	activity := &model.Activity{
		UserID:   userID,
		Kind:     model.ActivityWatchlist,
		Content:  fmt.Sprintf("added %s to their watchlist", req.Title),
		TargetID: req.CatalogID,
		Image:    req.PosterPath,
	}

	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		item := &model.WatchlistItem{
			CatalogID:  req.CatalogID,
			Title:      req.Title,
			PosterPath: req.PosterPath,
		}
		inserted, err := s.watchRepo.AddWatchlistItem(ctx, tx, userID, item)
		if err != nil {
			return err
		}
		if !inserted {
			return model.ErrAlreadyInWatchlist
		}
		return s.activityRepo.Create(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.publishActivity(ctx, activity)

	return s.watchRepo.ListWatchlist(ctx, userID)
}

// RemoveFromWatchlist takes a title off the watchlist. Removing something
// that isn't there succeeds quietly; no activity is recorded either way.
func (s *WatchService) RemoveFromWatchlist(ctx context.Context, userID int64, catalogID string) ([]model.WatchlistItem, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		_, err := s.watchRepo.RemoveWatchlistItem(ctx, tx, userID, catalogID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.watchRepo.ListWatchlist(ctx, userID)
}

// MarkMovieSeen records a movie as watched: the seen entry, the movie and
// runtime counters, retiring any watchlist entry for the same title, and
// the activity are committed together.
func (s *WatchService) MarkMovieSeen(ctx context.Context, userID int64, req *model.MarkMovieSeenRequest) (*model.MovieSeenResponse, error) {
	activity := &model.Activity{
		UserID:   userID,
		Kind:     model.ActivitySeen,
		Content:  fmt.Sprintf("watched %s", req.Title),
		TargetID: req.CatalogID,
		Image:    req.PosterPath,
	}

	var moviesWatched, totalRuntime int
	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		movie := &model.WatchedMovie{
			CatalogID:      req.CatalogID,
			Title:          req.Title,
			PosterPath:     req.PosterPath,
			RuntimeMinutes: req.RuntimeMinutes,
		}
		inserted, err := s.watchRepo.AddWatchedMovie(ctx, tx, userID, movie)
		if err != nil {
			return err
		}
		if !inserted {
			return model.ErrAlreadySeen
		}

		moviesWatched, totalRuntime, err = s.userRepo.ApplyMovieSeen(ctx, tx, userID, req.RuntimeMinutes)
		if err != nil {
			return err
		}

		// Seeing a title retires it from the watchlist; absence is fine.
		if _, err := s.watchRepo.RemoveWatchlistItem(ctx, tx, userID, req.CatalogID); err != nil {
			return err
		}

		return s.activityRepo.Create(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.publishActivity(ctx, activity)

	watched, err := s.watchRepo.ListWatchedMovies(ctx, userID)
	if err != nil {
		return nil, err
	}
	watchlist, err := s.watchRepo.ListWatchlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.MovieSeenResponse{
		WatchedMovies: watched,
		Watchlist:     watchlist,
		MoviesWatched: moviesWatched,
		TotalRuntime:  totalRuntime,
	}, nil
}

// MarkTVSeen records a TV show as watched, bumping the show and episode
// counters in the same transaction as the seen entry.
func (s *WatchService) MarkTVSeen(ctx context.Context, userID int64, req *model.MarkTVSeenRequest) (*model.TVSeenResponse, error) {
	activity := &model.Activity{
		UserID:   userID,
		Kind:     model.ActivitySeen,
		Content:  fmt.Sprintf("watched %s (%d Seasons)", req.Name, req.TotalSeasons),
		TargetID: req.CatalogID,
		Image:    req.PosterPath,
	}

	var tvShowsWatched, episodesWatched int
	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		show := &model.WatchedTVShow{
			CatalogID:     req.CatalogID,
			Name:          req.Name,
			PosterPath:    req.PosterPath,
			TotalEpisodes: req.TotalEpisodes,
			TotalSeasons:  req.TotalSeasons,
		}
		inserted, err := s.watchRepo.AddWatchedTV(ctx, tx, userID, show)
		if err != nil {
			return err
		}
		if !inserted {
			return model.ErrAlreadySeen
		}

		tvShowsWatched, episodesWatched, err = s.userRepo.ApplyTVSeen(ctx, tx, userID, req.TotalEpisodes)
		if err != nil {
			return err
		}

		if _, err := s.watchRepo.RemoveWatchlistItem(ctx, tx, userID, req.CatalogID); err != nil {
			return err
		}

		return s.activityRepo.Create(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.publishActivity(ctx, activity)

	watched, err := s.watchRepo.ListWatchedTV(ctx, userID)
	if err != nil {
		return nil, err
	}
	watchlist, err := s.watchRepo.ListWatchlist(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.TVSeenResponse{
		WatchedTV:       watched,
		Watchlist:       watchlist,
		TVShowsWatched:  tvShowsWatched,
		EpisodesWatched: episodesWatched,
	}, nil
}

func (s *WatchService) publishActivity(ctx context.Context, activity *model.Activity) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.Publish(ctx, queue.StreamActivity, queue.NewActivityCreatedEvent(activity.ID, activity.UserID)); err != nil {
		log.Printf("[WatchService] Failed to publish ActivityCreated: user=%d activity=%d err=%v",
			activity.UserID, activity.ID, err)
	}
}
