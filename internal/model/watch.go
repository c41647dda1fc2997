package model

import (
	"errors"
	"time"
)

// WatchlistItem is a catalog title a user intends to watch.
// catalog_id is the opaque identifier assigned by the external catalog
// provider; we never interpret it beyond string equality.
type WatchlistItem struct {
	CatalogID  string    `db:"catalog_id" json:"catalog_id"`
	Title      string    `db:"title" json:"title"`
	PosterPath string    `db:"poster_path" json:"poster_path"`
	AddedAt    time.Time `db:"added_at" json:"added_at"`
}

// WatchedMovie is a movie the user has marked seen.
type WatchedMovie struct {
	CatalogID      string    `db:"catalog_id" json:"catalog_id"`
	Title          string    `db:"title" json:"title"`
	PosterPath     string    `db:"poster_path" json:"poster_path"`
	RuntimeMinutes int       `db:"runtime_minutes" json:"runtime_minutes"`
	SeenAt         time.Time `db:"seen_at" json:"seen_at"`
}

// WatchedTVShow is a TV show the user has marked seen.
type WatchedTVShow struct {
	CatalogID     string    `db:"catalog_id" json:"catalog_id"`
	Name          string    `db:"name" json:"name"`
	PosterPath    string    `db:"poster_path" json:"poster_path"`
	TotalEpisodes int       `db:"total_episodes" json:"total_episodes"`
	TotalSeasons  int       `db:"total_seasons" json:"total_seasons"`
	SeenAt        time.Time `db:"seen_at" json:"seen_at"`
}

// AddWatchlistRequest is the request body for POST /users/watchlist
type AddWatchlistRequest struct {
	CatalogID  string `json:"catalog_id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
}

// MarkMovieSeenRequest is the request body for POST /users/seen/movie
type MarkMovieSeenRequest struct {
	CatalogID      string `json:"catalog_id"`
	Title          string `json:"title"`
	PosterPath     string `json:"poster_path"`
	RuntimeMinutes int    `json:"runtime_minutes"`
}

// MarkTVSeenRequest is the request body for POST /users/seen/tv
type MarkTVSeenRequest struct {
	CatalogID     string `json:"catalog_id"`
	Name          string `json:"name"`
	PosterPath    string `json:"poster_path"`
	TotalEpisodes int    `json:"total_episodes"`
	TotalSeasons  int    `json:"total_seasons"`
}

// MovieSeenResponse carries everything the mark-seen transaction touched:
// the watched list, the retired watchlist, and the updated counters.
type MovieSeenResponse struct {
	WatchedMovies []WatchedMovie  `json:"watched_movies"`
	Watchlist     []WatchlistItem `json:"watchlist"`
	MoviesWatched int             `json:"movies_watched"`
	TotalRuntime  int             `json:"total_runtime"`
}

// TVSeenResponse is the TV counterpart of MovieSeenResponse.
type TVSeenResponse struct {
	WatchedTV       []WatchedTVShow `json:"watched_tv"`
	Watchlist       []WatchlistItem `json:"watchlist"`
	TVShowsWatched  int             `json:"tv_shows_watched"`
	EpisodesWatched int             `json:"episodes_watched"`
}

var (
	ErrAlreadyInWatchlist = errors.New("already in watchlist")
	ErrAlreadySeen        = errors.New("already marked as seen")
)
