package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Rtvk-001/FilmHive/internal/model"
)

type watchRepository struct {
	db *sqlx.DB
}

func NewWatchRepository(db *sqlx.DB) WatchRepository {
	return &watchRepository{db: db}
}

// AddWatchlistItem inserts a watchlist entry. ON CONFLICT DO NOTHING keeps
// duplicate adds race-safe; the service maps inserted=false to a conflict.
func (r *watchRepository) AddWatchlistItem(ctx context.Context, tx *sqlx.Tx, userID int64, item *model.WatchlistItem) (bool, error) {
	query := `
		INSERT INTO watchlist_items (user_id, catalog_id, title, poster_path)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, catalog_id) DO NOTHING
	`
	result, err := tx.ExecContext(ctx, query, userID, item.CatalogID, item.Title, item.PosterPath)
	if err != nil {
		return false, fmt.Errorf("failed to add watchlist item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// RemoveWatchlistItem deletes the entry if present. Absence is not an error.
func (r *watchRepository) RemoveWatchlistItem(ctx context.Context, tx *sqlx.Tx, userID int64, catalogID string) (bool, error) {
	query := `DELETE FROM watchlist_items WHERE user_id = $1 AND catalog_id = $2`
	result, err := tx.ExecContext(ctx, query, userID, catalogID)
	if err != nil {
		return false, fmt.Errorf("failed to remove watchlist item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *watchRepository) ListWatchlist(ctx context.Context, userID int64) ([]model.WatchlistItem, error) {
	query := `
		SELECT catalog_id, title, poster_path, added_at
		FROM watchlist_items
		WHERE user_id = $1
		ORDER BY added_at DESC
	`
	var items []model.WatchlistItem
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return items, nil
}

func (r *watchRepository) AddWatchedMovie(ctx context.Context, tx *sqlx.Tx, userID int64, m *model.WatchedMovie) (bool, error) {
	query := `
		INSERT INTO watched_movies (user_id, catalog_id, title, poster_path, runtime_minutes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, catalog_id) DO NOTHING
	`
	result, err := tx.ExecContext(ctx, query, userID, m.CatalogID, m.Title, m.PosterPath, m.RuntimeMinutes)
	if err != nil {
		return false, fmt.Errorf("failed to add watched movie: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *watchRepository) AddWatchedTV(ctx context.Context, tx *sqlx.Tx, userID int64, t *model.WatchedTVShow) (bool, error) {
	query := `
		INSERT INTO watched_tv (user_id, catalog_id, name, poster_path, total_episodes, total_seasons)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, catalog_id) DO NOTHING
	`
	result, err := tx.ExecContext(ctx, query, userID, t.CatalogID, t.Name, t.PosterPath, t.TotalEpisodes, t.TotalSeasons)
	if err != nil {
		return false, fmt.Errorf("failed to add watched tv: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *watchRepository) ListWatchedMovies(ctx context.Context, userID int64) ([]model.WatchedMovie, error) {
	query := `
		SELECT catalog_id, title, poster_path, runtime_minutes, seen_at
		FROM watched_movies
		WHERE user_id = $1
		ORDER BY seen_at DESC
	`
	var movies []model.WatchedMovie
	if err := r.db.SelectContext(ctx, &movies, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list watched movies: %w", err)
	}
	return movies, nil
}

func (r *watchRepository) ListWatchedTV(ctx context.Context, userID int64) ([]model.WatchedTVShow, error) {
	query := `
		SELECT catalog_id, name, poster_path, total_episodes, total_seasons, seen_at
		FROM watched_tv
		WHERE user_id = $1
		ORDER BY seen_at DESC
	`
	var shows []model.WatchedTVShow
	if err := r.db.SelectContext(ctx, &shows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list watched tv: %w", err)
	}
	return shows, nil
}
