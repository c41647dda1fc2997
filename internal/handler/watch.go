package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Rtvk-001/FilmHive/internal/httputil"
	"github.com/Rtvk-001/FilmHive/internal/model"
	"github.com/Rtvk-001/FilmHive/internal/service"
	"github.com/Rtvk-001/FilmHive/internal/transport/http/middleware"
)

// WatchHandler serves watchlist and seen-list mutations.
type WatchHandler struct {
	watchService *service.WatchService
}

func NewWatchHandler(watchService *service.WatchService) *WatchHandler {
	return &WatchHandler{watchService: watchService}
}

// AddToWatchlist puts a title on the caller's watchlist.
// POST /users/watchlist
func (h *WatchHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.AddWatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.CatalogID) == "" {
		httputil.WriteBadRequest(w, "Catalog ID is required")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		httputil.WriteBadRequest(w, "Title is required")
		return
	}

	watchlist, err := h.watchService.AddToWatchlist(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrAlreadyInWatchlist):
			httputil.WriteConflict(w, "Title is already in the watchlist")
		default:
			httputil.WriteInternalError(w, "Failed to add to watchlist")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"watchlist": watchlist,
	})
}

// RemoveFromWatchlist drops a title from the caller's watchlist. Removing
// an absent title still succeeds.
// DELETE /users/watchlist/{catalogId}
func (h *WatchHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	catalogID := chi.URLParam(r, "catalogId")
	if catalogID == "" {
		httputil.WriteBadRequest(w, "Catalog ID is required")
		return
	}

	watchlist, err := h.watchService.RemoveFromWatchlist(r.Context(), userID, catalogID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to remove from watchlist")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"watchlist": watchlist,
	})
}

// MarkMovieSeen records a movie as watched.
// POST /users/seen/movie
func (h *WatchHandler) MarkMovieSeen(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.MarkMovieSeenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.CatalogID) == "" {
		httputil.WriteBadRequest(w, "Catalog ID is required")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		httputil.WriteBadRequest(w, "Title is required")
		return
	}
	if req.RuntimeMinutes < 0 {
		httputil.WriteBadRequest(w, "Runtime cannot be negative")
		return
	}

	resp, err := h.watchService.MarkMovieSeen(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrAlreadySeen):
			httputil.WriteConflict(w, "Movie is already marked as seen")
		default:
			httputil.WriteInternalError(w, "Failed to mark movie as seen")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// MarkTVSeen records a TV show as watched.
// POST /users/seen/tv
func (h *WatchHandler) MarkTVSeen(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.MarkTVSeenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.CatalogID) == "" {
		httputil.WriteBadRequest(w, "Catalog ID is required")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httputil.WriteBadRequest(w, "Name is required")
		return
	}
	if req.TotalEpisodes < 0 || req.TotalSeasons < 0 {
		httputil.WriteBadRequest(w, "Episode and season counts cannot be negative")
		return
	}

	resp, err := h.watchService.MarkTVSeen(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrAlreadySeen):
			httputil.WriteConflict(w, "Show is already marked as seen")
		default:
			httputil.WriteInternalError(w, "Failed to mark show as seen")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
