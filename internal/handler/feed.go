package handler

import (
	"net/http"
	"strconv"

	"github.com/Rtvk-001/FilmHive/internal/httputil"
	"github.com/Rtvk-001/FilmHive/internal/service"
	"github.com/Rtvk-001/FilmHive/internal/transport/http/middleware"
)

// FeedHandler serves the activity feed.
type FeedHandler struct {
	feedService *service.FeedService
}

func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// GetFeed returns a page of activity from followed users, newest first.
// GET /feed?cursor=&limit=
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var cursor *float64
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid cursor")
			return
		}
		cursor = &score
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteBadRequest(w, "Invalid limit")
			return
		}
		limit = n
	}

	feed, err := h.feedService.GetFeed(r.Context(), userID, cursor, limit)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to get feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, feed)
}
