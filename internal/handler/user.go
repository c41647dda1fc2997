package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Rtvk-001/FilmHive/internal/httputil"
	"github.com/Rtvk-001/FilmHive/internal/model"
	"github.com/Rtvk-001/FilmHive/internal/service"
	"github.com/Rtvk-001/FilmHive/internal/transport/http/middleware"
)

// UserHandler serves profile reads.
type UserHandler struct {
	userService   *service.UserService
	followService *service.FollowService
}

func NewUserHandler(userService *service.UserService, followService *service.FollowService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		followService: followService,
	}
}

// GetProfile returns a user's full profile. Signed-in viewers also get
// whether they follow this user.
// GET /users/{id}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	var viewerID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	profile, err := h.userService.GetProfile(r.Context(), userID, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// GetFollowers returns the users following the given user.
// GET /users/{id}/followers
func (h *UserHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	followers, err := h.followService.GetFollowers(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get followers")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"followers": followers,
	})
}

// GetFollowing returns who the given user follows.
// GET /users/{id}/following
func (h *UserHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	following, err := h.followService.GetFollowing(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get following")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"following": following,
	})
}
