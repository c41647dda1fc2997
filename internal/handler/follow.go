package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Rtvk-001/FilmHive/internal/httputil"
	"github.com/Rtvk-001/FilmHive/internal/model"
	"github.com/Rtvk-001/FilmHive/internal/service"
	"github.com/Rtvk-001/FilmHive/internal/transport/http/middleware"
)

// FollowHandler serves follow graph mutations.
type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// Follow adds a follow edge and returns the updated following list.
// POST /users/follow
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.TargetID) == "" {
		httputil.WriteBadRequest(w, "Target ID is required")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httputil.WriteBadRequest(w, "Target name is required")
		return
	}

	following, err := h.followService.Follow(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidTargetKind):
			httputil.WriteBadRequest(w, "Kind must be \"user\" or \"person\"")
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, "Cannot follow yourself")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "Target user not found")
		case errors.Is(err, model.ErrAlreadyFollowing):
			httputil.WriteConflict(w, "Already following this target")
		default:
			httputil.WriteInternalError(w, "Failed to follow")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"following": following,
	})
}

// Unfollow removes a follow edge and returns the updated following list.
// Unfollowing a target that isn't followed is a successful no-op.
// POST /users/unfollow
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.UnfollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.TargetID) == "" {
		httputil.WriteBadRequest(w, "Target ID is required")
		return
	}

	following, err := h.followService.Unfollow(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidTargetKind) {
			httputil.WriteBadRequest(w, "Kind must be \"user\" or \"person\"")
			return
		}
		httputil.WriteInternalError(w, "Failed to unfollow")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"following": following,
	})
}
