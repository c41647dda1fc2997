package handler

import (
	"net/http"
	"strings"

	"github.com/Rtvk-001/FilmHive/internal/httputil"
	"github.com/Rtvk-001/FilmHive/internal/service"
)

// SearchHandler serves the federated search endpoint.
type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search merges local user matches with external catalog results.
// GET /search?q=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		httputil.WriteBadRequest(w, "Query parameter q is required")
		return
	}

	resp, err := h.searchService.Search(r.Context(), query)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to search")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
