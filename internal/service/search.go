package service

import (
	"context"
	"log"

	"github.com/Rtvk-001/FilmHive/internal/catalog"
	"github.com/Rtvk-001/FilmHive/internal/model"
	"github.com/Rtvk-001/FilmHive/internal/repository"
)

// LocalSearchLimit caps the number of user matches returned per query.
const LocalSearchLimit = 5

// SearchResponse merges local user matches with external catalog results.
// Degraded is set when the catalog lookup failed and only local results
// are present.
type SearchResponse struct {
	Users    []model.UserSummary `json:"users"`
	Catalog  []catalog.Result    `json:"catalog"`
	Degraded bool                `json:"degraded"`
}

// SearchService fans a query out to the local user index and the external
// catalog at the same time. The catalog is best-effort: if it is down or
// its breaker is open, the response carries the local matches and a
// degraded flag instead of an error.
type SearchService struct {
	userRepo repository.UserRepository
	catalog  *catalog.Client
}

func NewSearchService(userRepo repository.UserRepository, catalogClient *catalog.Client) *SearchService {
	return &SearchService{
		userRepo: userRepo,
		catalog:  catalogClient,
	}
}

// Search runs both halves of the query concurrently and merges the results.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResponse, error) {
	type catalogResult struct {
		results []catalog.Result
		err     error
	}
	catalogCh := make(chan catalogResult, 1)

	go func() {
		results, err := s.catalog.SearchMulti(ctx, query)
		catalogCh <- catalogResult{results: results, err: err}
	}()

	users, err := s.userRepo.Search(ctx, query, LocalSearchLimit)
	if err != nil {
		// Drain the catalog goroutine before bailing so it never blocks.
		<-catalogCh
		return nil, err
	}
	if users == nil {
		users = []model.UserSummary{}
	}

	resp := &SearchResponse{
		Users:   users,
		Catalog: []catalog.Result{},
	}

	remote := <-catalogCh
	if remote.err != nil {
		log.Printf("[SearchService] Catalog search degraded: query=%q err=%v", query, remote.err)
		resp.Degraded = true
		return resp, nil
	}
	if remote.results != nil {
		resp.Catalog = remote.results
	}

	return resp, nil
}
