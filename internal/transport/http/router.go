package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Rtvk-001/FilmHive/internal/handler"
	"github.com/Rtvk-001/FilmHive/internal/httputil"
	authmw "github.com/Rtvk-001/FilmHive/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler   *handler.AuthHandler
	UserHandler   *handler.UserHandler
	FollowHandler *handler.FollowHandler
	WatchHandler  *handler.WatchHandler
	SearchHandler *handler.SearchHandler
	FeedHandler   *handler.FeedHandler
	JWTSecret     string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Federated search is public
	r.Get("/search", cfg.SearchHandler.Search)

	// Public profile reads with optional authentication
	r.Route("/users", func(r chi.Router) {
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}", cfg.UserHandler.GetProfile)
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/followers", cfg.UserHandler.GetFollowers)
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/following", cfg.UserHandler.GetFollowing)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", cfg.AuthHandler.Me)

		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		// Follow graph mutations
		r.Post("/users/follow", cfg.FollowHandler.Follow)
		r.Post("/users/unfollow", cfg.FollowHandler.Unfollow)

		// Watch state mutations
		r.Post("/users/watchlist", cfg.WatchHandler.AddToWatchlist)
		r.Delete("/users/watchlist/{catalogId}", cfg.WatchHandler.RemoveFromWatchlist)
		r.Post("/users/seen/movie", cfg.WatchHandler.MarkMovieSeen)
		r.Post("/users/seen/tv", cfg.WatchHandler.MarkTVSeen)

		// Activity feed
		r.Get("/feed", cfg.FeedHandler.GetFeed)
	})

	return r
}
