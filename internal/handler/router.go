package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/simonkvalheim/bankist/internal/middleware"
)

// AccountCounter reports how many accounts are open
type AccountCounter interface {
	Count() int
}

// RouterConfig holds everything the router serves
type RouterConfig struct {
	Sessions Sessions
	Tokens   interface {
		TokenIssuer
		middleware.TokenValidator
	}
	Accounts AccountCounter
	Metrics  http.Handler // Optional; /metrics is not mounted when nil
	CORS     middleware.CORSConfig
}

// NewRouter creates and configures a new Chi router
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)    // Logs each request
	r.Use(chimiddleware.Recoverer) // Recovers from panics gracefully

	// Health check (no auth needed)
	r.Get("/health", healthHandler(cfg.Accounts))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.Tokens)

	NewAuthHandler(cfg.Sessions, cfg.Tokens).RegisterRoutes(r, authMiddleware.RequireAuth)

	// Protected API routes (require authentication)
	r.Route("/v1", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		NewAccountHandler(cfg.Sessions).RegisterRoutes(r)
		NewTransferHandler(cfg.Sessions).RegisterRoutes(r)
	})

	return r
}

// healthHandler reports the service is up and how many accounts exist
func healthHandler(accounts AccountCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"accounts": accounts.Count(),
		})
	}
}
