package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handler builds the route tree with global middleware applied. ctx
// bounds the rate limiter's background cleanup.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if s.cfg.RateLimit > 0 {
		r.Use(rateLimit(newClientLimiters(ctx, s.cfg.RateLimit, s.cfg.RateBurst), []string{"/health"}))
	}

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(api chi.Router) {
		api.Post("/compare", s.handleCompare)

		api.Route("/comparisons", func(cr chi.Router) {
			cr.Post("/", s.handleCreateComparison)
			cr.Get("/", s.handleListComparisons)
			cr.Get("/{id}", s.handleGetComparison)
			cr.Delete("/{id}", s.handleDeleteComparison)
		})

		api.Route("/properties", func(pr chi.Router) {
			pr.Get("/", s.handleListProperties)
			pr.Post("/import", s.handleImportProperties)
			pr.Get("/{id}", s.handleGetProperty)
			pr.Put("/{id}", s.handlePutProperty)
		})
	})

	return r
}
