package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsHandler().Handler)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/auth/login", s.handleLogin)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.handleCreateUser)

			r.Route("/{userID}", func(r chi.Router) {
				r.Route("/reviewers", func(r chi.Router) {
					r.Get("/", s.handleListReviewers)
					r.Post("/", s.handleCreateReviewer)
					r.Get("/summaries", s.handleListReviewerSummaries)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", s.handleGetReviewer)
						r.Get("/content", s.handleGetReviewerContent)
						r.Delete("/", s.handleDeleteReviewer)
					})
				})

				r.Route("/quiz-results", func(r chi.Router) {
					r.Get("/", s.handleListQuizResults)
					r.Post("/", s.handleCreateQuizResult)
				})
			})
		})

		r.Post("/export/users", s.handleExportUsers)
	})

	return r
}

// corsHandler builds the CORS policy from config.
// An empty origin list allows all origins (dev mode).
func (s *Server) corsHandler() *cors.Cors {
	methods := s.cfg.CORS.AllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	}
	headers := s.cfg.CORS.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type", "X-Request-ID"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORS.AllowedOrigins,
		AllowedMethods: methods,
		AllowedHeaders: headers,
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         s.cfg.CORS.MaxAge,
	})
}
