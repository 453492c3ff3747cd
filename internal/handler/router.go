package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vivu-app/journey-planner/spec"
)

// RouterOptions carries the middleware that differs between deployments and tests.
type RouterOptions struct {
	// Authenticate guards every /api/journeys route. It must put the caller's
	// user id into the request context (see auth.WithUserID). Nil leaves the
	// routes open, which only tests should do.
	Authenticate func(http.Handler) http.Handler

	// ProxyLimiter throttles the public search and directions proxies.
	ProxyLimiter func(http.Handler) http.Handler
}

// Handler builds the chi router for every endpoint.
func Handler(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.ProxyLimiter != nil {
				r.Use(opts.ProxyLimiter)
			}
			r.Get("/search", s.Search)
			r.Post("/directions", s.Directions)
		})

		r.Group(func(r chi.Router) {
			if opts.Authenticate != nil {
				r.Use(opts.Authenticate)
			}
			r.Get("/journeys", s.ListJourneys)
			r.Post("/journeys", s.CreateJourney)
			r.Get("/journeys/{id}", s.GetJourney)
			r.Patch("/journeys/{id}", s.PatchJourney)
			r.Get("/journeys/{id}/export", s.ExportJourney)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorBody(w, http.StatusNotFound, "not_found", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorBody(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
