// Package router sets up the HTTP route table for the catalog server:
// one listener with path-based routing across the three resource groups.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"catalogd/internal/handlers"
	"catalogd/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(category *handlers.Category, product *handlers.Product, image *handlers.Image) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", category.List)
		r.Post("/", category.Create)
		r.Put("/{id}", category.Update)
		r.Delete("/{id}", category.Delete)
	})
	r.Delete("/categories_soft/{id}", category.SoftDelete)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", product.List)
		r.Post("/", product.Create)
		r.Put("/{id}", product.Update)
		r.Delete("/{id}", product.Delete)
	})

	r.Route("/images", func(r chi.Router) {
		r.Get("/", image.List)
		r.Post("/", image.Upload)
		r.Put("/{id}", image.Update)
		r.Delete("/{id}", image.Delete)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
