/**
 * @description
 * This file sets up the HTTP router for the expense-service. It defines the
 * API endpoints, associates them with their corresponding handlers, and
 * applies standard middleware.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware.
 */

package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers every route of the service.
func NewRouter(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", h.RootHandler)
	r.Get("/health", h.HealthHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.RegisterHandler)
		r.Post("/login", h.LoginHandler)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/profile/{id}", h.GetProfileHandler)
		r.Put("/profile/{id}", h.UpdateProfileHandler)
		r.Get("/{id}/categories", h.ListCategoriesHandler)
		r.Post("/{id}/categories", h.AddCategoryHandler)
		r.Put("/{id}/categories/{categoryId}", h.UpdateCategoryHandler)
		r.Delete("/{id}/categories/{categoryId}", h.RemoveCategoryHandler)
		r.Get("/{id}/settings", h.GetSettingsHandler)
		r.Put("/{id}/settings", h.UpdateSettingsHandler)
		r.Delete("/{id}", h.DeleteAccountHandler)
	})

	r.Route("/expenses", func(r chi.Router) {
		r.Get("/user/{userId}", h.ListTransactionsHandler)
		r.Get("/user/{userId}/stats", h.DashboardStatsHandler)
		r.Get("/user/{userId}/recent", h.RecentTransactionsHandler)
		r.Post("/", h.CreateTransactionHandler)
		r.Get("/{id}", h.GetTransactionHandler)
		r.Put("/{id}", h.UpdateTransactionHandler)
		r.Delete("/{id}", h.DeleteTransactionHandler)
	})

	return r
}
