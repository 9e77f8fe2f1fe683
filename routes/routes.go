package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/upb/moderation-gateway/app"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	// API key to session token exchange
	r.Post("/auth/token", deps.AuthHandler.HandleToken)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Payload evaluation
		r.Route("/scan", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Post("/", deps.ScanHandler.HandleScan)
		})

		// Profile management (admin only)
		r.Route("/profiles", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Use(deps.AuthMiddleware.RequireAdmin)
			r.Get("/", deps.ProfileHandler.HandleListProfiles)
			r.Post("/", deps.ProfileHandler.HandleCreateProfile)
			r.Get("/{id}", deps.ProfileHandler.HandleGetProfile)
			r.Put("/{id}", deps.ProfileHandler.HandleUpdateProfile)
			r.Delete("/{id}", deps.ProfileHandler.HandleDeleteProfile)
		})

		// Check management (admin only)
		r.Route("/checks", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Use(deps.AuthMiddleware.RequireAdmin)
			r.Get("/", deps.CheckHandler.HandleListChecks)
			r.Post("/", deps.CheckHandler.HandleCreateCheck)
			r.Get("/{id}", deps.CheckHandler.HandleGetCheck)
			r.Put("/{id}", deps.CheckHandler.HandleUpdateCheck)
			r.Delete("/{id}", deps.CheckHandler.HandleDeleteCheck)
		})

		// User management (admin only)
		r.Route("/users", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Use(deps.AuthMiddleware.RequireAdmin)
			r.Get("/", deps.UserHandler.HandleListUsers)
			r.Post("/", deps.UserHandler.HandleCreateUser)
			r.Get("/{id}", deps.UserHandler.HandleGetUser)
			r.Patch("/{id}", deps.UserHandler.HandleUpdateUser)
			r.Post("/{id}/rotate-key", deps.UserHandler.HandleRotateAPIKey)
			r.Delete("/{id}", deps.UserHandler.HandleDeleteUser)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
