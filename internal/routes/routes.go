package routes

import (
	"net/http"

	"loginaudit/internal/auth"
	"loginaudit/internal/handlers"
	"loginaudit/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	tokenManager *auth.TokenManager,
) {
	// Rate limiting config for the credential-guessing surface
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no session required
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/failed-logins", http.StatusSeeOther)
	})
	router.Get("/login", authHandler.ShowLoginForm)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/login", authHandler.HandleLoginForm)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/api/auth/login", authHandler.Login)
	router.Post("/logout", authHandler.Logout)

	// Admin screen - valid session required
	router.Group(func(r chi.Router) {
		r.Use(auth.SessionMiddleware(tokenManager))

		r.Get("/admin/failed-logins", adminHandler.ShowLogs)
		r.Post("/admin/settings", adminHandler.UpdateSettings)
		r.Post("/admin/delete-log", adminHandler.DeleteLog)
	})
}
