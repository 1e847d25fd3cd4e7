package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "lumen-ai/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"lumen-ai/backend/internal/interfaces"
)

// NewRouter creates and configures a chi router with all routes.
func NewRouter(authHandler *AuthHandler, chatHandler *ChatHandler, adminHandler *AdminHandler, users interfaces.UserService) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID) // Injects a unique request ID into the context.
	r.Use(middleware.RealIP)    // Sets the remote address to the real IP from proxy headers.
	r.Use(middleware.Logger)    // Logs the start and end of each request.
	r.Use(middleware.Recoverer) // Recovers from panics and returns a 500 error.

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Liveness/readiness probe for container orchestration.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- API Version 1 Routes ---
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(RequireUser)

		// --- Auth ---
		r.Get("/auth/user", authHandler.GetCurrentUser)
		r.Post("/auth/user", authHandler.SyncUser)
		r.Post("/auth/api-key", authHandler.SetAPIKey)
		r.Put("/auth/profile", authHandler.UpdateProfile)

		// --- Chats ---
		r.Get("/chats", chatHandler.GetChats)
		r.Post("/chats", chatHandler.CreateChat)
		r.Put("/chats/{chatID}/title", chatHandler.UpdateChatTitle)
		r.Delete("/chats/{chatID}", chatHandler.DeleteChat)
		r.Get("/chats/{chatID}/messages", chatHandler.GetChatMessages)

		// --- Messages ---
		r.Get("/messages", chatHandler.GetMessages)
		r.Post("/messages", chatHandler.SendMessage)
		r.Put("/messages/{messageID}", chatHandler.EditMessage)
		r.Delete("/messages/{messageID}", chatHandler.DeleteMessage)

		// --- Admin ---
		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin(users))

			r.Get("/users", adminHandler.ListUsers)
			r.Put("/users/{userID}", adminHandler.UpdateUser)
			r.Delete("/users/{userID}", adminHandler.DeleteUser)

			r.Get("/settings", adminHandler.ListSettings)
			r.Post("/settings", adminHandler.CreateSetting)
			r.Put("/settings/{settingID}", adminHandler.UpdateSetting)
			r.Delete("/settings/{settingID}", adminHandler.DeleteSetting)

			r.Get("/logs", adminHandler.GetLogs)
			r.Get("/stats", adminHandler.GetStats)
		})
	})

	return r
}
