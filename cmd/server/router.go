package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apimiddleware "github.com/kanaptse/eduparent-api/internal/api/middleware"
)

// routes builds the application router with all routes and middleware.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", app.authHandler.Register)
		r.Post("/auth/login", app.authHandler.Login)
		r.Post("/auth/refresh", app.authHandler.RefreshToken)

		// Roleplay endpoints (authenticated)
		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware.Authenticate)
			r.Get("/roleplay/scenarios", app.roleplayHandler.ListScenarios)
			r.Post("/roleplay/game/start", app.roleplayHandler.StartGame)
			r.Post("/roleplay/game/{sessionID}/respond", app.roleplayHandler.SubmitResponse)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
