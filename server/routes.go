package server

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"

	"github.com/itemo/auth"
	"github.com/itemo/handlers"
)

// API holds the handlers mounted under /api. All of them require a member token.
type API struct {
	Chat   http.Handler
	Events http.Handler
	Courts http.Handler
	Me     http.Handler
}

func SetupRoutes(tok *auth.T, origins []string, api API) *chi.Mux {
	r := chi.NewRouter()

	// standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	r.Get("/healthz", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(tok))

		r.Method(http.MethodPost, "/chat", api.Chat)
		r.Method(http.MethodGet, "/events", api.Events)
		r.Method(http.MethodGet, "/courts", api.Courts)
		r.Method(http.MethodGet, "/me", api.Me)
	})

	return r
}
