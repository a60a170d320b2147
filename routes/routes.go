package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/poketeams/pokedex-api/handlers"
	"github.com/poketeams/pokedex-api/middleware"
	"github.com/poketeams/pokedex-api/services"
)

func SetupRoutes(
	router *chi.Mux,
	authHandler *handlers.AuthHandler,
	catalogHandler *handlers.CatalogHandler,
	rosterHandler *handlers.RosterHandler,
	healthHandler *handlers.HealthHandler,
	gateway *services.Gateway,
	jwtSecret []byte,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Data-Mode"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.ServingMode(gateway))

	router.Get("/healthz", healthHandler.Health)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/pokemon", func(r chi.Router) {
			r.Get("/", catalogHandler.List)
			r.Get("/{idOrName}", catalogHandler.Detail)
		})

		r.Route("/collection", func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Get("/", rosterHandler.List)
			r.Post("/", rosterHandler.Capture)
			r.Put("/{id}", rosterHandler.Update)
			r.Delete("/{id}", rosterHandler.Release)
		})
	})
}
