package httpserver

import (
	"net/http"
	"time"

	"nalewka/internal/config"
	"nalewka/internal/transport/httpserver/handler"
	authmw "nalewka/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.Auth) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(authmw.NewCORS(cfg.CORSOrigins))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", handlers.APIRoot)
		r.Get("/health", handlers.Health)

		// Credential endpoints are the only rate-limited group.
		r.Group(func(r chi.Router) {
			if cfg.RateLimit.Enabled {
				limiter := authmw.NewRateLimiter(cfg.RateLimit)
				r.Use(limiter.Middleware)
			}
			r.Post("/auth/register", handlers.Register)
			r.Post("/auth/login", handlers.Login)
		})

		// The ingredient catalog is shared and readable without a login.
		r.Get("/ingredients", handlers.ListIngredients)
		r.Get("/ingredients/{id}", handlers.GetIngredient)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/users/me", handlers.Me)
			r.Put("/users/me", handlers.UpdateMe)

			r.Post("/auth/api-keys", handlers.CreateAPIKey)
			r.Get("/auth/api-keys", handlers.ListAPIKeys)
			r.Delete("/auth/api-keys/{id}", handlers.DeleteAPIKey)

			r.Get("/liquors", handlers.ListLiquors)
			r.Post("/liquors", handlers.CreateLiquor)
			r.Get("/liquors/{id}", handlers.GetLiquor)
			r.Put("/liquors/{id}", handlers.UpdateLiquor)
			r.Delete("/liquors/{id}", handlers.DeleteLiquor)

			r.Get("/liquors/{id}/batches", handlers.ListBatches)
			r.Post("/liquors/{id}/batches", handlers.CreateBatch)
			r.Get("/batches/{id}", handlers.GetBatch)
			r.Put("/batches/{id}", handlers.UpdateBatch)
			r.Put("/batches/{id}/bottles", handlers.UpdateBatchBottles)
			r.Delete("/batches/{id}", handlers.DeleteBatch)

			r.Get("/batches/{id}/formulas", handlers.ListBatchFormulas)
			r.Post("/batches/{id}/formulas", handlers.CreateBatchFormula)
			r.Put("/formulas/{id}", handlers.UpdateFormula)
			r.Delete("/formulas/{id}", handlers.DeleteFormula)

			r.Post("/ingredients", handlers.CreateIngredient)
			r.Put("/ingredients/{id}", handlers.UpdateIngredient)
			r.Delete("/ingredients/{id}", handlers.DeleteIngredient)
		})
	})

	return r
}
