package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"classpick/internal/config"
	"classpick/internal/handler"
	"classpick/internal/middleware"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Campaign *handler.CampaignHandler
	Vote     *handler.VoteHandler
}

func New(cfg *config.MockAPIConfig, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout, "/health"))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", h.Auth.Register)
		auth.Post("/login", h.Auth.Login)
	})

	r.Group(func(api chi.Router) {
		api.Use(authMiddleware.RequireAuth)

		api.Get("/me", h.Auth.Me)
		// Some deployments mount the candidacy endpoint at the root.
		api.Post("/apply-delegate", h.Auth.Apply)
		api.Post("/", h.Auth.Apply)

		api.Get("/campaigns", h.Campaign.List)
		api.Post("/campaigns", h.Campaign.Create)
		api.Get("/campaigns/{username}", h.Campaign.ByCandidate)

		api.Post("/votes", h.Vote.Cast)
		api.Get("/votes", h.Vote.Tally)
	})

	return r
}
