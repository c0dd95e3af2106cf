// internal/controller/router.go
package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/unclebandit/smsleopard-otp/internal/auth"
)

// RouterConfig collects what NewRouter wires together
type RouterConfig struct {
	Campaigns *CampaignController
	Customers *CustomerController
	Health    http.Handler
	Resolver  auth.Resolver
	Log       zerolog.Logger
	RateLimit float64
	RateBurst int
}

// NewRouter builds the HTTP API. /healthz and /metrics are public; every
// campaign route requires a bearer token.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Log))
	r.Use(Recoverer(cfg.Log))

	if cfg.Health != nil {
		r.Method(http.MethodGet, "/healthz", cfg.Health)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RateLimit(cfg.RateLimit, cfg.RateBurst))
		r.Use(auth.Middleware(cfg.Resolver))

		// Campaign routes
		r.Get("/campaigns", cfg.Campaigns.ListCampaigns)
		r.Post("/campaigns", cfg.Campaigns.CreateCampaign)
		r.Get("/campaigns/{id}", cfg.Campaigns.GetCampaign)
		r.Get("/campaigns/{id}/customers", cfg.Campaigns.ListCustomers)

		// Customer routes
		r.Post("/campaigns/{id}/customers", cfg.Customers.Register)
		r.Post("/campaigns/{id}/customers/verify", cfg.Customers.Verify)
		r.Post("/campaigns/{id}/customers/reissue", cfg.Customers.Reissue)
	})

	return r
}
