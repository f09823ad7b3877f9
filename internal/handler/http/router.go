package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sahalaww/sc-auth/internal/domain"
	"github.com/sahalaww/sc-auth/internal/service"
	"github.com/sahalaww/sc-auth/pkg/health"
	"github.com/sahalaww/sc-auth/pkg/middleware"
)

// RouterConfig carries everything the router needs besides the handlers.
type RouterConfig struct {
	ServiceName    string
	Version        string
	Environment    string
	AllowedOrigins []string
	RateLimitRPS   int
	RateLimitBurst int
	Logger         *slog.Logger
	Health         *health.Handler
}

// NewRouter builds the full chi router: global middleware chain, public
// account routes, token-gated routes and the Admin-gated user routes.
func NewRouter(cfg RouterConfig, accounts *service.AccountService) http.Handler {
	accountHandler := NewAccountHandler(accounts)
	adminHandler := NewAdminHandler(accounts)

	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Environment:    cfg.Environment,
	}))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		writeOK(w, http.StatusOK, map[string]string{
			"service": cfg.ServiceName,
			"version": cfg.Version,
		})
	})

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			// Public credential endpoints get per-IP throttling on top of
			// the per-username lockout inside the service.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))
				r.Post("/register", accountHandler.Register)
				r.Post("/login", accountHandler.Login)
			})

			r.Group(func(r chi.Router) {
				r.Use(Auth(accounts, domain.TokenKindAccess))
				r.Get("/me", accountHandler.Me)
				r.Delete("/logout", accountHandler.Logout)
			})

			r.Group(func(r chi.Router) {
				r.Use(Auth(accounts, domain.TokenKindRefresh))
				r.Post("/refresh", accountHandler.Refresh)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(Auth(accounts, domain.TokenKindAccess))
			r.Use(RequireRole(domain.RoleAdmin))
			r.Get("/", adminHandler.ListUsers)
			r.Post("/", adminHandler.CreateUser)
			r.Delete("/{public_id}", adminHandler.DeleteUser)
		})
	})

	return r
}
