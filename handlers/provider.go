package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/middleware/ratelimit"
	"github.com/tech-arch1tect/minisocial/openapi"
	"github.com/tech-arch1tect/minisocial/server"
	"github.com/tech-arch1tect/minisocial/services/auth"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"github.com/tech-arch1tect/minisocial/services/metrics"
	"github.com/tech-arch1tect/minisocial/services/posts"
	"github.com/tech-arch1tect/minisocial/services/session"
	"github.com/tech-arch1tect/minisocial/services/users"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Config         *config.Config
	Server         *server.Server
	Auth           *auth.Service
	Users          *users.Service
	Posts          *posts.Service
	Resolver       *session.Resolver
	RateLimitStore ratelimit.Store
	Metrics        *metrics.Service `optional:"true"`
	Logger         *logging.Service
}

func ProvideHandler(p Params) *Handler {
	return New(p.Auth, p.Users, p.Posts, p.Resolver, p.Metrics, p.Logger)
}

func ProvideDocument(cfg *config.Config) *openapi.Document {
	return openapi.New(cfg.App.Name, cfg.App.Version).
		Description("Users, posts, comments and likes behind JWT access tokens and per-device refresh tokens.")
}

// LoginLimiter throttles /auth/token per client address, or returns nil
// when rate limiting is disabled.
func LoginLimiter(cfg *config.Config, store ratelimit.Store, logger *logging.Service) echo.MiddlewareFunc {
	if !cfg.RateLimit.Enabled {
		return nil
	}

	return ratelimit.Middleware(&ratelimit.Config{
		Store:     store,
		Rate:      cfg.RateLimit.LoginRate,
		Period:    cfg.RateLimit.LoginPeriod,
		CountMode: cfg.RateLimit.CountMode,
		KeyGenerator: func(c echo.Context) string {
			return "rate_limit:login:" + c.RealIP()
		},
		Logger: logger.Named("ratelimit"),
	})
}

func RegisterRoutes(p Params, h *Handler, doc *openapi.Document) {
	h.Register(p.Server, doc, LoginLimiter(p.Config, p.RateLimitStore, p.Logger))
}

var Module = fx.Options(
	fx.Provide(ProvideHandler, ProvideDocument),
	fx.Invoke(RegisterRoutes),
)
