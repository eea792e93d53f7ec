// Package handlers exposes the auth flows and the social resources over
// HTTP.
package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/minisocial/middleware/jwt"
	"github.com/tech-arch1tect/minisocial/services/auth"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"github.com/tech-arch1tect/minisocial/services/metrics"
	"github.com/tech-arch1tect/minisocial/services/posts"
	"github.com/tech-arch1tect/minisocial/services/session"
	"github.com/tech-arch1tect/minisocial/services/users"
)

type Handler struct {
	auth     *auth.Service
	users    *users.Service
	posts    *posts.Service
	resolver *session.Resolver
	metrics  *metrics.Service
	logger   *logging.Service
}

func New(
	authService *auth.Service,
	userService *users.Service,
	postService *posts.Service,
	resolver *session.Resolver,
	metricsService *metrics.Service,
	logger *logging.Service,
) *Handler {
	return &Handler{
		auth:     authService,
		users:    userService,
		posts:    postService,
		resolver: resolver,
		metrics:  metricsService,
		logger:   logger.Named("handlers"),
	}
}

// currentUser resolves the active caller from the bearer access token.
func (h *Handler) currentUser(c echo.Context) (user *users.User, err error) {
	defer func() { h.metrics.AuthEvent(metrics.EventResolve, err) }()

	token, err := jwt.ExtractBearerToken(c)
	if err != nil {
		return nil, err
	}
	return h.resolver.ResolveActive(c.Request().Context(), token)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
