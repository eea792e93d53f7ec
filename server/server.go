package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"github.com/tech-arch1tect/minisocial/services/metrics"
	"go.uber.org/zap"
)

type Server struct {
	echo    *echo.Echo
	cfg     *config.Config
	logger  *logging.Service
	metrics *metrics.Service
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func New(cfg *config.Config, logger *logging.Service, metricsService *metrics.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Validator = NewValidator()

	s := &Server{
		echo:    e,
		cfg:     cfg,
		logger:  logger.Named("http"),
		metrics: metricsService,
	}
	e.HTTPErrorHandler = s.handleError

	var skip []string
	if cfg.Metrics.Enabled {
		skip = append(skip, cfg.Metrics.Path)
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(s.logger, skip...))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(metricsService.Middleware(skip...))

	if cfg.Metrics.Enabled && metricsService != nil {
		e.GET(cfg.Metrics.Path, metricsService.Handler())
	}

	return s
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
}

// Start blocks serving on the configured address until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.Addr()))

	if err := s.echo.Start(s.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.echo.Shutdown(ctx)
}

// Add registers a route on the underlying echo instance.
func (s *Server) Add(method, path string, handler echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route {
	return s.echo.Add(method, path, handler, m...)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// handleError writes {"detail": ...} for every error. Errors that are not
// *echo.HTTPError are logged and hidden behind a generic 500.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		s.logger.Error("unhandled error",
			zap.String("path", c.Path()),
			zap.Error(err))
		he = echo.NewHTTPError(http.StatusInternalServerError)
	}

	detail := http.StatusText(he.Code)
	if msg, ok := he.Message.(string); ok && msg != "" {
		detail = msg
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, ErrorResponse{Detail: detail})
	}
	if err != nil {
		s.logger.Error("failed to write error response", zap.Error(err))
	}
}
