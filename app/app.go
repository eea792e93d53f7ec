package app

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/server"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	fx     *fx.App
	config *config.Config
	logger *logging.Service
	db     *gorm.DB
	server *server.Server
}

func (a *App) Start(ctx context.Context) error {
	return a.fx.Start(ctx)
}

func (a *App) Stop(ctx context.Context) error {
	return a.fx.Stop(ctx)
}

// Run starts the application and blocks until SIGINT, SIGTERM or an
// internal shutdown request, then stops it within the configured
// shutdown timeout. The returned code is suitable for os.Exit.
func (a *App) Run() int {
	startCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()

	if err := a.Start(startCtx); err != nil {
		a.logger.Error("failed to start application", zap.Error(err))
		return 1
	}

	a.logger.Info("application started",
		zap.String("name", a.config.App.Name),
		zap.String("version", a.config.App.Version),
		zap.String("addr", a.server.Addr()))

	sig := <-a.fx.Wait()
	a.logger.Info("shutting down", zap.String("signal", sig.Signal.String()))

	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer stopCancel()

	if err := a.Stop(stopCtx); err != nil {
		a.logger.Error("failed to stop application gracefully", zap.Error(err))
		return 1
	}
	return sig.ExitCode
}

func (a *App) shutdownTimeout() time.Duration {
	if a.config.Server.ShutdownTimeout > 0 {
		return a.config.Server.ShutdownTimeout
	}
	return 30 * time.Second
}

func (a *App) Server() *server.Server {
	return a.server
}

func (a *App) Echo() *echo.Echo {
	if a.server == nil {
		return nil
	}
	return a.server.Echo()
}

func (a *App) DB() *gorm.DB {
	return a.db
}

func (a *App) Logger() *logging.Service {
	return a.logger
}

func (a *App) Config() *config.Config {
	return a.config
}
