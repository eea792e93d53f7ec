package server

import (
	"context"

	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"github.com/tech-arch1tect/minisocial/services/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *logging.Service
	Metrics *metrics.Service `optional:"true"`
}

func ProvideServer(p Params) *Server {
	return New(p.Config, p.Logger, p.Metrics)
}

// Module serves HTTP for the lifetime of the application. A listener
// failure after startup shuts the application down.
var Module = fx.Options(
	fx.Provide(ProvideServer),
	fx.Invoke(func(lc fx.Lifecycle, srv *Server, shutdowner fx.Shutdowner) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go func() {
					if err := srv.Start(); err != nil {
						srv.logger.Error("server failed", zap.Error(err))
						_ = shutdowner.Shutdown(fx.ExitCode(1))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		})
	}),
)
