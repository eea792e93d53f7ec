package metrics

import (
	"github.com/tech-arch1tect/minisocial/config"
	"go.uber.org/fx"
)

// NewMetricsService returns nil when metrics are disabled; every consumer
// treats a nil *Service as a no-op.
func NewMetricsService(cfg *config.Config) *Service {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return NewService()
}

var Options = fx.Options(
	fx.Provide(NewMetricsService),
)
