package jwt

import (
	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"go.uber.org/fx"
)

func NewJWTService(cfg *config.Config, logger *logging.Service) *Service {
	return NewService(cfg.JWT, logger)
}

var Options = fx.Options(
	fx.Provide(NewJWTService),
)
