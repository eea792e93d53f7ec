package refreshtoken

import (
	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func NewRefreshTokenService(db *gorm.DB, cfg *config.Config, logger *logging.Service) *Service {
	return NewService(db, cfg.RefreshToken, logger)
}

var Options = fx.Options(
	fx.Provide(NewRefreshTokenService),
)
