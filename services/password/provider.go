package password

import (
	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"go.uber.org/fx"
)

func NewPasswordHasher(cfg *config.Config, logger *logging.Service) *Hasher {
	return NewHasher(cfg.Auth, logger)
}

var Options = fx.Options(
	fx.Provide(NewPasswordHasher),
)
