package users

import (
	"github.com/tech-arch1tect/minisocial/services/logging"
	"github.com/tech-arch1tect/minisocial/services/password"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func NewUserService(db *gorm.DB, hasher *password.Hasher, logger *logging.Service) *Service {
	return NewService(db, hasher, logger)
}

var Options = fx.Options(
	fx.Provide(NewUserService),
)
