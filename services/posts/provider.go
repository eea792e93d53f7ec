package posts

import (
	"github.com/tech-arch1tect/minisocial/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func NewPostService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}

var Options = fx.Options(
	fx.Provide(NewPostService),
)
