package session

import (
	"github.com/tech-arch1tect/minisocial/services/jwt"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"github.com/tech-arch1tect/minisocial/services/users"
	"go.uber.org/fx"
)

func NewSessionResolver(tokens *jwt.Service, userService *users.Service, logger *logging.Service) *Resolver {
	return NewResolver(tokens, userService, logger)
}

var Options = fx.Options(
	fx.Provide(NewSessionResolver),
)
