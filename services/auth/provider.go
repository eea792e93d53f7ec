package auth

import (
	"github.com/tech-arch1tect/minisocial/services/jwt"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"github.com/tech-arch1tect/minisocial/services/metrics"
	"github.com/tech-arch1tect/minisocial/services/password"
	"github.com/tech-arch1tect/minisocial/services/refreshtoken"
	"github.com/tech-arch1tect/minisocial/services/users"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Users   *users.Service
	Hasher  *password.Hasher
	Tokens  *jwt.Service
	Refresh *refreshtoken.Service
	Metrics *metrics.Service `optional:"true"`
	Logger  *logging.Service
}

func ProvideAuthService(p Params) (*Service, error) {
	return NewService(p.Users, p.Hasher, p.Tokens, p.Refresh, p.Metrics, p.Logger)
}

var Module = fx.Options(
	fx.Provide(ProvideAuthService),
)
