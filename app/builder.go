package app

import (
	"errors"
	"fmt"

	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/database"
	"github.com/tech-arch1tect/minisocial/handlers"
	"github.com/tech-arch1tect/minisocial/middleware/ratelimit"
	"github.com/tech-arch1tect/minisocial/server"
	"github.com/tech-arch1tect/minisocial/services/auth"
	"github.com/tech-arch1tect/minisocial/services/jwt"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"github.com/tech-arch1tect/minisocial/services/metrics"
	"github.com/tech-arch1tect/minisocial/services/password"
	"github.com/tech-arch1tect/minisocial/services/posts"
	"github.com/tech-arch1tect/minisocial/services/refreshtoken"
	"github.com/tech-arch1tect/minisocial/services/session"
	"github.com/tech-arch1tect/minisocial/services/users"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&users.User{},
		&refreshtoken.RefreshToken{},
		&posts.Post{},
		&posts.Comment{},
		&posts.Like{},
	}
}

// Options is the complete dependency graph for cfg.
func Options(cfg *config.Config) fx.Option {
	return fx.Options(
		config.NewProvider(cfg),
		logging.Module,
		fx.WithLogger(func(l *logging.Service) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx").Logger()}
		}),
		fx.Supply(database.WithModels(Models()...)),
		database.Module,
		metrics.Options,
		password.Options,
		jwt.Options,
		users.Options,
		refreshtoken.Options,
		session.Options,
		auth.Module,
		posts.Options,
		ratelimit.Options,
		server.Module,
		handlers.Module,
	)
}

type AppBuilder struct {
	config    *config.Config
	fxOptions []fx.Option
	errors    []error
}

func NewApp() *AppBuilder {
	return &AppBuilder{}
}

func (b *AppBuilder) WithConfig(cfg *config.Config) *AppBuilder {
	if cfg == nil {
		b.errors = append(b.errors, errors.New("config cannot be nil"))
		return b
	}
	b.config = cfg
	return b
}

// WithAutoConfig loads the configuration from the environment.
func (b *AppBuilder) WithAutoConfig() *AppBuilder {
	cfg := &config.Config{}
	if err := config.LoadConfig(cfg); err != nil {
		b.errors = append(b.errors, fmt.Errorf("failed to load config: %w", err))
		return b
	}
	b.config = cfg
	return b
}

// WithFxOptions appends options to the graph, e.g. fx.Decorate overrides
// in tests.
func (b *AppBuilder) WithFxOptions(opts ...fx.Option) *AppBuilder {
	b.fxOptions = append(b.fxOptions, opts...)
	return b
}

func (b *AppBuilder) Build() (*App, error) {
	if b.config == nil && len(b.errors) == 0 {
		b.WithAutoConfig()
	}
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("configuration errors: %w", errors.Join(b.errors...))
	}

	app := &App{config: b.config}

	opts := append([]fx.Option{Options(b.config)}, b.fxOptions...)
	opts = append(opts, fx.Populate(&app.logger, &app.db, &app.server))

	app.fx = fx.New(opts...)
	if err := app.fx.Err(); err != nil {
		return nil, fmt.Errorf("failed to build application: %w", err)
	}

	return app, nil
}
