package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"gorm.io/gorm"
)

func TestModule(t *testing.T) {
	var db *gorm.DB

	app := fxtest.New(t,
		Module,
		fx.Provide(func() *config.Config {
			cfg := createTestConfig("sqlite", ":memory:", true)
			return &cfg
		}),
		fx.Provide(func() *logging.Service { return nil }),
		fx.Provide(appModels),
		fx.Populate(&db),
	)
	app.RequireStart()

	require.NotNil(t, db)
	assert.True(t, db.Migrator().HasTable("users"))

	app.RequireStop()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.PingContext(context.Background()))
}

func TestModule_Error(t *testing.T) {
	app := fx.New(
		Module,
		fx.Provide(func() *config.Config {
			cfg := createTestConfig("unsupported", "test", false)
			return &cfg
		}),
		fx.Provide(func() *logging.Service { return nil }),
		fx.Provide(func() *ModelsOption { return nil }),
		fx.NopLogger,
		fx.Invoke(func(*gorm.DB) {}),
	)

	assert.ErrorContains(t, app.Err(), "unsupported database driver")
}
