package config

import (
	"testing"
	"time"

	"online-canteen-api/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("RATE_LIMIT_WINDOW", "2m")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12")

	cfg, err := Load("canteen-test")
	require.NoError(t, err)

	assert.Equal(t, "canteen-test", cfg.ServiceName)
	assert.Equal(t, 2*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.Proxy.Trusted)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.False(t, cfg.IsProduction())
	assert.NotEmpty(t, cfg.LogFields())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, err := Load("canteen-test")
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))

	require.NoError(t, SeedRoles(db))
	require.NoError(t, SeedRoles(db))

	var roles int64
	db.Model(&models.Role{}).Count(&roles)
	assert.EqualValues(t, 3, roles)

	seed := SeedConfig{AdminEmail: "admin@canteen.test", AdminPassword: "admin123"}
	require.NoError(t, SeedAdmin(db, seed, zap.NewNop()))
	require.NoError(t, SeedAdmin(db, seed, zap.NewNop()))

	var admin models.User
	require.NoError(t, db.Preload("Roles").Where("email = ?", seed.AdminEmail).First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.PrimaryRole())
}
