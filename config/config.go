package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

type ServerConfig struct {
	Port            string
	Env             string
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	Driver          string // sqlite | postgres
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type LogConfig struct {
	Level string
}

type RateLimitConfig struct {
	Strategy string // fixed | token
	Requests int
	Window   time.Duration
}

type CORSConfig struct {
	AllowOrigins []string
}

// ProxyConfig lists the proxies whose X-Forwarded-For / X-Real-IP headers are
// trusted. Empty means the socket address is always the client.
type ProxyConfig struct {
	Trusted []string
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	Server      ServerConfig
	DB          DBConfig
	JWT         JWTConfig
	Log         LogConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Proxy       ProxyConfig
	Seed        SeedConfig
	Location    *time.Location
}

func setDefaults(v *viper.Viper, serviceName string) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "online_canteen.db")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 50)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DB_LOG_LEVEL", "warn")

	v.SetDefault("JWT_SECRET", "online_canteen_dev_secret")
	v.SetDefault("JWT_TTL", "24h")

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("RATE_LIMIT_STRATEGY", "fixed")
	v.SetDefault("RATE_LIMIT_REQUESTS", 5)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")

	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")

	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")

	v.SetDefault("APP_TIMEZONE", "Local")
	v.SetDefault("SERVICE_NAME", serviceName)
}

// Load reads an optional .env file and then the process environment
func Load(serviceName string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v, serviceName)

	loc, err := time.LoadLocation(v.GetString("APP_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	cfg := &Config{
		ServiceName: v.GetString("SERVICE_NAME"),
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			Env:             v.GetString("APP_ENV"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:             v.GetString("DB_DSN"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			LogLevel:        parseGormLogLevel(v.GetString("DB_LOG_LEVEL")),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		RateLimit: RateLimitConfig{
			Strategy: strings.ToLower(v.GetString("RATE_LIMIT_STRATEGY")),
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		CORS: CORSConfig{
			AllowOrigins: splitList(v.GetString("CORS_ALLOW_ORIGINS")),
		},
		Proxy: ProxyConfig{
			Trusted: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Seed: SeedConfig{
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
		Location: loc,
	}

	if cfg.DB.Driver != "sqlite" && cfg.DB.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LogFields returns the configuration as zap fields, secrets excluded
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("db_driver", c.DB.Driver),
		zap.String("rate_limit_strategy", c.RateLimit.Strategy),
		zap.Int("rate_limit_requests", c.RateLimit.Requests),
		zap.Duration("rate_limit_window", c.RateLimit.Window),
		zap.Strings("cors_origins", c.CORS.AllowOrigins),
		zap.Strings("trusted_proxies", c.Proxy.Trusted),
		zap.String("timezone", c.Location.String()),
	}
}

func parseGormLogLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
