package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8000"`
	FrontendOrigin string        `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:5173"`
	MySQLDSN       string        `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"`
	RedisAddr      string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	RedisPass      string        `env:"REDIS_PASSWORD"`
	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"10"`
	StoreTimeout   time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
	LogLevel       int           `env:"LOG_LEVEL" envDefault:"0"`
	ResetDB        bool          `env:"RESET_DB" envDefault:"false"`
	SwaggerHost    string        `env:"SWAGGER_HOST"`
}

// Load builds Config from environment. A missing JWT_SECRET is an error:
// there is no fallback signing key.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.StoreTimeout <= 0 {
		return nil, fmt.Errorf("STORE_TIMEOUT must be positive, got %s", cfg.StoreTimeout)
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost)
	}

	return &cfg, nil
}
