package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string   `mapstructure:"PORT"`
	Env             string   `mapstructure:"ENV"`
	DatabaseURL     string   `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSecret       string   `mapstructure:"JWT_SECRET"`
	JWTIssuer       string   `mapstructure:"JWT_ISSUER"`
	AccessTokenMin  int      `mapstructure:"ACCESS_TOKEN_MINUTES"`
	RefreshTokenHrs int      `mapstructure:"REFRESH_TOKEN_HOURS"`
	CORSOrigins     []string `mapstructure:"CORS_ORIGINS"`
	MigrationsDir   string   `mapstructure:"MIGRATIONS_DIR"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("JWT_ISSUER", "clinic-api")
	v.SetDefault("ACCESS_TOKEN_MINUTES", 30)
	v.SetDefault("REFRESH_TOKEN_HOURS", 24)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MIGRATIONS_DIR", "./migrations")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("JWT_ISSUER")
	v.BindEnv("ACCESS_TOKEN_MINUTES")
	v.BindEnv("REFRESH_TOKEN_HOURS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("MIGRATIONS_DIR")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-only-insecure-secret"
		log.Println("WARNING: JWT_SECRET not set; using insecure development default.")
		log.Println("WARNING: Set JWT_SECRET before deploying.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// AccessTTL returns the access token lifetime.
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenMin) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenHrs) * time.Hour
}

// Validate checks that the configuration is safe to run. Outside
// development a real JWT_SECRET must be provided.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENV=%q", c.Env)
	}
	if c.AccessTokenMin <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_MINUTES must be positive, got %d", c.AccessTokenMin)
	}
	if c.RefreshTokenHrs <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_HOURS must be positive, got %d", c.RefreshTokenHrs)
	}
	return nil
}
