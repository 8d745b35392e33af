package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration for the accounts service.
type Config struct {
	Environment     string
	Addr            string
	DatabaseURL     string
	MigrationsDir   string
	JWTSecret       string
	JWTAlgorithm    string
	AccessTokenTTL  time.Duration
	BcryptCost      int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ProfileCacheTTL time.Duration
}

// Load constructs a Config from environment variables.
func Load() Config {
	return Config{
		Environment:     GetString("APP_ENV", "development"),
		Addr:            GetString("API_ADDR", ":4000"),
		DatabaseURL:     GetString("DATABASE_URL", ""),
		MigrationsDir:   GetString("DB_MIGRATIONS_DIR", "db/migrations"),
		JWTSecret:       GetString("JWT_SECRET", ""),
		JWTAlgorithm:    GetString("JWT_ALGORITHM", ""),
		AccessTokenTTL:  time.Duration(GetInt("ACCESS_TOKEN_TTL_MIN", 30)) * time.Minute,
		BcryptCost:      GetInt("BCRYPT_COST", 0),
		RedisAddr:       GetString("REDIS_ADDR", ""),
		RedisPassword:   GetString("REDIS_PASSWORD", ""),
		RedisDB:         GetInt("REDIS_DB", 0),
		ProfileCacheTTL: time.Duration(GetInt("PROFILE_CACHE_TTL_MIN", 0)) * time.Minute,
	}
}

// Validate reports every required value missing from the environment.
// Token signing and storage settings have no safe defaults, so the
// process refuses to start without them rather than failing per request.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.DatabaseURL) == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if strings.TrimSpace(c.JWTAlgorithm) == "" {
		missing = append(missing, "JWT_ALGORITHM")
	}
	if strings.TrimSpace(c.RedisAddr) == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// GetString retrieves an environment variable or returns a fallback when unset.
func GetString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetInt retrieves an environment variable as integer or returns fallback.
func GetInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("invalid value for %s: %v", key, err)
			return fallback
		}
		return parsed
	}
	return fallback
}
