package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// DefaultEmailPattern rejects addresses without a dotted domain, e.g. "email@test".
const DefaultEmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

// DefaultPasswordPatterns must all match: 8+ chars, an upper, a lower and a digit.
var DefaultPasswordPatterns = []string{`^.{8,}$`, `[A-Z]`, `[a-z]`, `[0-9]`}

// ValidationConfig holds the patterns used to validate registrations
type ValidationConfig struct {
	EmailPattern     string
	PasswordPatterns []string
}

// JWTConfig holds token signing parameters
type JWTConfig struct {
	SecretKey       string
	ExpirationHours int64
	Issuer          string
}

// Config is the full application configuration
type Config struct {
	ServerPort string
	Store      string
	GinMode    string
	LogLevel   string
	LogFormat  string
	JWT        JWTConfig
	Validation ValidationConfig
	DB         *DBConfig
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env is fine, the process environment is used as-is
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Store:      strings.ToLower(getEnv("STORE", StorePostgres)),
		GinMode:    os.Getenv("GIN_MODE"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "json"),
		JWT: JWTConfig{
			SecretKey:       os.Getenv("JWT_SECRET_KEY"),
			ExpirationHours: getEnvInt64("JWT_EXPIRATION_HOURS", 24),
			Issuer:          getEnv("JWT_ISSUER", "user-service"),
		},
		Validation: ValidationConfig{
			EmailPattern:     getEnv("EMAIL_REGEX", DefaultEmailPattern),
			PasswordPatterns: DefaultPasswordPatterns,
		},
	}
	if p := os.Getenv("PASSWORD_REGEX"); p != "" {
		cfg.Validation.PasswordPatterns = []string{p}
	}

	switch cfg.Store {
	case StorePostgres:
		dbCfg, err := LoadDBConfig()
		if err != nil {
			return nil, err
		}
		cfg.DB = dbCfg
	case StoreMemory:
	default:
		return nil, fmt.Errorf("unknown STORE %q, expected %q or %q", cfg.Store, StorePostgres, StoreMemory)
	}

	return cfg, nil
}

// Validate checks settings that are only required to serve traffic.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}
	if c.JWT.ExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", c.JWT.ExpirationHours)
	}
	switch c.GinMode {
	case "", gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("unknown GIN_MODE %q, expected %q, %q or %q", c.GinMode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
