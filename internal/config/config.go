package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

const (
	AuthModeStatic = "static"
	AuthModeJWT    = "jwt"

	// DefaultUserID is the identity every request acts as when no real
	// authentication is configured.
	DefaultUserID = "temp-user-123"
)

// Config holds application configuration
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBDriver   string

	LogLevel  string
	LogFormat string
	GinMode   string

	AuthMode     string
	StaticUserID string
	JWTSecret    string

	CORSOrigins []string
}

// Load reads configuration from the environment (and .env, if present)
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "stackit"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),
		DBDriver:     getEnv("DB_DRIVER", "pgx"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		GinMode:      getEnv("GIN_MODE", "debug"),
		AuthMode:     getEnv("AUTH_MODE", AuthModeStatic),
		StaticUserID: getEnv("STATIC_USER_ID", DefaultUserID),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS",
			"http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations that cannot be defaulted
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be pgx or postgres, got %q", c.DBDriver)
	}

	switch c.AuthMode {
	case AuthModeStatic:
		if c.StaticUserID == "" {
			return fmt.Errorf("STATIC_USER_ID is required when AUTH_MODE=%s", AuthModeStatic)
		}
	case AuthModeJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=%s", AuthModeJWT)
		}
	default:
		return fmt.Errorf("AUTH_MODE must be %s or %s, got %q", AuthModeStatic, AuthModeJWT, c.AuthMode)
	}

	return nil
}

// DSN builds a postgres:// URL understood by both drivers. Credentials are
// escaped so empty or unusual values cannot bleed into other settings.
func (c *Config) DSN() string {
	query := url.Values{}
	query.Set("sslmode", c.DBSSLMode)
	query.Set("TimeZone", "UTC")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: query.Encode(),
	}
	return u.String()
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
