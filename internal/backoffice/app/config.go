package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// ErrMissingKeyMaterial reports that the encryption secret or salt is unset.
// The service refuses to start without them rather than running with the
// sensitive-note column effectively in plaintext reach.
var ErrMissingKeyMaterial = errors.New("BACKDESK_SECRET and BACKDESK_SALT must be set")

type Config struct {
	Secret string // Required: master secret for the note encryption key
	Salt   string // Required: KDF salt, fixed per deployment

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./backdesk.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	SecureCookies        bool          // Mark session cookies Secure (default: true outside dev)
	SessionTTL           time.Duration // Session lifetime (default: 12h)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-session sweep interval (default: 1h)

	SeedAdminUser     string // Optional: username for the bootstrap admin on an empty database
	SeedAdminPassword string // Optional: password for the bootstrap admin
}

func LoadConfig() Config {
	cfg := Config{
		Secret:               os.Getenv("BACKDESK_SECRET"),
		Salt:                 os.Getenv("BACKDESK_SALT"),
		DatabaseFile:         getEnvOrDefault("BACKDESK_DATABASE_FILE", "backdesk.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		SessionTTL:           getEnvDurationOrDefault("BACKDESK_SESSION_TTL", 12*time.Hour),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		SeedAdminUser:        os.Getenv("BACKDESK_SEED_ADMIN_USER"),
		SeedAdminPassword:    os.Getenv("BACKDESK_SEED_ADMIN_PASSWORD"),
	}

	cfg.SecureCookies = cfg.Env != "dev"

	return cfg
}

// Validate rejects a configuration the service cannot run safely with.
func (c Config) Validate() error {
	if c.Secret == "" || c.Salt == "" {
		return ErrMissingKeyMaterial
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
