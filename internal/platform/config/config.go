// Package config loads runtime configuration from environment variables so
// main stays lean. A local .env file is honored in development.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration

	// DatabaseURL is the application connection. PrivilegedDatabaseURL is a
	// service-role connection that bypasses row-level security; the
	// verification write path is the only consumer. When empty, it falls
	// back to DatabaseURL. When DatabaseURL itself is empty the service runs
	// on in-memory stores (development mode).
	DatabaseURL           string
	PrivilegedDatabaseURL string

	RedisURL        string
	PendingCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	JWTSigningKey string

	Verification VerificationConfig
}

// VerificationConfig holds the explicit policy choices the workflow leaves
// open: whether reject deletes the account and whether the verification
// badge is deduplicated.
type VerificationConfig struct {
	DeleteOnReject bool
	BadgeDedupe    bool
}

// Load builds a Config from environment variables. The .env load is
// best-effort; a missing file is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:                  getEnv("LEGACYLINK_ADDR", ":8080"),
		ShutdownTimeout:       getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		PrivilegedDatabaseURL: getEnv("PRIVILEGED_DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		PendingCacheTTL:       getEnvDuration("PENDING_CACHE_TTL", 30*time.Second),
		KafkaBrokers:          getEnvList("KAFKA_BROKERS"),
		KafkaTopic:            getEnv("KAFKA_TOPIC", "legacylink.notifications"),
		JWTSigningKey:         getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Verification: VerificationConfig{
			DeleteOnReject: getEnvBool("VERIFICATION_DELETE_ON_REJECT", false),
			BadgeDedupe:    getEnvBool("VERIFICATION_BADGE_DEDUPE", false),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "true" || v == "1"
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
