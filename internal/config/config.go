// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every runtime setting. All values come from the
// environment with development defaults.
type Config struct {
	Port         string
	Environment  string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	JWTTTL       time.Duration
	CORSOrigins  []string
	OTLPEndpoint string
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:         getEnv("PORT", "5000"),
		Environment:  getEnv("APP_ENV", "development"),
		MongoURI:     getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGODB_DB", "agadirhub"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:       getDuration("JWT_TTL_HOURS", 168) * time.Hour,
		CORSOrigins:  []string{getEnv("CLIENT_URL", "http://localhost:3000")},
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// IsProduction reports whether the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultHours int) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(defaultHours)
}
