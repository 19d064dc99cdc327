package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the full service configuration, resolved once at startup.
type Config struct {
	Port     string
	MongoURI string
	MongoDB  string
	RedisURL string

	// Raw set caching
	FeedCacheTTL     time.Duration // no-category feed
	CategoryCacheTTL time.Duration // per-category feed
	RawFetchLimit    int           // max rows pulled from the store per fill
}

// Load resolves configuration from the environment.
func Load() Config {
	return Config{
		Port:             GetEnv("PORT", "18030"),
		MongoURI:         GetEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          GetEnv("MONGO_DB", "ripple"),
		RedisURL:         GetEnv("REDIS_URL", "redis://localhost:6379"),
		FeedCacheTTL:     GetEnvDuration("FEED_CACHE_TTL", 5*time.Minute),
		CategoryCacheTTL: GetEnvDuration("CATEGORY_CACHE_TTL", 15*time.Minute),
		RawFetchLimit:    GetEnvInt("RAW_FETCH_LIMIT", 1000),
	}
}

// LoadEnv loads environment variables from local .env files if present.
func LoadEnv(logger *logrus.Logger) {
	files := []string{".env", ".env.dev"}
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			if logger != nil {
				logger.WithError(err).Warnf("Failed to load %s", file)
			}
			continue
		}
		loaded = append(loaded, file)
	}
	if logger == nil {
		return
	}
	if len(loaded) == 0 {
		logger.Debug("No local env files loaded; relying on process environment")
	} else {
		logger.Debugf("Loaded env files: %s", strings.Join(loaded, ", "))
	}
}

// GetEnv gets an environment variable with a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer environment variable with a default value
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetEnvDuration gets a duration environment variable with a default value
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetLogLevel gets the log level from environment
func GetLogLevel() logrus.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
