package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/random"
	"github.com/sirupsen/logrus"
)

// Config is the console's runtime configuration, read from the environment
type Config struct {
	Port int

	// WMS REST API
	APIBaseURL string
	APITimeout time.Duration

	// Browser session
	SessionSecret    string
	SessionIdleTTL   time.Duration
	SecureCookie     bool
	EvictionInterval time.Duration

	// Credential store; empty RedisAddr selects the in-memory store
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Import archive; empty MinioEndpoint disables archiving
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	ImportBucket   string

	PolicyFile string

	LoginRateLimit  int
	LoginRateWindow time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads .env when present, then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:             envInt("PORT", 8080),
		APIBaseURL:       envString("WMS_API_URL", "http://127.0.0.1:8000"),
		APITimeout:       envDuration("WMS_API_TIMEOUT", 0),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		SessionIdleTTL:   envDuration("SESSION_IDLE_TTL", 8*time.Hour),
		SecureCookie:     envBool("COOKIE_SECURE", false),
		EvictionInterval: envDuration("SESSION_EVICT_INTERVAL", 5*time.Minute),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          envInt("REDIS_DB", 0),
		MinioEndpoint:    os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:   envString("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:   envString("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:      envBool("MINIO_USE_SSL", false),
		ImportBucket:     envString("MINIO_IMPORT_BUCKET", "wms-imports"),
		PolicyFile:       os.Getenv("RBAC_POLICY_FILE"),
		LoginRateLimit:   envInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:  envDuration("LOGIN_RATE_WINDOW", time.Minute),
		LogLevel:         envString("LOG_LEVEL", "info"),
		LogFormat:        envString("LOG_FORMAT", "json"),
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = random.String(32)
		logrus.Warn("SESSION_SECRET not set, using a generated secret; sessions will not survive a restart")
	}
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return nil, fmt.Errorf("WMS_API_URL must be an http(s) URL, got %q", cfg.APIBaseURL)
	}
	return cfg, nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if c.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		logrus.Warnf("invalid %s=%q, using %d", key, v, def)
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		logrus.Warnf("invalid %s=%q, using %s", key, v, def)
	}
	return def
}
