// Package config resolves process configuration from an optional .env file
// and HABYSS_* environment variables. Persistent per-user preferences live in
// the store's settings table instead.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/habyss/internal/constants"
)

const (
	EnvDB                = "HABYSS_DB"
	EnvTimezone          = "HABYSS_TIMEZONE"
	EnvDebug             = "HABYSS_DEBUG"
	EnvLogLevel          = "HABYSS_LOG_LEVEL"
	EnvHTTPAddr          = "HABYSS_HTTP_ADDR"
	EnvConsistencyWindow = "HABYSS_CONSISTENCY_WINDOW"
	EnvRateLimit         = "HABYSS_RATE_LIMIT"
	EnvRateBurst         = "HABYSS_RATE_BURST"
	EnvMetricsUser       = "HABYSS_METRICS_USER"
	EnvMetricsPass       = "HABYSS_METRICS_PASS"
	EnvTrustProxy        = "HABYSS_TRUST_PROXY"
)

type Config struct {
	DB                string
	Timezone          string // overrides the stored timezone setting when set
	Debug             bool
	LogLevel          string
	HTTPAddr          string
	ConsistencyWindow int // 0 means use the stored setting
	RateLimit         int
	RateBurst         int
	MetricsUser       string
	MetricsPass       string
	TrustProxy        bool
}

// Load reads .env from the working directory when present, then the
// environment. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the environment, falling back to defaults.
func FromEnv() *Config {
	cfg := &Config{
		DB:          getEnv(EnvDB, constants.DefaultConfigPath),
		Timezone:    getEnv(EnvTimezone, ""),
		Debug:       getEnvBool(EnvDebug),
		LogLevel:    getEnv(EnvLogLevel, "warn"),
		HTTPAddr:    getEnv(EnvHTTPAddr, constants.DefaultHTTPAddr),
		RateLimit:   constants.DefaultRateLimit,
		RateBurst:   constants.DefaultRateBurst,
		MetricsUser: getEnv(EnvMetricsUser, ""),
		MetricsPass: getEnv(EnvMetricsPass, ""),
		TrustProxy:  getEnvBool(EnvTrustProxy),
	}

	if val := getEnvInt(EnvConsistencyWindow); val > 0 {
		cfg.ConsistencyWindow = val
	}
	if val := getEnvInt(EnvRateLimit); val > 0 {
		cfg.RateLimit = val
	}
	if val := getEnvInt(EnvRateBurst); val > 0 {
		cfg.RateBurst = val
	}
	return cfg
}

// ConfigDir is where logs and backups live: next to the SQLite file, or the
// default config directory for other stores.
func (c *Config) ConfigDir() string {
	if isFilePath(c.DB) {
		if path, err := ExpandPath(c.DB); err == nil {
			return filepath.Dir(path)
		}
	}
	if path, err := ExpandPath(constants.DefaultConfigPath); err == nil {
		return filepath.Dir(path)
	}
	return "."
}

func isFilePath(db string) bool {
	return db != "" && db != ":memory:" && !strings.Contains(db, "://") && !strings.Contains(db, "=")
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}
