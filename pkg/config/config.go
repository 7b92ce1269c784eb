package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market data provider
	Yahoo YahooConfig

	// Breadth data files and batch sizing
	Data DataConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// YahooConfig holds Yahoo Finance chart API configuration
type YahooConfig struct {
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration // per-call bound, one hung symbol must not stall a batch
	RequestsPerSec int           // outbound politeness limit
	Burst          int
}

// DataConfig holds universe/holiday file locations and batch sizing
type DataConfig struct {
	HolidayFile string
	UniverseDir string
	HistoryDays int    // calendar days of history per symbol
	Workers     int    // batch build worker pool size
	BuildCron   string // daily hard-data build schedule (with seconds)

	UniverseRefreshEnabled bool
	RefreshCron            string            // constituents refresh schedule (with seconds)
	ConstituentsURLs       map[string]string // universe name -> page scraped on refresh
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "10000"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "pulse"),
			User:            getEnv("DB_USER", "pulse"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Market data provider
		Yahoo: YahooConfig{
			BaseURL:        getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			UserAgent:      getEnv("YAHOO_USER_AGENT", "Mozilla/5.0"),
			RequestTimeout: getEnvAsDuration("YAHOO_TIMEOUT", "10s"),
			RequestsPerSec: getEnvAsInt("YAHOO_RATE_LIMIT", 4),
			Burst:          getEnvAsInt("YAHOO_RATE_BURST", 4),
		},

		// Breadth data
		Data: DataConfig{
			HolidayFile:            getEnv("HOLIDAY_FILE", "data/holidays.csv"),
			UniverseDir:            getEnv("UNIVERSE_DIR", "data/universes"),
			HistoryDays:            getEnvAsInt("HISTORY_DAYS", 400),
			Workers:                getEnvAsInt("BUILD_WORKERS", 4),
			BuildCron:              getEnv("BUILD_CRON", "0 30 17 * * MON-FRI"),
			UniverseRefreshEnabled: getEnvAsBool("UNIVERSE_REFRESH_ENABLED", false),
			RefreshCron:            getEnv("REFRESH_CRON", "0 0 6 * * SUN"),
			ConstituentsURLs:       getEnvAsMap("CONSTITUENTS_URLS", "nifty50=https://en.wikipedia.org/wiki/NIFTY_50"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	// 370 calendar days guarantee ≥199 trading days when the symbol has them
	if c.Data.HistoryDays < 370 {
		return fmt.Errorf("HISTORY_DAYS must be at least 370, got %d", c.Data.HistoryDays)
	}

	if c.Data.Workers < 1 {
		return fmt.Errorf("BUILD_WORKERS must be at least 1, got %d", c.Data.Workers)
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsMap parses "key1=value1,key2=value2" pairs. Malformed pairs are
// dropped so a typo disables one entry, not the whole map.
func getEnvAsMap(key string, defaultValue string) map[string]string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	result := make(map[string]string)
	for _, pair := range strings.Split(valueStr, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" || value == "" {
			continue
		}
		result[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	return result
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
