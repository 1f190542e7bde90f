package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"moneta/internal/core"
)

type Config struct {
	// HTTP server
	Port string

	// Storage
	DataBackend  string // jsonfile, sqlite or postgres
	DataDir      string // jsonfile slots live here
	SQLiteDBPath string
	PostgresURL  string

	// AMQP mutation events (optional; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Mirror worker
	MirrorPath string

	// Display defaults, used until the user picks their own
	DefaultCurrency string
	DefaultLanguage string

	// Rate limiting and derived-view cache
	RateLimitRPS   int
	RateLimitBurst int
	CacheTTL       time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DataBackend:  getEnv("DATA_BACKEND", "jsonfile"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/moneta.db"),
		PostgresURL:  getEnv("POSTGRES_URL", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "moneta"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		MirrorPath: getEnv("MIRROR_PATH", "./data/mirror.json"),

		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "$"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),

		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
		CacheTTL:       getEnvDuration("CACHE_TTL", 30*time.Second),
	}
}

// Validate checks the configuration and returns a combined error listing
// everything wrong with it.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "jsonfile":
		if c.DataDir == "" {
			errs = append(errs, "data directory cannot be empty for the jsonfile backend")
		} else if err := ensureDir(c.DataDir); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create data directory '%s': %v", c.DataDir, err))
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if err := ensureDir(filepath.Dir(c.SQLiteDBPath)); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create SQLite directory: %v", err))
		}
	case "postgres":
		if c.PostgresURL == "" {
			errs = append(errs, "POSTGRES_URL is required when using postgres backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [jsonfile sqlite postgres]", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if !validCurrency(c.DefaultCurrency) {
		errs = append(errs, fmt.Sprintf("invalid default currency '%s': must be one of %v", c.DefaultCurrency, core.Currencies))
	}
	if c.DefaultLanguage != "en" && c.DefaultLanguage != "ru" {
		errs = append(errs, fmt.Sprintf("invalid default language '%s': must be 'en' or 'ru'", c.DefaultLanguage))
	}

	if c.RateLimitRPS < 1 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per second", c.RateLimitRPS))
	}
	if c.RateLimitBurst < c.RateLimitRPS {
		errs = append(errs, fmt.Sprintf("invalid burst %d: must be at least the per-second rate", c.RateLimitBurst))
	}
	if c.CacheTTL < time.Second || c.CacheTTL > time.Hour {
		errs = append(errs, fmt.Sprintf("invalid cache TTL %v: must be between 1s and 1h", c.CacheTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func validCurrency(s string) bool {
	for _, c := range core.Currencies {
		if c == s {
			return true
		}
	}
	return false
}

func ensureDir(dir string) error {
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
