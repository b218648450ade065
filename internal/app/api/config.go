package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	catalogclient "github.com/Apurer/go-gin-cart-server/internal/clients/http/catalog"
	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

// Snapshot store backends selectable through CART_STORE.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port           string        `yaml:"port"`
	CatalogBaseURL string        `yaml:"catalogBaseURL"`
	CatalogTimeout time.Duration `yaml:"catalogTimeout"`
	CartStore      string        `yaml:"cartStore"`
	SQLitePath     string        `yaml:"sqlitePath"`
	PostgresDSN    string        `yaml:"postgresDSN"`
	RedisURL       string        `yaml:"redisURL"`
	RedisKeyPrefix string        `yaml:"redisKeyPrefix"`
	StorageKey     string        `yaml:"storageKey"`
	NoticeHistory  int           `yaml:"noticeHistory"`
	Environment    string        `yaml:"environment"`
	LogLevel       string        `yaml:"logLevel"`
	TracesExporter string        `yaml:"tracesExporter"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Port:           "8080",
		CatalogBaseURL: "http://localhost:3333",
		CatalogTimeout: catalogclient.DefaultTimeout,
		CartStore:      StoreSQLite,
		SQLitePath:     filepath.Join("data", "cart.db"),
		StorageKey:     cartports.DefaultStorageKey,
		NoticeHistory:  20,
		Environment:    "local",
		LogLevel:       "info",
		TracesExporter: "otlp",
	}
}

// LoadConfig applies defaults, then the optional YAML file named by
// CART_CONFIG_FILE, then environment variables, and validates the result.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if path := strings.TrimSpace(os.Getenv("CART_CONFIG_FILE")); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = envDefault("PORT", cfg.Port)
	cfg.CatalogBaseURL = envDefault("CATALOG_BASE_URL", cfg.CatalogBaseURL)
	cfg.CartStore = strings.ToLower(envDefault("CART_STORE", cfg.CartStore))
	cfg.SQLitePath = envDefault("SQLITE_PATH", cfg.SQLitePath)
	cfg.PostgresDSN = envDefault("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.RedisURL = envDefault("REDIS_URL", cfg.RedisURL)
	cfg.RedisKeyPrefix = envDefault("REDIS_KEY_PREFIX", cfg.RedisKeyPrefix)
	cfg.StorageKey = envDefault("CART_STORAGE_KEY", cfg.StorageKey)
	cfg.Environment = envDefault("DEPLOYMENT_ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = envDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.TracesExporter = envDefault("OTEL_TRACES_EXPORTER", cfg.TracesExporter)

	if raw := strings.TrimSpace(os.Getenv("CATALOG_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("CATALOG_TIMEOUT_SECONDS must be a positive integer")
		}
		cfg.CatalogTimeout = time.Duration(seconds) * time.Second
	}
	if raw := strings.TrimSpace(os.Getenv("NOTICE_HISTORY")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("NOTICE_HISTORY must be a positive integer")
		}
		cfg.NoticeHistory = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.CartStore {
	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite cart store")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres cart store")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis cart store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown CART_STORE %q", c.CartStore)
	}
	if strings.TrimSpace(c.CatalogBaseURL) == "" {
		return fmt.Errorf("CATALOG_BASE_URL is required")
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("catalog timeout must be positive")
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("CART_STORAGE_KEY must not be blank")
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
