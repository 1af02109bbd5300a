package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pevans/newsportal/logger"
	"gopkg.in/yaml.v3"
)

// Defaults applied to any value the config file leaves unset.
const (
	DefaultStorageType = "file"
	DefaultStorageDSN  = "portal_config.json"
	DefaultSQLiteDSN   = "portals.db"
	DefaultTimeout     = 10 * time.Second
	DefaultUserAgent   = "newsportal/1.0 (news portal scraper)"
	DefaultMaxPages    = 50
	DefaultAPIAddr     = "localhost:8082"
)

// StorageConfig selects the portal store backend.
type StorageConfig struct {
	Type string `yaml:"type"` // "file" or "sqlite"
	DSN  string `yaml:"dsn"`
}

// HTTPConfig tunes outbound page fetches.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// DetectConfig tunes selector detection.
type DetectConfig struct {
	ProbeFeeds *bool `yaml:"probe_feeds"`
}

// ScrapeConfig bounds scrape runs requested through the API.
type ScrapeConfig struct {
	MaxPages int `yaml:"max_pages"`
}

// APIConfig configures the HTTP API server.
type APIConfig struct {
	Addr string `yaml:"addr"`
}

// FileConfig represents the structure of ~/.newsportal/config.yaml.
type FileConfig struct {
	Storage StorageConfig `yaml:"storage"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     logger.Config `yaml:"log"`
	Detect  DetectConfig  `yaml:"detect"`
	Scrape  ScrapeConfig  `yaml:"scrape"`
	API     APIConfig     `yaml:"api"`
}

// DefaultPath returns ~/.newsportal/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".newsportal", "config.yaml"), nil
}

// Default returns a configuration with every default applied.
func Default() *FileConfig {
	cfg := &FileConfig{}
	cfg.SetDefaults()
	return cfg
}

// LoadConfigFile loads configuration from path. A missing file is not an
// error and yields the defaults. A file that exists but cannot be read or
// parsed is an error.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Storage.Type != "" && cfg.Storage.Type != "file" && cfg.Storage.Type != "sqlite" {
		return nil, fmt.Errorf("invalid storage type %q: must be file or sqlite", cfg.Storage.Type)
	}

	cfg.SetDefaults()
	return &cfg, nil
}

// DefaultDSN returns the default storage location for a storage type.
func DefaultDSN(storageType string) string {
	if storageType == "sqlite" {
		return DefaultSQLiteDSN
	}
	return DefaultStorageDSN
}

// SetDefaults fills every unset field with its default.
func (c *FileConfig) SetDefaults() {
	if c.Storage.Type == "" {
		c.Storage.Type = DefaultStorageType
	}
	if c.Storage.DSN == "" {
		c.Storage.DSN = DefaultDSN(c.Storage.Type)
	}
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = DefaultTimeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = DefaultUserAgent
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Detect.ProbeFeeds == nil {
		probe := true
		c.Detect.ProbeFeeds = &probe
	}
	if c.Scrape.MaxPages <= 0 {
		c.Scrape.MaxPages = DefaultMaxPages
	}
	if c.API.Addr == "" {
		c.API.Addr = DefaultAPIAddr
	}
}

// ApplyEnv overrides file values with NEWSPORTAL_* environment variables
// when they are set.
func (c *FileConfig) ApplyEnv() {
	if v := os.Getenv("NEWSPORTAL_STORAGE_TYPE"); v != "" && v != c.Storage.Type {
		// a DSN left at the old type's default follows the new type
		if c.Storage.DSN == "" || c.Storage.DSN == DefaultDSN(c.Storage.Type) {
			c.Storage.DSN = DefaultDSN(v)
		}
		c.Storage.Type = v
	}
	if v := os.Getenv("NEWSPORTAL_STORAGE_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("NEWSPORTAL_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("NEWSPORTAL_API_ADDR"); v != "" {
		c.API.Addr = v
	}
	if v := os.Getenv("NEWSPORTAL_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.HTTP.Timeout = d
		}
	}
	if v := os.Getenv("NEWSPORTAL_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Scrape.MaxPages = n
		}
	}
}
