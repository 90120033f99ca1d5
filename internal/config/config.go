// Package config loads braidstore's configuration from environment
// variables, with an optional YAML file overlay for settings that are
// awkward to express as a single env var.
//
// Example:
//
//	cfg, err := config.LoadFromEnv()
//	if err != nil {
//		log.Fatalf("loading config: %v", err)
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("invalid config: %v", err)
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds everything needed to open a Datastore and drive the
// CLI: Store tuning plus the ambient Logging concern.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures the underlying BadgerDB instance.
type StoreConfig struct {
	DataDir      string `yaml:"dataDir"`
	InMemory     bool   `yaml:"inMemory"`
	SyncWrites   bool   `yaml:"syncWrites"`
	LowMemory    bool   `yaml:"lowMemory"`
	MaxOpenFiles int    `yaml:"maxOpenFiles"`
}

// LoggingConfig holds the configured log level. Validate checks it;
// nothing else in braidstore reads it.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LoadFromEnv builds a Config from BRAIDSTORE_* environment variables,
// then overlays a YAML file if BRAIDSTORE_CONFIG_FILE points at one.
// Settings present in the file override both the environment
// variables and the defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Store: StoreConfig{
			DataDir:      getEnv("BRAIDSTORE_DATA_DIR", "./data"),
			InMemory:     getEnvBool("BRAIDSTORE_IN_MEMORY", false),
			SyncWrites:   getEnvBool("BRAIDSTORE_SYNC_WRITES", false),
			LowMemory:    getEnvBool("BRAIDSTORE_LOW_MEMORY", false),
			MaxOpenFiles: getEnvInt("BRAIDSTORE_MAX_OPEN_FILES", 0),
		},
		Logging: LoggingConfig{
			Level: getEnv("BRAIDSTORE_LOG_LEVEL", "INFO"),
		},
	}

	if path := os.Getenv("BRAIDSTORE_CONFIG_FILE"); path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks for settings that would make Open fail or behave
// unexpectedly.
func (c *Config) Validate() error {
	if !c.Store.InMemory && c.Store.DataDir == "" {
		return fmt.Errorf("store.dataDir must be set unless store.inMemory is true")
	}
	if c.Store.MaxOpenFiles < 0 {
		return fmt.Errorf("store.maxOpenFiles must not be negative")
	}
	switch strings.ToUpper(c.Logging.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	return nil
}

// String is safe for logging: there is nothing sensitive in Config.
func (c *Config) String() string {
	return fmt.Sprintf("Config{DataDir: %s, InMemory: %v, LogLevel: %s}",
		c.Store.DataDir, c.Store.InMemory, c.Logging.Level)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(val)
		return val == "true" || val == "1" || val == "yes" || val == "on"
	}
	return defaultVal
}
