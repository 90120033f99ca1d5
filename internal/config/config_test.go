package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BRAIDSTORE_DATA_DIR",
		"BRAIDSTORE_IN_MEMORY",
		"BRAIDSTORE_SYNC_WRITES",
		"BRAIDSTORE_LOW_MEMORY",
		"BRAIDSTORE_MAX_OPEN_FILES",
		"BRAIDSTORE_LOG_LEVEL",
		"BRAIDSTORE_CONFIG_FILE",
	} {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if had {
				os.Setenv(key, old)
			}
		})
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Store.DataDir != "./data" {
		t.Errorf("DataDir = %q, want ./data", cfg.Store.DataDir)
	}
	if cfg.Store.InMemory {
		t.Errorf("InMemory = true, want false by default")
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Logging.Level = %q, want INFO", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)

	os.Setenv("BRAIDSTORE_IN_MEMORY", "true")
	os.Setenv("BRAIDSTORE_MAX_OPEN_FILES", "256")
	os.Setenv("BRAIDSTORE_LOG_LEVEL", "DEBUG")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if !cfg.Store.InMemory {
		t.Errorf("InMemory = false, want true")
	}
	if cfg.Store.MaxOpenFiles != 256 {
		t.Errorf("MaxOpenFiles = %d, want 256", cfg.Store.MaxOpenFiles)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Logging.Level = %q, want DEBUG", cfg.Logging.Level)
	}
}

func TestLoadFromEnvFileOverlay(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "braidstore.yaml")
	yamlBody := "store:\n  dataDir: /var/lib/braidstore\n  lowMemory: true\nlogging:\n  level: WARN\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("writing test config file: %v", err)
	}
	os.Setenv("BRAIDSTORE_CONFIG_FILE", path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Store.DataDir != "/var/lib/braidstore" {
		t.Errorf("DataDir = %q, want /var/lib/braidstore", cfg.Store.DataDir)
	}
	if !cfg.Store.LowMemory {
		t.Errorf("LowMemory = false, want true from file overlay")
	}
	if cfg.Logging.Level != "WARN" {
		t.Errorf("Logging.Level = %q, want WARN", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := &Config{Store: StoreConfig{InMemory: true}, Logging: LoggingConfig{Level: "LOUD"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to reject an unknown log level")
	}
}

func TestValidateRequiresDataDirUnlessInMemory(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "INFO"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to reject an empty DataDir when InMemory is false")
	}
}
