package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DB_PATH", "IMPORT_URL", "IMPORT_TIMEOUT", "LOG_LEVEL", "LOG_FILE", "SERVE_ADDR", "AUDIT", "DEBUG"} {
		t.Setenv(EnvPrefix+key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dataDir := t.TempDir()
	t.Setenv(EnvPrefix+"DATA_DIR", dataDir)

	config, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.DBPath != filepath.Join(dataDir, "contacts.db") {
		t.Errorf("Expected default db path in data dir, got '%s'", config.DBPath)
	}

	if config.ImportURL != DefaultImportURL {
		t.Errorf("Expected default import URL, got '%s'", config.ImportURL)
	}

	if config.ImportTimeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", config.ImportTimeout)
	}

	if config.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", config.LogLevel)
	}

	if !config.Audit {
		t.Error("Expected audit to be enabled by default")
	}
}

func TestLoadWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPrefix+"DATA_DIR", t.TempDir())
	t.Setenv(EnvPrefix+"DB_PATH", "/tmp/other.db")
	t.Setenv(EnvPrefix+"IMPORT_URL", "http://localhost:9000/contacts")
	t.Setenv(EnvPrefix+"IMPORT_TIMEOUT", "5s")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "debug")
	t.Setenv(EnvPrefix+"AUDIT", "false")

	config, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.DBPath != "/tmp/other.db" {
		t.Errorf("Expected db path from env, got '%s'", config.DBPath)
	}

	if config.ImportURL != "http://localhost:9000/contacts" {
		t.Errorf("Expected import URL from env, got '%s'", config.ImportURL)
	}

	if config.ImportTimeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", config.ImportTimeout)
	}

	if config.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", config.LogLevel)
	}

	if config.Audit {
		t.Error("Expected audit to be disabled")
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	clearEnv(t)
	dataDir := t.TempDir()
	t.Setenv(EnvPrefix+"DATA_DIR", dataDir)
	t.Setenv(EnvPrefix+"LOG_LEVEL", "warn")

	content := "import_url: https://example.com/people\nimport_timeout: 10s\nlog_level: error\naudit: false\n"
	if err := os.WriteFile(filepath.Join(dataDir, ConfigFileName), []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.ImportURL != "https://example.com/people" {
		t.Errorf("Expected import URL from file, got '%s'", config.ImportURL)
	}

	if config.ImportTimeout != 10*time.Second {
		t.Errorf("Expected timeout 10s from file, got %v", config.ImportTimeout)
	}

	// env wins over the file
	if config.LogLevel != "warn" {
		t.Errorf("Expected log level 'warn' from env, got '%s'", config.LogLevel)
	}

	if config.Audit {
		t.Error("Expected audit disabled by file")
	}
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	t.Setenv(EnvPrefix+"DATA_DIR", t.TempDir())
	t.Setenv(EnvPrefix+"IMPORT_URL", "not a url")

	config, err := Load()
	if err != nil {
		t.Fatalf("Expected Load to succeed before overrides, got %v", err)
	}

	if err := config.Validate(); err == nil {
		t.Error("Expected Validate to reject the env import URL")
	}

	config.ImportURL = "https://example.com/contacts"
	if err := config.Validate(); err != nil {
		t.Errorf("Expected overridden config to validate, got %v", err)
	}
}

func TestMergeFileRejectsBadTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("import_timeout: soon\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := GetDefaultConfig(t.TempDir())
	if err := config.MergeFile(path); err == nil {
		t.Error("Expected error for invalid import_timeout")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr bool
	}{
		{"defaults", func(c *AppConfig) {}, false},
		{"empty db path", func(c *AppConfig) { c.DBPath = "" }, true},
		{"ftp import url", func(c *AppConfig) { c.ImportURL = "ftp://example.com" }, true},
		{"relative import url", func(c *AppConfig) { c.ImportURL = "/contacts" }, true},
		{"zero timeout", func(c *AppConfig) { c.ImportTimeout = 0 }, true},
		{"unknown level", func(c *AppConfig) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := GetDefaultConfig("/tmp/contactsterm")
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" DEBUG ")
	if err != nil || level != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v (%v)", level, err)
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Error("Info message should be filtered at warn level")
	}
	if !strings.Contains(output, "shown") {
		t.Error("Expected warn message in output")
	}
}

func TestSetupLoggingCreatesFile(t *testing.T) {
	clearEnv(t)
	previous := slog.Default()
	defer slog.SetDefault(previous)

	config := GetDefaultConfig(t.TempDir())
	closer, err := SetupLogging(config)
	if err != nil {
		t.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	slog.Info("hello")

	data, err := os.ReadFile(config.LogFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("Expected log line in file, got %q", string(data))
	}
}
