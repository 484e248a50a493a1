package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	AppName        = "contactsterm"
	EnvPrefix      = "CONTACTSTERM_"
	ConfigFileName = "config.yaml"

	DefaultImportURL     = "https://67c81a760acf98d07084da00.mockapi.io/api/NguyenTrungHau_22660241_SimpleContacts"
	DefaultImportTimeout = 30 * time.Second
	DefaultServeAddr     = "127.0.0.1:8080"
	DefaultLogLevel      = "info"
)

type AppConfig struct {
	DataDir       string
	DBPath        string
	ImportURL     string
	ImportTimeout time.Duration
	LogLevel      string
	LogFile       string
	ServeAddr     string
	Audit         bool
}

// fileConfig mirrors the YAML file; empty fields keep the current value.
type fileConfig struct {
	DBPath        string `yaml:"db_path"`
	ImportURL     string `yaml:"import_url"`
	ImportTimeout string `yaml:"import_timeout"`
	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	ServeAddr     string `yaml:"serve_addr"`
	Audit         *bool  `yaml:"audit"`
}

// Load builds the configuration from defaults, the YAML file in the data
// directory, a .env file in the working directory and CONTACTSTERM_*
// variables, in increasing order of precedence. The result is not validated;
// callers apply their own overrides first and then call Validate.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	dataDir := getEnvOrDefault(EnvPrefix+"DATA_DIR", "")
	if dataDir == "" {
		var err error
		dataDir, err = DefaultDataDir()
		if err != nil {
			return nil, err
		}
	}

	cfg := GetDefaultConfig(dataDir)

	if err := cfg.MergeFile(filepath.Join(dataDir, ConfigFileName)); err != nil {
		return nil, err
	}

	cfg.ApplyEnv()

	return cfg, nil
}

// DefaultDataDir returns ~/.contactsterm.
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, "."+AppName), nil
}

func GetDefaultConfig(dataDir string) *AppConfig {
	return &AppConfig{
		DataDir:       dataDir,
		DBPath:        filepath.Join(dataDir, "contacts.db"),
		ImportURL:     DefaultImportURL,
		ImportTimeout: DefaultImportTimeout,
		LogLevel:      DefaultLogLevel,
		LogFile:       filepath.Join(dataDir, AppName+".log"),
		ServeAddr:     DefaultServeAddr,
		Audit:         true,
	}
}

// MergeFile overlays the YAML file at path. A missing file is not an error.
func (c *AppConfig) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	if fc.ImportURL != "" {
		c.ImportURL = fc.ImportURL
	}
	if fc.ImportTimeout != "" {
		timeout, err := time.ParseDuration(fc.ImportTimeout)
		if err != nil {
			return fmt.Errorf("invalid import_timeout %q: %w", fc.ImportTimeout, err)
		}
		c.ImportTimeout = timeout
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	if fc.ServeAddr != "" {
		c.ServeAddr = fc.ServeAddr
	}
	if fc.Audit != nil {
		c.Audit = *fc.Audit
	}

	return nil
}

// ApplyEnv overlays CONTACTSTERM_* environment variables.
func (c *AppConfig) ApplyEnv() {
	c.DBPath = getEnvOrDefault(EnvPrefix+"DB_PATH", c.DBPath)
	c.ImportURL = getEnvOrDefault(EnvPrefix+"IMPORT_URL", c.ImportURL)
	c.ImportTimeout = parseDurationOrDefault(EnvPrefix+"IMPORT_TIMEOUT", c.ImportTimeout)
	c.LogLevel = getEnvOrDefault(EnvPrefix+"LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnvOrDefault(EnvPrefix+"LOG_FILE", c.LogFile)
	c.ServeAddr = getEnvOrDefault(EnvPrefix+"SERVE_ADDR", c.ServeAddr)
	c.Audit = parseBoolOrDefault(EnvPrefix+"AUDIT", c.Audit)
}

func (c *AppConfig) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}

	u, err := url.Parse(c.ImportURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid import URL: %q (must be http or https)", c.ImportURL)
	}

	if c.ImportTimeout <= 0 {
		return fmt.Errorf("import timeout must be positive, got: %v", c.ImportTimeout)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// AuditDir is where the contact audit trail is written.
func (c *AppConfig) AuditDir() string {
	return filepath.Join(c.DataDir, "audit")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func IsDebugEnabled() bool {
	return os.Getenv(EnvPrefix+"DEBUG") == "true" || os.Getenv(EnvPrefix+"DEBUG") == "1"
}
