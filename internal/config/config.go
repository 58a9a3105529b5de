package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned when no scheduling service key is configured.
var ErrMissingAPIKey = errors.New("missing environment variable: LATE_API_KEY")

// Config is the application's configuration model. It is built once per run
// and passed by value to whatever needs it.
type Config struct {
	API         APIConfig         `yaml:"api"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Post        PostConfig        `yaml:"post"`
	Storage     StorageConfig     `yaml:"storage"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Log         LogConfig         `yaml:"log"`
}

type APIConfig struct {
	// If empty, read from env LATE_API_URL
	BaseURL           string  `yaml:"baseURL"`
	PageSize          int     `yaml:"pageSize"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

type CredentialsConfig struct {
	// Late API key. If empty, read from env LATE_API_KEY
	APIKey string `yaml:"apiKey"`
}

type PostConfig struct {
	// IANA zone name sent with every create request
	Timezone         string   `yaml:"timezone"`
	DefaultPlatforms []string `yaml:"defaultPlatforms"`
}

type StorageConfig struct {
	// Optional run journal. Empty disables it.
	JournalPath string `yaml:"journalPath"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		API:     APIConfig{BaseURL: "https://getlate.dev/api/v1", PageSize: 100, RequestsPerSecond: 2, Burst: 5},
		Post:    PostConfig{Timezone: "Asia/Tokyo", DefaultPlatforms: []string{"all"}},
		Storage: StorageConfig{JournalPath: ""},
		Log:     LogConfig{Level: "warn"},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Credentials.APIKey == "" {
		c.Credentials.APIKey = os.Getenv("LATE_API_KEY")
	}
	if v := os.Getenv("LATE_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("LATE_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.PageSize = n
		}
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SNSDEDUPE_JOURNAL"); v != "" {
		c.Storage.JournalPath = v
	}
}

// RequireAPIKey fails with guidance when no key is available.
func (c Config) RequireAPIKey() error {
	if c.Credentials.APIKey == "" {
		return fmt.Errorf("%w (set it in your .env file or credentials.apiKey)", ErrMissingAPIKey)
	}
	return nil
}

// Load reads YAML config from path on top of Default. An empty path yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// LoadEnvFiles loads KEY=value files into the process environment. Missing
// files are skipped and variables already set are not overridden. It returns
// the files that were read.
func LoadEnvFiles(paths ...string) ([]string, error) {
	var loaded []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, fmt.Errorf("load %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}

// DefaultEnvFiles are the env files consulted when none is given.
func DefaultEnvFiles() []string {
	files := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".config", "snsdedupe", ".env"))
	}
	return files
}
