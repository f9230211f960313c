package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Version    int         `toml:"version"`
	API        APISettings `toml:"api"`
	UISettings UISettings  `toml:"ui"`
}

// APISettings configures the photo search API client
type APISettings struct {
	BaseURL        string  `toml:"base_url"`
	Key            string  `toml:"key"`
	KeywordsURL    string  `toml:"keywords_url"`
	PerPage        int     `toml:"per_page"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RequestsPerSec float64 `toml:"requests_per_sec"`
	CachePages     int     `toml:"cache_pages"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowPhotoDetails bool `toml:"show_photo_details"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	picgripDir := filepath.Join(configDir, "picgrip")
	os.MkdirAll(picgripDir, 0755)

	return &configService{
		filePath: filepath.Join(picgripDir, "config.toml"),
	}
}

// Load loads the configuration from the default path
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to the default path
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyDefaults fills in zero-valued settings a config file may omit
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.PerPage <= 0 {
		c.API.PerPage = def.API.PerPage
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = def.API.TimeoutSeconds
	}
	if c.API.RequestsPerSec <= 0 {
		c.API.RequestsPerSec = def.API.RequestsPerSec
	}
	if c.API.CachePages <= 0 {
		c.API.CachePages = def.API.CachePages
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APISettings{
			BaseURL:        "https://pixabay.com/api/",
			PerPage:        20,
			TimeoutSeconds: 15,
			RequestsPerSec: 2,
			CachePages:     64,
		},
		UISettings: UISettings{
			ShowPhotoDetails: true,
		},
	}
}
