package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"editorjump/internal/host"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
)

// Config holds the application configuration
type Config struct {
	SettingsPath   string `json:"settings_path"`             // YAML file holding the IDE list
	WebAddr        string `json:"web_addr"`                  // Listen address of the browser page
	LogPath        string `json:"log_path"`                  // Log file used by the terminal surface
	Platform       string `json:"platform,omitempty"`        // Overrides the detected platform
	HighlightStyle string `json:"highlight_style,omitempty"` // Chroma style of the settings preview
	FirstRun       bool   `json:"-"`                         // Is this the first run?

	file *Config // values before environment overrides
}

// Environment variables that override the file.
const (
	EnvSettings = "EDITORJUMP_SETTINGS"
	EnvWebAddr  = "EDITORJUMP_WEB_ADDR"
	EnvLog      = "EDITORJUMP_LOG"
	EnvPlatform = "EDITORJUMP_PLATFORM"
)

// DefaultWebAddr is where the browser page is served by default.
const DefaultWebAddr = "127.0.0.1:7717"

// configFileName is the name of the config file
const configFileName = "editorjump.json"

// Default returns the default configuration
func Default() *Config {
	return &Config{
		SettingsPath: filepath.Join(ConfigDir(), "settings.yaml"),
		WebAddr:      DefaultWebAddr,
		LogPath:      filepath.Join(ConfigDir(), "editorjump.log"),
		FirstRun:     true,
	}
}

// ConfigDir returns the directory containing editorjump config files
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "editorjump")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// Load loads the configuration from the default location, then applies the
// environment overrides.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from path. Comments and trailing commas
// are allowed. A .env file in the same directory is read into the process
// environment first; variables already set win.
func LoadFrom(path string) (*Config, error) {
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run - keep defaults
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.FirstRun = false
	}

	cfg.fillDefaults()
	file := *cfg
	cfg.file = &file

	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

// FileValues returns the configuration without environment overrides, the
// form it should be saved in.
func (c *Config) FileValues() *Config {
	if c.file == nil {
		return c
	}
	file := *c.file
	return &file
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSettings); v != "" {
		c.SettingsPath = v
	}
	if v := os.Getenv(EnvWebAddr); v != "" {
		c.WebAddr = v
	}
	if v := os.Getenv(EnvLog); v != "" {
		c.LogPath = v
	}
	if v := os.Getenv(EnvPlatform); v != "" {
		c.Platform = v
	}
}

// fillDefaults restores fields a config file left empty.
func (c *Config) fillDefaults() {
	def := Default()
	if c.SettingsPath == "" {
		c.SettingsPath = def.SettingsPath
	}
	if c.WebAddr == "" {
		c.WebAddr = def.WebAddr
	}
	if c.LogPath == "" {
		c.LogPath = def.LogPath
	}
}

// Save saves the configuration to the default location
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration to path
func (c *Config) SaveTo(path string) error {
	// Create config directory
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// TargetPlatform is the configured platform override, or the running one.
func (c *Config) TargetPlatform() host.Platform {
	if c.Platform != "" {
		return host.Platform(c.Platform)
	}
	return host.Current()
}
