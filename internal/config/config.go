// Package config loads and saves the mepbudget configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment overrides, applied after the config file is read.
const (
	EnvExportDir = "MEPBUDGET_EXPORT_DIR"
	EnvAddr      = "MEPBUDGET_ADDR"
	EnvTheme     = "MEPBUDGET_THEME"
)

// Config holds all mepbudget configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Export     ExportConfig     `toml:"export"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	UnitLabel string `toml:"unit_label"`
}

// ExportConfig controls where reports are written.
type ExportConfig struct {
	Dir string `toml:"dir,omitempty"`
}

// ServerConfig holds settings for the HTTP dashboard.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			UnitLabel: "B",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8788",
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mepbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mepbudget")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment. Variables already set are kept. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads the config file, returning defaults if it doesn't exist, and
// applies environment overrides.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

// LoadFile reads the config file without environment overrides. Use it as
// the base for anything that is saved back, so overrides stay out of the
// file.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// Update sets one key in the config file and saves it.
func Update(key, value string) error {
	cfg, err := LoadFile()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	return Save(cfg)
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Set updates a single setting addressed as "section.key" from its text
// form. It is used by the settings tab.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "general.unit_label":
		if value == "" {
			return errors.New("unit label cannot be empty")
		}
		c.General.UnitLabel = value
	case "export.dir":
		c.Export.Dir = value
	case "server.addr":
		if value == "" {
			return errors.New("address cannot be empty")
		}
		c.Server.Addr = value
	case "server.events_buffer":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("events buffer must be a positive integer, got %q", value)
		}
		c.Server.EventsBuffer = n
	case "appearance.theme":
		c.Appearance.Theme = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// ExportDir returns the directory reports are written to.
func (c Config) ExportDir() string {
	if c.Export.Dir == "" {
		return "."
	}
	return c.Export.Dir
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvExportDir); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Appearance.Theme = v
	}
}

func (c *Config) normalize() {
	def := DefaultConfig()
	if strings.TrimSpace(c.General.UnitLabel) == "" {
		c.General.UnitLabel = def.General.UnitLabel
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.EventsBuffer <= 0 {
		c.Server.EventsBuffer = def.Server.EventsBuffer
	}
	if c.Appearance.Theme == "" {
		c.Appearance.Theme = def.Appearance.Theme
	}
}
