// Package config loads the optional read-only YAML configuration and
// resolves the XDG directories wrr uses.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	appName        = "wrr"
	configFileName = "config.yaml"
	logFileName    = "wrr.log"
)

// Config represents the application configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Display DisplayConfig `yaml:"display"`
}

// HTTPConfig represents page fetching configuration.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" default:"15s" validate:"gt=0"`
	UserAgent    string        `yaml:"user_agent" default:"wrr/1.0 (speed reader)" validate:"required"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" default:"10485760" validate:"gt=0"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	File  string `yaml:"file"` // empty means StateDir()/wrr.log
}

// DisplayConfig represents word display configuration.
type DisplayConfig struct {
	FontSize float32 `yaml:"font_size" default:"72" validate:"gte=20,lte=200"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	// Only fails on malformed tags.
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Load loads configuration from a YAML file. An empty path means DefaultPath();
// a missing default file is not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// LogFile returns the configured log file, or the default one in StateDir().
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(StateDir(), logFileName)
}

// DefaultPath returns XDG_CONFIG_HOME/wrr/config.yaml.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// ConfigDir returns XDG_CONFIG_HOME/wrr or ~/.config/wrr
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// StateDir returns XDG_STATE_HOME/wrr or ~/.local/state/wrr
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", appName)
}
