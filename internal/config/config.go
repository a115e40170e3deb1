package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/deployment-planner/pkg/core/policy"
	"github.com/jakechorley/deployment-planner/pkg/db"
)

const (
	DefaultServerAddr   = ":8080"
	DefaultRepeatLimit  = 60
	DefaultWeatherURL   = "https://api.openweathermap.org/data/2.5/weather"
	DefaultWeatherUnits = "metric"
	DefaultWeatherTTL   = 30 * time.Minute
)

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty" validate:"dive,url"`
}

// WeatherConfig configures the OpenWeather lookup used to fill shift info
type WeatherConfig struct {
	APIKey    string        `yaml:"apiKey" validate:"required"`
	Endpoint  string        `yaml:"endpoint,omitempty" validate:"omitempty,url"`
	Latitude  float64       `yaml:"latitude" validate:"min=-90,max=90"`
	Longitude float64       `yaml:"longitude" validate:"min=-180,max=180"`
	Units     string        `yaml:"units,omitempty" validate:"omitempty,oneof=metric imperial standard"`
	CacheTTL  time.Duration `yaml:"cacheTTL,omitempty" validate:"min=0"`
}

// RepeatPreset names a recurrence rule so it can be used with
// `deployments repeat --preset`
type RepeatPreset struct {
	Name  string `yaml:"name" validate:"required"`
	RRule string `yaml:"rrule" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL    string         `yaml:"databaseURL,omitempty"`
	FallbackPath   string         `yaml:"fallbackPath" validate:"required"`
	BreakPolicy    string         `yaml:"breakPolicy,omitempty"`
	DateLayout     string         `yaml:"dateLayout,omitempty"`
	RepeatLimit    int            `yaml:"repeatLimit,omitempty" validate:"min=0"`
	RepeatPresets  []RepeatPreset `yaml:"repeatPresets,omitempty" validate:"dive"`
	Server         ServerConfig   `yaml:"server"`
	PublishSheetID string         `yaml:"publishSheetID,omitempty"`
	Weather        *WeatherConfig `yaml:"weather,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Policy returns the configured break policy
func (c *Config) Policy() policy.BreakPolicy {
	p, _ := policy.ParseBreakPolicy(c.BreakPolicy)
	return p
}

// Preset returns the rrule for a named preset
func (c *Config) Preset(name string) (string, bool) {
	for _, p := range c.RepeatPresets {
		if p.Name == name {
			return p.RRule, true
		}
	}
	return "", false
}

// Offline reports whether no remote database is configured
func (c *Config) Offline() bool {
	return c.DatabaseURL == ""
}

// LoadWithEnv loads and validates the configuration for an environment
// For example, env="dev" will look for "deployment_config.dev.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findFile(configFileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BreakPolicy == "" {
		cfg.BreakPolicy = string(policy.VariantA)
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = db.DefaultDateLayout
	}
	if cfg.RepeatLimit == 0 {
		cfg.RepeatLimit = DefaultRepeatLimit
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if w := cfg.Weather; w != nil {
		if w.Endpoint == "" {
			w.Endpoint = DefaultWeatherURL
		}
		if w.Units == "" {
			w.Units = DefaultWeatherUnits
		}
		if w.CacheTTL == 0 {
			w.CacheTTL = DefaultWeatherTTL
		}
	}
}

// Validate validates the configuration struct, the break policy, the date
// layout and each repeat preset's rrule
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := policy.ParseBreakPolicy(cfg.BreakPolicy); err != nil {
		return fmt.Errorf("invalid breakPolicy: %w", err)
	}

	if err := checkLayout(cfg.DateLayout); err != nil {
		return fmt.Errorf("invalid dateLayout: %w", err)
	}

	seen := make(map[string]bool, len(cfg.RepeatPresets))
	for i, preset := range cfg.RepeatPresets {
		if seen[preset.Name] {
			return fmt.Errorf("duplicate repeatPresets name %q", preset.Name)
		}
		seen[preset.Name] = true
		if _, err := rrule.StrToRRule(preset.RRule); err != nil {
			return fmt.Errorf("invalid rrule in repeatPresets[%d]: %w", i, err)
		}
	}

	return nil
}

// checkLayout rejects layouts that cannot round-trip a calendar date
func checkLayout(layout string) error {
	ref := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	parsed, err := time.Parse(layout, ref.Format(layout))
	if err != nil {
		return err
	}
	if !parsed.Equal(ref) {
		return fmt.Errorf("layout %q does not identify a day", layout)
	}
	return nil
}

func configFileName(env string) string {
	if env == "" {
		return "deployment_config.yaml"
	}
	return "deployment_config." + env + ".yaml"
}

// findFile searches for name in the current directory and then the home
// directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
