package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	TelegramToken string            `yaml:"telegram_token"`
	MapsAPIKey    string            `yaml:"maps_api_key"`
	TimeZone      string            `yaml:"time_zone"`
	Log           LogConfig         `yaml:"log"`
	Search        SearchConfig      `yaml:"search"`
	Celebration   CelebrationConfig `yaml:"celebration"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

type SearchConfig struct {
	// BiasRadiusKm is the half-size of the search area around a shared
	// location.
	BiasRadiusKm float64 `yaml:"bias_radius_km"`
}

type CelebrationConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Duration time.Duration `yaml:"duration"`
	Interval time.Duration `yaml:"interval"`
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
}

var (
	ErrMissingToken = errors.New("missing telegram bot token (TELEGRAM_BOT_TOKEN)")
	ErrInvalidSize  = errors.New("width and height must be positive")
)

func Default() Config {
	return Config{
		TimeZone: "Local",
		Log:      LogConfig{Level: "info", Format: "console"},
		Search:   SearchConfig{BiasRadiusKm: 5},
		Celebration: CelebrationConfig{
			Enabled:  true,
			Duration: 4 * time.Second,
			Interval: 200 * time.Millisecond,
			Width:    640,
			Height:   480,
		},
	}
}

// Load reads path (when not empty) over the defaults, then applies the
// environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("error reading config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("error parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (cfg *Config) applyEnvOverrides() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.TelegramToken = v
	}
	if v := os.Getenv("GOOGLE_MAPS_API_KEY"); v != "" {
		cfg.MapsAPIKey = v
	}
	if v := os.Getenv("DATEPLAN_TIME_ZONE"); v != "" {
		cfg.TimeZone = v
	}
	if v := os.Getenv("DATEPLAN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
}

// Validate checks what the bot needs to start.
func (cfg Config) Validate() error {
	if cfg.TelegramToken == "" {
		return ErrMissingToken
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	if c := cfg.Celebration; c.Enabled && (c.Width <= 0 || c.Height <= 0) {
		return fmt.Errorf("invalid celebration size %dx%d: %w", c.Width, c.Height, ErrInvalidSize)
	}
	return nil
}

func (cfg Config) Location() (*time.Location, error) {
	if cfg.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time_zone %q: %w", cfg.TimeZone, err)
	}
	return loc, nil
}
