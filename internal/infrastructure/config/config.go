package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the Heima panel core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Logging   LoggingConfig   `yaml:"logging"`
	Devices   DevicesConfig   `yaml:"devices"`
	Gesture   GestureConfig   `yaml:"gesture"`
	Carousel  CarouselConfig  `yaml:"carousel"`
	Simulator SimulatorConfig `yaml:"simulator"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DevicesConfig points at the device seed file.
// An empty SeedFile loads the built-in demo devices.
type DevicesConfig struct {
	SeedFile string `yaml:"seed_file"`
}

// GestureConfig contains the pointer gesture classification thresholds.
type GestureConfig struct {
	// MoveEndThreshold is the vertical distance (px) a release must exceed to count as a move-end.
	MoveEndThreshold float64 `yaml:"move_end_threshold"`

	// ClickMaxHorizontal is the horizontal distance (px) below which a release is still a click.
	ClickMaxHorizontal float64 `yaml:"click_max_horizontal"`

	// ShortClickMS and MediumClickMS are the upper press-duration bounds for short and medium clicks.
	ShortClickMS  int `yaml:"short_click_ms"`
	MediumClickMS int `yaml:"medium_click_ms"`
}

// CarouselConfig contains device card carousel settings.
type CarouselConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Threshold float64 `yaml:"threshold"`

	// SettleTimeoutMS is how long a session waits for the client's transition-complete
	// signal before settling the carousel itself.
	SettleTimeoutMS int `yaml:"settle_timeout_ms"`
}

// SimulatorConfig contains the meter simulator settings.
type SimulatorConfig struct {
	Enabled    bool    `yaml:"enabled"`
	IntervalMS int     `yaml:"interval_ms"`
	Jitter     float64 `yaml:"jitter"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HEIMA_SECTION_KEY
// For example: HEIMA_API_PORT, HEIMA_DEVICES_SEED_FILE
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration with environment overrides applied.
// It is used when no config file is present.
func Default() *Config {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	return cfg
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:   "home-001",
			Name: "Heima",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8888,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Gesture: GestureConfig{
			MoveEndThreshold:   10,
			ClickMaxHorizontal: 25,
			ShortClickMS:       300,
			MediumClickMS:      1000,
		},
		Carousel: CarouselConfig{
			Width:           250,
			Height:          250,
			Threshold:       100,
			SettleTimeoutMS: 400,
		},
		Simulator: SimulatorConfig{
			Enabled:    true,
			IntervalMS: 250,
			Jitter:     1,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Malformed numeric values are ignored and the previous value is kept.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEIMA_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("HEIMA_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	if v := os.Getenv("HEIMA_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HEIMA_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("HEIMA_DEVICES_SEED_FILE"); v != "" {
		cfg.Devices.SeedFile = v
	}

	if v := os.Getenv("HEIMA_SIMULATOR_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Simulator.Enabled = enabled
		}
	}
}

// Validate checks the configuration for errors.
// All problems are collected and reported together.
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.WebSocket.MaxMessageSize <= 0 {
		errs = append(errs, "websocket.max_message_size must be positive")
	}
	if c.WebSocket.PingInterval <= 0 {
		errs = append(errs, "websocket.ping_interval must be positive")
	}

	if c.Gesture.MoveEndThreshold < 0 || c.Gesture.ClickMaxHorizontal <= 0 {
		errs = append(errs, "gesture thresholds must be positive")
	}
	if c.Gesture.ShortClickMS <= 0 || c.Gesture.MediumClickMS <= c.Gesture.ShortClickMS {
		errs = append(errs, "gesture.medium_click_ms must be greater than gesture.short_click_ms (both positive)")
	}

	if c.Carousel.Width <= 0 || c.Carousel.Height <= 0 {
		errs = append(errs, "carousel.width and carousel.height must be positive")
	}
	if c.Carousel.Threshold <= 0 {
		errs = append(errs, "carousel.threshold must be positive")
	}
	if c.Carousel.SettleTimeoutMS <= 0 {
		errs = append(errs, "carousel.settle_timeout_ms must be positive")
	}

	if c.Simulator.Enabled && c.Simulator.IntervalMS <= 0 {
		errs = append(errs, "simulator.interval_ms must be positive when the simulator is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c APIConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c APIConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c APIConfig) GetIdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}

// SettleTimeout returns the carousel settle fallback as a Duration.
func (c CarouselConfig) SettleTimeout() time.Duration {
	return time.Duration(c.SettleTimeoutMS) * time.Millisecond
}

// Interval returns the simulator tick interval as a Duration.
func (c SimulatorConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}
