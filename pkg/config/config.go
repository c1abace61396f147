package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
)

// Config represents the application configuration shared by the web front end,
// the terminal front end and the development backend.
type Config struct {
	AppEnv   string        `yaml:"app_env" env:"FUNDSPARK_APP_ENV"`
	LogLevel string        `yaml:"log_level" env:"FUNDSPARK_LOG_LEVEL"`
	Server   ServerConfig  `yaml:"server"`
	Backend  BackendConfig `yaml:"backend"`
	Session  SessionConfig `yaml:"session"`
	Home     HomeConfig    `yaml:"home"`
	DevAPI   DevAPIConfig  `yaml:"dev_api"`
	TUI      TUIConfig     `yaml:"tui"`
}

// ServerConfig represents the web front end HTTP server
type ServerConfig struct {
	Host      string `yaml:"host" env:"FUNDSPARK_HOST"`
	Port      int    `yaml:"port" env:"FUNDSPARK_PORT"`
	StaticDir string `yaml:"static_dir" env:"FUNDSPARK_STATIC_DIR"`
}

// BackendConfig points the front ends at the crowdfunding API.
type BackendConfig struct {
	BaseURL string `yaml:"base_url" env:"FUNDSPARK_BACKEND_URL"`
	// TimeoutSeconds of 0 leaves request timing to the backend.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"FUNDSPARK_BACKEND_TIMEOUT_SECONDS"`
}

// SessionConfig represents the identity cookie
type SessionConfig struct {
	CookieName string `yaml:"cookie_name" env:"FUNDSPARK_SESSION_COOKIE"`
	Secret     string `yaml:"secret" env:"FUNDSPARK_SESSION_SECRET"`
	MaxAgeDays int    `yaml:"max_age_days" env:"FUNDSPARK_SESSION_MAX_AGE_DAYS"`
}

// HomeConfig drives the donation counter on the home view
type HomeConfig struct {
	CounterTarget     int64 `yaml:"counter_target" env:"FUNDSPARK_COUNTER_TARGET"`
	CounterSteps      int   `yaml:"counter_steps" env:"FUNDSPARK_COUNTER_STEPS"`
	CounterIntervalMS int   `yaml:"counter_interval_ms" env:"FUNDSPARK_COUNTER_INTERVAL_MS"`
}

// DevAPIConfig represents the development backend
type DevAPIConfig struct {
	Host    string `yaml:"host" env:"FUNDSPARK_API_HOST"`
	Port    int    `yaml:"port" env:"FUNDSPARK_API_PORT"`
	Store   string `yaml:"store" env:"FUNDSPARK_API_STORE"`
	DataDir string `yaml:"data_dir" env:"FUNDSPARK_API_DATA_DIR"`
}

// TUIConfig represents the terminal front end
type TUIConfig struct {
	IdentityFile string `yaml:"identity_file" env:"FUNDSPARK_TUI_IDENTITY_FILE"`
	LogFile      string `yaml:"log_file" env:"FUNDSPARK_TUI_LOG"`
}

// DefaultSessionSecret signs identity cookies in development only.
const DefaultSessionSecret = "fundspark-session-secret-change-me"

// Store kinds accepted by DevAPIConfig.Store.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		AppEnv:   "development",
		LogLevel: "",
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			StaticDir: "static",
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:5000",
		},
		Session: SessionConfig{
			CookieName: "userName",
			Secret:     DefaultSessionSecret,
			MaxAgeDays: 365,
		},
		Home: HomeConfig{
			CounterTarget:     2340000,
			CounterSteps:      150,
			CounterIntervalMS: 20,
		},
		DevAPI: DevAPIConfig{
			Host:    "0.0.0.0",
			Port:    5000,
			Store:   StoreJSON,
			DataDir: "./data",
		},
	}
}

// Load loads configuration from a YAML file, then applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("backend.base_url is required")
	}
	if c.Backend.TimeoutSeconds < 0 {
		return errors.New("backend.timeout_seconds must not be negative")
	}
	if c.Session.CookieName == "" {
		return errors.New("session.cookie_name is required")
	}
	if c.Session.Secret == "" {
		return errors.New("session.secret is required")
	}
	if c.AppEnv != "development" && c.Session.Secret == DefaultSessionSecret {
		return errors.New("session.secret must be changed outside development")
	}
	if c.Home.CounterTarget <= 0 || c.Home.CounterSteps <= 0 || c.Home.CounterIntervalMS <= 0 {
		return errors.New("home counter settings must be positive")
	}
	switch c.DevAPI.Store {
	case StoreJSON, StoreSQLite:
	default:
		return fmt.Errorf("dev_api.store: unknown store %q", c.DevAPI.Store)
	}
	return nil
}

// Addr is the web front end listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DevAPIAddr is the development backend listen address.
func (c *Config) DevAPIAddr() string {
	return fmt.Sprintf("%s:%d", c.DevAPI.Host, c.DevAPI.Port)
}

// BackendTimeout converts the configured timeout; zero means none.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// CounterInterval is the tick of the home view counter.
func (c *Config) CounterInterval() time.Duration {
	return time.Duration(c.Home.CounterIntervalMS) * time.Millisecond
}

// SessionMaxAge is the identity cookie lifetime.
func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.Session.MaxAgeDays) * 24 * time.Hour
}

// Save saves configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
