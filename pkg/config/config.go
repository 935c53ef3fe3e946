// File: pkg/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// DefaultBaseURL is where hosted onboarding pages live when the host does not
// point the SDK somewhere else.
const DefaultBaseURL = "https://pages.onboardkit.dev"

// Config holds the entire SDK configuration. It is constructed explicitly by
// the host (or from a config file via NewConfigFromViper) and passed by
// reference; there is no process-wide configuration singleton.
type Config struct {
	Onboarding OnboardingConfig `mapstructure:"onboarding" yaml:"onboarding"`
	Browser    BrowserConfig    `mapstructure:"browser" yaml:"browser"`
	Network    NetworkConfig    `mapstructure:"network" yaml:"network"`
	Store      StoreConfig      `mapstructure:"store" yaml:"store"`
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
}

// OnboardingConfig identifies the hosted flow and its launch behavior.
type OnboardingConfig struct {
	// Identifier is the opaque flow identifier appended to BaseURL. It is
	// accepted as-is; no format validation is performed.
	Identifier string `mapstructure:"identifier" yaml:"identifier"`
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	// AutoShow presents the flow on Start when it has not been completed yet.
	AutoShow bool `mapstructure:"auto_show" yaml:"auto_show"`
	// Persist keeps the completion flag and collected data on disk.
	Persist bool `mapstructure:"persist" yaml:"persist"`
}

// BrowserConfig holds settings for the embedded browser window.
type BrowserConfig struct {
	Headless     bool     `mapstructure:"headless" yaml:"headless"`
	Kiosk        bool     `mapstructure:"kiosk" yaml:"kiosk"`
	WindowWidth  int      `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight int      `mapstructure:"window_height" yaml:"window_height"`
	Args         []string `mapstructure:"args" yaml:"args"`
}

// NetworkConfig tunes the single page load the SDK performs. Everything the
// loaded page does afterwards is opaque to us.
type NetworkConfig struct {
	LoadTimeout  time.Duration `mapstructure:"load_timeout" yaml:"load_timeout"`
	PostLoadWait time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// StoreConfig locates the local key-value store.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Onboarding --
	v.SetDefault("onboarding.base_url", DefaultBaseURL)
	v.SetDefault("onboarding.auto_show", true)
	v.SetDefault("onboarding.persist", true)

	// -- Browser --
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.kiosk", false)
	v.SetDefault("browser.window_width", 1024)
	v.SetDefault("browser.window_height", 768)

	// -- Network --
	v.SetDefault("network.load_timeout", "30s")
	v.SetDefault("network.post_load_wait", "500ms")

	// -- Store --
	v.SetDefault("store.path", "~/.onboardkit/state.db")

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "onboardkit")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values. An empty identifier is
// deliberately allowed here: presentation short-circuits on it at call time
// instead of failing startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Onboarding.BaseURL) == "" {
		return fmt.Errorf("onboarding.base_url must not be empty")
	}
	if c.Network.LoadTimeout <= 0 {
		return fmt.Errorf("network.load_timeout must be a positive duration")
	}
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return fmt.Errorf("browser.window_width and browser.window_height must be positive")
	}
	if c.Onboarding.Persist && strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required when onboarding.persist is enabled")
	}
	return nil
}

// StorePath returns the store location with a leading "~" expanded to the
// user's home directory.
func (c *Config) StorePath() (string, error) {
	path, err := homedir.Expand(c.Store.Path)
	if err != nil {
		return "", fmt.Errorf("failed to expand store path %q: %w", c.Store.Path, err)
	}
	return path, nil
}
