package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds chat backend connection configuration
type ServerConfig struct {
	URL        string        `mapstructure:"url"`
	Timeout    time.Duration `mapstructure:"-"`
	TimeoutStr string        `mapstructure:"timeout"` // Parsed into Timeout
}

// ChatConfig holds chat session configuration
type ChatConfig struct {
	DefaultModel string `mapstructure:"default_model"`
}

// AuthConfig holds bearer credential configuration. The token itself is
// opaque to the client; how it was minted is the server's business.
type AuthConfig struct {
	Token    string `mapstructure:"token"`
	TokenEnv string `mapstructure:"token_env"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// BearerToken resolves the configured credential, preferring an explicit
// token over an environment lookup. Empty means anonymous.
func (a AuthConfig) BearerToken() string {
	if a.Token != "" {
		return a.Token
	}
	if a.TokenEnv != "" {
		return os.Getenv(a.TokenEnv)
	}
	return ""
}

var cfg *Config

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Load loads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}

		viper.AddConfigPath("./.loom") // Check project directory first
		viper.AddConfigPath(filepath.Join(xdgConfigHome, "loom"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.SetEnvPrefix("LOOM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Missing config file is fine; defaults and env cover everything
	_ = viper.ReadInConfig()

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := processDurations(cfg); err != nil {
		return nil, fmt.Errorf("failed to process durations: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.url", "http://localhost:8080/api")
	viper.SetDefault("server.timeout", "30s")
	viper.SetDefault("chat.default_model", "gpt-4o")
	viper.SetDefault("auth.token", "")
	viper.SetDefault("auth.token_env", "LOOM_AUTH_TOKEN")
	viper.SetDefault("logging.log_file", "loom.log")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.preserve", false)
}

// processDurations parses string durations (viper doesn't handle
// time.Duration directly)
func processDurations(c *Config) error {
	if c.Server.TimeoutStr == "" {
		c.Server.Timeout = 30 * time.Second
		return nil
	}

	d, err := time.ParseDuration(c.Server.TimeoutStr)
	if err != nil {
		return fmt.Errorf("invalid server.timeout %q: %w", c.Server.TimeoutStr, err)
	}
	c.Server.Timeout = d
	return nil
}

// BuildSettingsPath resolves a filename inside the settings directory,
// creating nothing. Relative log files and similar artifacts land here.
func BuildSettingsPath(filename string) string {
	return filepath.Join(".loom", filename)
}
