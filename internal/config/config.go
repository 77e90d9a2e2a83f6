// Package config loads settings for the server and the CLI: defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/receiptsplit/internal/gateway"
	"github.com/mmynk/receiptsplit/pkg/logging"
)

// Config defines the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Gateway GatewayConfig `yaml:"gateway"`
	CLI     CLIConfig     `yaml:"cli"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	StaticDir     string `yaml:"static_dir"`
	AllowedOrigin string `yaml:"allowed_origin"`
}

type GatewayConfig struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	Timeout        time.Duration `yaml:"timeout"`
	MinImageLength int           `yaml:"min_image_length"`
}

type CLIConfig struct {
	DBPath string `yaml:"db_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	gw := gateway.DefaultConfig()
	return Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			StaticDir: "./web",
		},
		Gateway: GatewayConfig{
			BaseURL:        gw.BaseURL,
			Model:          gw.Model,
			Timeout:        gw.Timeout,
			MinImageLength: gw.MinImageLength,
		},
		CLI: CLIConfig{
			DBPath: "./data/session.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file named by
// RECEIPTSPLIT_CONFIG_PATH and from environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("RECEIPTSPLIT_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("RECEIPTSPLIT_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("RECEIPTSPLIT_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RECEIPTSPLIT_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dir := os.Getenv("RECEIPTSPLIT_STATIC_DIR"); dir != "" {
		cfg.Server.StaticDir = dir
	}
	if origin := os.Getenv("RECEIPTSPLIT_ALLOWED_ORIGIN"); origin != "" {
		cfg.Server.AllowedOrigin = origin
	}

	if key := os.Getenv("TOGETHER_API_KEY"); key != "" {
		cfg.Gateway.APIKey = key
	}
	if base := os.Getenv("RECEIPTSPLIT_GATEWAY_BASE_URL"); base != "" {
		cfg.Gateway.BaseURL = base
	}
	if model := os.Getenv("RECEIPTSPLIT_GATEWAY_MODEL"); model != "" {
		cfg.Gateway.Model = model
	}
	if timeoutStr := os.Getenv("RECEIPTSPLIT_GATEWAY_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RECEIPTSPLIT_GATEWAY_TIMEOUT: %w", err)
		}
		cfg.Gateway.Timeout = timeout
	}

	if dbPath := os.Getenv("RECEIPTSPLIT_DB_PATH"); dbPath != "" {
		cfg.CLI.DBPath = dbPath
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Server.Port))
	}

	if u, err := url.Parse(c.Gateway.BaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid gateway base URL '%s': %v", c.Gateway.BaseURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid gateway base URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}
	if c.Gateway.Model == "" {
		problems = append(problems, "gateway model cannot be empty")
	}
	if c.Gateway.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid gateway timeout %v: must be positive", c.Gateway.Timeout))
	}
	if c.Gateway.MinImageLength < 0 {
		problems = append(problems, fmt.Sprintf("invalid minimum image length %d: must not be negative", c.Gateway.MinImageLength))
	}

	if c.CLI.DBPath == "" {
		problems = append(problems, "CLI database path cannot be empty")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// GatewayConfig returns the settings for gateway.New.
func (c Config) GatewayConfig() gateway.Config {
	gw := gateway.DefaultConfig()
	gw.APIKey = c.Gateway.APIKey
	gw.BaseURL = strings.TrimRight(c.Gateway.BaseURL, "/")
	gw.Model = c.Gateway.Model
	gw.Timeout = c.Gateway.Timeout
	gw.MinImageLength = c.Gateway.MinImageLength
	return gw
}

// Addr returns the host:port the server listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
