package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

// Config is loaded from YAML and selectively overridden by environment
// variables, so deployments can keep secrets out of the file.
type Config struct {
	Port          string `yaml:"port"`
	DatabaseDSN   string `yaml:"databaseDSN"`
	SessionSecret string `yaml:"sessionSecret"`
	LogLevel      string `yaml:"logLevel"`

	TemplatesDir string `yaml:"templatesDir"`
	UploadDir    string `yaml:"uploadDir"`

	// Applied as the server's header read timeout; request bodies and
	// websocket traffic are not bounded by it.
	ReadTimeoutSeconds int `yaml:"readTimeoutSeconds"`

	// Per-user cap on socket messages: MessageLimit per MessageWindowSeconds.
	MessageLimit         int `yaml:"messageLimit"`
	MessageWindowSeconds int `yaml:"messageWindowSeconds"`

	// Per-address cap on group creation requests.
	CreateGroupLimit         int `yaml:"createGroupLimit"`
	CreateGroupWindowSeconds int `yaml:"createGroupWindowSeconds"`
}

// Load reads the YAML config at path (DefaultPath when empty), applies
// env overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MESSAGE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MessageLimit = n
		}
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Port:                     ":8080",
		LogLevel:                 "info",
		TemplatesDir:             "web/templates",
		UploadDir:                "web/static/uploads",
		ReadTimeoutSeconds:       15,
		MessageLimit:             10,
		MessageWindowSeconds:     60,
		CreateGroupLimit:         3,
		CreateGroupWindowSeconds: 60,
	}
}

func validate(cfg Config) error {
	if cfg.DatabaseDSN == "" {
		return errors.New("databaseDSN is required (or set DB_DSN)")
	}
	if cfg.SessionSecret == "" {
		return errors.New("sessionSecret is required (or set SESSION_SECRET)")
	}
	if cfg.MessageLimit <= 0 || cfg.MessageWindowSeconds <= 0 {
		return errors.New("message rate limit must be positive")
	}
	if cfg.CreateGroupLimit <= 0 || cfg.CreateGroupWindowSeconds <= 0 {
		return errors.New("group creation rate limit must be positive")
	}
	return nil
}
