package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env     string  `mapstructure:"env"` // local, dev, production
	Log     Log     `mapstructure:"log"`
	Server  Server  `mapstructure:"server"`
	Catalog Catalog `mapstructure:"catalog"`
	Answer  Answer  `mapstructure:"answer"`
	History History `mapstructure:"history"`
}

// Log configures the zerolog output.
type Log struct {
	Level string `mapstructure:"level"` // debug|info|warn|error
}

// Server contains HTTP listener settings.
type Server struct {
	Port         string        `mapstructure:"port"`
	ClientOrigin string        `mapstructure:"client_origin"` // CORS origin allowed to send credentials
	CookieName   string        `mapstructure:"cookie_name"`   // anonymous session cookie
	SessionTTL   time.Duration `mapstructure:"session_ttl"`   // idle sessions are evicted after this
}

// Catalog points at the sentence catalog and the daily pick salt.
type Catalog struct {
	File      string `mapstructure:"file"` // empty means the embedded catalog
	DailySalt string `mapstructure:"daily_salt"`
}

// Answer tunes answer matching.
type Answer struct {
	CollapseWhitespace bool `mapstructure:"collapse_whitespace"`
}

// History controls how many custom sentences the page lists.
type History struct {
	Display int `mapstructure:"display"`
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Server.Port, ":")
}

// Production reports whether the app runs with production settings.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("server.port", "5175")
	v.SetDefault("server.client_origin", "http://localhost:5175")
	v.SetDefault("server.cookie_name", "scrambler_session")
	v.SetDefault("server.session_ttl", "24h")
	v.SetDefault("catalog.file", "")
	v.SetDefault("catalog.daily_salt", "local_dev_salt")
	v.SetDefault("answer.collapse_whitespace", false)
	v.SetDefault("history.display", 5)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Flat names kept for parity with the .env files teachers already use.
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.client_origin", "CLIENT_ORIGIN")
	_ = v.BindEnv("server.cookie_name", "COOKIE_NAME")
	_ = v.BindEnv("server.session_ttl", "SESSION_TTL")
	_ = v.BindEnv("catalog.file", "SENTENCES_FILE")
	_ = v.BindEnv("catalog.daily_salt", "DAILY_SALT")
	_ = v.BindEnv("answer.collapse_whitespace", "ANSWER_COLLAPSE_WHITESPACE")
	_ = v.BindEnv("history.display", "HISTORY_DISPLAY")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if cfg.History.Display < 0 {
		cfg.History.Display = 0
	}
	return &cfg, nil
}
