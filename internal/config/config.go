// Package config resolves runtime settings from flags, VEOPROMPT_* environment
// variables, an optional veoprompt.yaml and a .env file, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/valpere/veoprompt/internal/generator"
	"github.com/valpere/veoprompt/internal/logger"
)

const EnvPrefix = "VEOPROMPT"

// ErrMissingAPIKey is returned by Validate when the selected backend needs a
// key and none was found.
var ErrMissingAPIKey = generator.ErrMissingAPIKey

// Translators accepted by the translator setting.
var Translators = []string{"llm", "google"}

type Config struct {
	Backend string        `mapstructure:"backend"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`

	Translator  string `mapstructure:"translator"`
	Credentials string `mapstructure:"credentials"`

	Plain          bool `mapstructure:"plain"`
	SkipValidation bool `mapstructure:"skip_validation"`

	DBPath    string `mapstructure:"db_path"`
	NoHistory bool   `mapstructure:"no_history"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`

	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", "gemini")
	v.SetDefault("model", "")
	v.SetDefault("base_url", "")
	v.SetDefault("api_key", "")
	v.SetDefault("timeout", 120*time.Second)
	v.SetDefault("translator", "llm")
	v.SetDefault("credentials", "")
	v.SetDefault("plain", false)
	v.SetDefault("skip_validation", false)
	v.SetDefault("db_path", "veoprompt.db")
	v.SetDefault("no_history", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_file", "")
	v.SetDefault("listen", ":8080")
	v.SetDefault("cors_origins", []string{"*"})
}

// New returns a viper instance with defaults, environment binding and the
// config file applied. An explicit configFile must exist; otherwise
// veoprompt.yaml is looked up in the working directory and
// $HOME/.config/veoprompt and may be absent.
func New(configFile string) (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("veoprompt")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/veoprompt")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// Load decodes v and fills the API key from the backend's conventional
// environment variable when none was set explicitly.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Translator = strings.ToLower(strings.TrimSpace(cfg.Translator))
	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv(cfg.Backend)
	}

	return &cfg, nil
}

func apiKeyFromEnv(backend string) string {
	var names []string
	switch backend {
	case "", "gemini":
		names = []string{"GEMINI_API_KEY", "API_KEY"}
	case "openrouter":
		names = []string{"OPENROUTER_API_KEY"}
	}
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// NeedsAPIKey reports whether the backend authenticates with an API key.
func NeedsAPIKey(backend string) bool {
	return backend != "ollama"
}

// Validate checks the settings that would otherwise fail on first request.
func (c *Config) Validate() error {
	if !slices.Contains(generator.Backends, c.Backend) {
		return fmt.Errorf("unknown backend: %s (available: %s)", c.Backend, strings.Join(generator.Backends, ", "))
	}
	if NeedsAPIKey(c.Backend) && c.APIKey == "" {
		return fmt.Errorf("%s: %w", c.Backend, ErrMissingAPIKey)
	}
	if !slices.Contains(Translators, c.Translator) {
		return fmt.Errorf("unknown translator: %s (available: %s)", c.Translator, strings.Join(Translators, ", "))
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

func (c *Config) ServiceConfig() generator.ServiceConfig {
	return generator.ServiceConfig{
		Backend:     c.Backend,
		APIKey:      c.APIKey,
		Model:       c.Model,
		BaseURL:     c.BaseURL,
		Timeout:     c.Timeout,
		Credentials: c.Credentials,
	}
}

func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.LogLevel,
		Encoding:   c.LogFormat,
		OutputPath: c.LogFile,
	}
}
