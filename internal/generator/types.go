package generator

import (
	"context"
	"errors"
	"time"
)

// ErrMissingAPIKey is returned when a backend that needs credentials is
// configured without them.
var ErrMissingAPIKey = errors.New("API key required")

type ServiceConfig struct {
	Backend     string        `mapstructure:"backend" json:"backend"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	Model       string        `mapstructure:"model" json:"model"`
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	Credentials string        `mapstructure:"credentials" json:"credentials"`
}

type Result struct {
	ServiceName string            `json:"service_name"`
	Text        string            `json:"text"`
	Model       string            `json:"model"`
	Metadata    map[string]string `json:"metadata"`
	Latency     time.Duration     `json:"latency"`
	Error       string            `json:"error,omitempty"`
}

// Generator sends a single text payload to a model and returns its answer.
// Implementations clean the answer with postprocess.Clean before returning.
type Generator interface {
	Name() string
	DefaultModel() string
	Generate(ctx context.Context, model, prompt string) (*Result, error)
	IsAvailable(ctx context.Context) error
}

// Translator turns a generated Indonesian paragraph into English, keeping
// dialogue unchanged and appending the translated negative prompt.
type Translator interface {
	Name() string
	Translate(ctx context.Context, primary, dialogue, negative string) (string, error)
}
