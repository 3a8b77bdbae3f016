package generator

import (
	"fmt"
	"strings"
)

// Backends lists the generation backends New accepts.
var Backends = []string{"gemini", "openrouter", "ollama"}

// New builds the generator named by cfg.Backend. Backends that need an API
// key fail here, before any request is made.
func New(cfg ServiceConfig) (Generator, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
		}
		return NewGeminiService(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "openrouter":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openrouter: %w", ErrMissingAPIKey)
		}
		return NewOpenRouterService(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "ollama":
		svc, err := NewOllamaService(cfg.BaseURL, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s (available: %s)", cfg.Backend, strings.Join(Backends, ", "))
	}
}
