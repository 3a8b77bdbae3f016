package generator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/valpere/veoprompt/internal/postprocess"
)

const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "gemma3:12b"
)

type OllamaService struct {
	baseURL string
	model   string
	client  *api.Client
}

func NewOllamaService(baseURL, model string, timeout time.Duration) (*OllamaService, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &OllamaService{
		baseURL: baseURL,
		model:   model,
		client:  api.NewClient(base, &http.Client{Timeout: timeout}),
	}, nil
}

func (s *OllamaService) Name() string {
	return "ollama"
}

func (s *OllamaService) DefaultModel() string {
	return s.model
}

func (s *OllamaService) Generate(ctx context.Context, model, prompt string) (*Result, error) {
	result := &Result{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if model == "" {
		model = s.model
	}
	result.Model = model

	stream := false
	req := &api.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: &stream,
	}

	var sb strings.Builder
	var evalCount, promptEvalCount int
	err := s.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		if resp.Done {
			evalCount = resp.EvalCount
			promptEvalCount = resp.PromptEvalCount
		}
		return nil
	})
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}

	text := postprocess.Clean(sb.String())
	if text == "" {
		result.Error = "empty response from model"
		return result, fmt.Errorf("empty response from model")
	}

	result.Text = text
	result.Metadata = map[string]string{
		"model":             model,
		"prompt_tokens":     fmt.Sprintf("%d", promptEvalCount),
		"completion_tokens": fmt.Sprintf("%d", evalCount),
	}

	return result, nil
}

func (s *OllamaService) IsAvailable(ctx context.Context) error {
	if _, err := s.client.List(ctx); err != nil {
		return fmt.Errorf("Ollama not available: %w", err)
	}
	return nil
}
