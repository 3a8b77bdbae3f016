package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/valpere/veoprompt/internal/postprocess"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.5-flash"
)

type GeminiService struct {
	apiKey  string
	baseURL string
	model   string
	client  *resty.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func NewGeminiService(apiKey, baseURL, model string, timeout time.Duration) *GeminiService {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &GeminiService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  resty.New().SetTimeout(timeout),
	}
}

func (s *GeminiService) Name() string {
	return "gemini"
}

func (s *GeminiService) DefaultModel() string {
	return s.model
}

func (s *GeminiService) Generate(ctx context.Context, model, prompt string) (*Result, error) {
	result := &Result{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if s.apiKey == "" {
		result.Error = "Gemini API key required"
		return result, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}

	if model == "" {
		model = s.model
	}
	result.Model = model

	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}

	var resp geminiResponse
	var apiErr geminiError
	rr, err := s.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", s.apiKey).
		SetHeader("Content-Type", "application/json").
		ForceContentType("application/json").
		SetBody(body).
		SetResult(&resp).
		SetError(&apiErr).
		Post(fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, model))
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}

	if rr.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = rr.String()
		}
		result.Error = fmt.Sprintf("API returned status %d: %s", rr.StatusCode(), msg)
		return result, fmt.Errorf("gemini API returned status %d", rr.StatusCode())
	}

	if len(resp.Candidates) == 0 {
		result.Error = "empty response from API"
		return result, fmt.Errorf("empty response from API")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	text := postprocess.Clean(sb.String())
	if text == "" {
		result.Error = "empty response from API"
		return result, fmt.Errorf("empty response from API")
	}

	result.Text = text
	result.Metadata = map[string]string{
		"finish_reason":     resp.Candidates[0].FinishReason,
		"prompt_tokens":     fmt.Sprintf("%d", resp.UsageMetadata.PromptTokenCount),
		"completion_tokens": fmt.Sprintf("%d", resp.UsageMetadata.CandidatesTokenCount),
	}

	return result, nil
}

func (s *GeminiService) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}
	return nil
}
