package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestGeminiService_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-test:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("expected API key header, got %q", r.Header.Get("x-goog-api-key"))
		}

		var req geminiRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "prompt text" {
			t.Errorf("unexpected request body: %+v", req)
		}

		writeJSON(w, map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]string{
							{"text": "Seorang pria berlari "},
							{"text": "di bawah hujan."},
						},
					},
					"finishReason": "STOP",
				},
			},
			"usageMetadata": map[string]int{"promptTokenCount": 12, "candidatesTokenCount": 8},
		})
	}))
	defer server.Close()

	svc := NewGeminiService("test-key", server.URL, "gemini-test", time.Second)

	result, err := svc.Generate(context.Background(), "", "prompt text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "Seorang pria berlari di bawah hujan." {
		t.Errorf("unexpected text %q", result.Text)
	}
	if result.Model != "gemini-test" {
		t.Errorf("expected default model, got %q", result.Model)
	}
	if result.Metadata["prompt_tokens"] != "12" {
		t.Errorf("expected prompt tokens in metadata, got %v", result.Metadata)
	}
}

func TestGeminiService_Generate_CleansOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "<think>draft</think>Here is the English prompt: A man runs."}},
				}},
			},
		})
	}))
	defer server.Close()

	svc := NewGeminiService("test-key", server.URL, "m", time.Second)
	result, err := svc.Generate(context.Background(), "m", "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "A man runs." {
		t.Errorf("expected cleaned text, got %q", result.Text)
	}
}

func TestGeminiService_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	svc := NewGeminiService("bad-key", server.URL, "m", time.Second)
	result, err := svc.Generate(context.Background(), "", "p")
	if err == nil {
		t.Fatal("expected error for non-OK status")
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if !strings.Contains(result.Error, "API key not valid") {
		t.Errorf("expected API message in result error, got %q", result.Error)
	}
}

func TestGeminiService_Generate_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer server.Close()

	svc := NewGeminiService("test-key", server.URL, "m", time.Second)
	if _, err := svc.Generate(context.Background(), "", "p"); err == nil {
		t.Error("expected error for empty candidates")
	}
}

func TestGeminiService_Generate_NoAPIKey(t *testing.T) {
	svc := NewGeminiService("", "", "", 0)

	result, err := svc.Generate(context.Background(), "", "p")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
	if result == nil || result.Error == "" {
		t.Error("expected error message in result")
	}
}

func TestGeminiService_Defaults(t *testing.T) {
	svc := NewGeminiService("k", "", "", 0)
	if svc.Name() != "gemini" {
		t.Errorf("expected 'gemini', got %q", svc.Name())
	}
	if svc.DefaultModel() != DefaultGeminiModel {
		t.Errorf("expected default model, got %q", svc.DefaultModel())
	}
	if svc.baseURL != DefaultGeminiBaseURL {
		t.Errorf("expected default base URL, got %q", svc.baseURL)
	}
}

func TestOpenRouterService_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Title") != "VeoPrompt" {
			t.Errorf("expected attribution header, got %q", r.Header.Get("X-Title"))
		}

		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		if req["model"] != "test/model" {
			t.Errorf("expected model 'test/model', got %v", req["model"])
		}

		writeJSON(w, map[string]interface{}{
			"id":      "gen-1",
			"object":  "chat.completion",
			"model":   "test/model",
			"choices": []map[string]interface{}{{"index": 0, "message": map[string]string{"role": "assistant", "content": "A woman walks."}}},
			"usage":   map[string]int{"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8},
		})
	}))
	defer server.Close()

	svc := NewOpenRouterService("test-key", server.URL, "test/model", time.Second)

	result, err := svc.Generate(context.Background(), "", "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "A woman walks." {
		t.Errorf("unexpected text %q", result.Text)
	}
	if result.Metadata["completion_tokens"] != "3" {
		t.Errorf("expected usage in metadata, got %v", result.Metadata)
	}
}

func TestOpenRouterService_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","code":429}}`))
	}))
	defer server.Close()

	svc := NewOpenRouterService("test-key", server.URL, "m", time.Second)
	result, err := svc.Generate(context.Background(), "", "prompt")
	if err == nil {
		t.Error("expected error for non-OK status")
	}
	if result == nil || result.Error == "" {
		t.Error("expected error message in result")
	}
}

func TestOpenRouterService_Generate_NoAPIKey(t *testing.T) {
	svc := NewOpenRouterService("", "", "", 0)
	if _, err := svc.Generate(context.Background(), "", "p"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
	if err := svc.IsAvailable(context.Background()); err == nil {
		t.Error("expected IsAvailable to fail without key")
	}
}

func TestOllamaService_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		if req["stream"] != false {
			t.Errorf("expected stream=false, got %v", req["stream"])
		}
		if req["prompt"] != "prompt" {
			t.Errorf("expected prompt passed through, got %v", req["prompt"])
		}
		writeJSON(w, map[string]interface{}{
			"model":             "llama3.2",
			"response":          "Hujan turun.",
			"done":              true,
			"eval_count":        4,
			"prompt_eval_count": 9,
		})
	}))
	defer server.Close()

	svc, err := NewOllamaService(server.URL, "llama3.2", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Generate(context.Background(), "", "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "Hujan turun." {
		t.Errorf("expected 'Hujan turun.', got %q", result.Text)
	}
	if result.Metadata["model"] != "llama3.2" {
		t.Errorf("expected model in metadata, got %v", result.Metadata)
	}
}

func TestOllamaService_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	svc, _ := NewOllamaService(server.URL, "missing", time.Second)
	result, err := svc.Generate(context.Background(), "", "prompt")
	if err == nil {
		t.Error("expected error for non-OK status")
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
}

func TestOllamaService_IsAvailable_NotRunning(t *testing.T) {
	svc, _ := NewOllamaService("http://localhost:19999", "", 100*time.Millisecond)

	if err := svc.IsAvailable(context.Background()); err == nil {
		t.Error("expected error when Ollama not available")
	}
}

func TestOllamaService_IsAvailable_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"models": []interface{}{}})
	}))
	defer server.Close()

	svc, _ := NewOllamaService(server.URL, "", time.Second)
	if err := svc.IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_Backends(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		want    string
		wantErr error
	}{
		{name: "default is gemini", cfg: ServiceConfig{APIKey: "k"}, want: "gemini"},
		{name: "gemini without key", cfg: ServiceConfig{Backend: "gemini"}, wantErr: ErrMissingAPIKey},
		{name: "openrouter", cfg: ServiceConfig{Backend: "openrouter", APIKey: "k"}, want: "openrouter"},
		{name: "openrouter without key", cfg: ServiceConfig{Backend: "openrouter"}, wantErr: ErrMissingAPIKey},
		{name: "ollama needs no key", cfg: ServiceConfig{Backend: "Ollama"}, want: "ollama"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gen.Name() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, gen.Name())
			}
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	if _, err := New(ServiceConfig{Backend: "systran"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestGoogleTranslator_Name(t *testing.T) {
	if NewGoogleTranslator("").Name() != "google" {
		t.Error("expected 'google'")
	}
}
