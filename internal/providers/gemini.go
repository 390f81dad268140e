package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/mrlokans/llm-aggregator/internal/config"
)

const geminiRequestTemplate = `{"contents":[{"parts":[{"text":""}]}]}`

// GeminiAdapter calls the Google Generative Language generateContent API.
// API docs: https://ai.google.dev/api/generate-content
type GeminiAdapter struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// NewGeminiAdapter creates an adapter from provider settings.
func NewGeminiAdapter(cfg config.Provider, httpClient *http.Client) *GeminiAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultGeminiBaseURL
	}
	return &GeminiAdapter{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
	}
}

func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Envelope joins every part of the first candidate.
func (a *GeminiAdapter) Envelope() Envelope {
	return Envelope{
		TextPath:  "candidates.0.content.parts.#.text",
		ErrorPath: "error.message",
	}
}

func (a *GeminiAdapter) Generate(ctx context.Context, prompt string) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(geminiRequestTemplate), "contents.0.parts.0.text", prompt)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", a.baseURL, url.PathEscape(a.model))
	return postJSON(ctx, a.httpClient, endpoint, map[string]string{
		"x-goog-api-key": a.apiKey,
	}, body)
}
