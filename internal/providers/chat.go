package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/mrlokans/llm-aggregator/internal/config"
)

const chatRequestTemplate = `{"model":"","messages":[{"role":"user","content":""}]}`

// ChatCompletionsAdapter calls an OpenAI-style chat/completions endpoint.
// Mistral and OpenAI share the request shape and differ in where they put
// error messages.
type ChatCompletionsAdapter struct {
	name       string
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	errorPath  string
}

// NewMistralAdapter creates an adapter for the Mistral API.
// API docs: https://docs.mistral.ai/api/#tag/chat
func NewMistralAdapter(cfg config.Provider, httpClient *http.Client) *ChatCompletionsAdapter {
	return newChatAdapter("mistral", cfg, config.DefaultMistralBaseURL, "message", httpClient)
}

// NewOpenAIAdapter creates an adapter for OpenAI or any compatible server.
func NewOpenAIAdapter(cfg config.Provider, httpClient *http.Client) *ChatCompletionsAdapter {
	return newChatAdapter("openai", cfg, config.DefaultOpenAIBaseURL, "error.message", httpClient)
}

func newChatAdapter(name string, cfg config.Provider, defaultBaseURL, errorPath string, httpClient *http.Client) *ChatCompletionsAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &ChatCompletionsAdapter{
		name:       name,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		errorPath:  errorPath,
	}
}

func (a *ChatCompletionsAdapter) Name() string {
	return a.name
}

func (a *ChatCompletionsAdapter) Envelope() Envelope {
	return Envelope{
		TextPath:  "choices.0.message.content",
		ErrorPath: a.errorPath,
	}
}

func (a *ChatCompletionsAdapter) Generate(ctx context.Context, prompt string) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(chatRequestTemplate), "model", a.model)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	body, err = sjson.SetBytes(body, "messages.0.content", prompt)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	return postJSON(ctx, a.httpClient, a.baseURL+"/chat/completions", map[string]string{
		"Authorization": "Bearer " + a.apiKey,
	}, body)
}
