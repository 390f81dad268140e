package providers

import (
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/llm-aggregator/internal/config"
)

// FromConfig builds a dispatcher over every provider that has an API key.
// All adapters share one HTTP client.
func FromConfig(cfg config.Providers) (*Dispatcher, error) {
	client := newHTTPClient(cfg.Timeout)

	var adapters []Adapter
	if cfg.Gemini.Enabled() {
		adapters = append(adapters, NewGeminiAdapter(cfg.Gemini, client))
	}
	if cfg.Mistral.Enabled() {
		adapters = append(adapters, NewMistralAdapter(cfg.Mistral, client))
	}
	if cfg.OpenAI.Enabled() {
		adapters = append(adapters, NewOpenAIAdapter(cfg.OpenAI, client))
	}

	d, err := NewDispatcher(adapters...)
	if err != nil {
		return nil, err
	}

	if len(d.Names()) == 0 {
		log.Warn("No provider API keys configured; generation requests will be rejected")
	} else {
		log.Infof("Configured providers: %v", d.Names())
	}
	return d, nil
}
