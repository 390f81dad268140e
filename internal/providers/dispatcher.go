package providers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mrlokans/llm-aggregator/internal/logging"
)

// Envelope describes where a provider puts its output in the response body.
// Both fields are gjson paths. An array result at TextPath is joined.
type Envelope struct {
	TextPath  string
	ErrorPath string
}

// Adapter is one text-generation backend reachable by name.
type Adapter interface {
	Name() string
	Envelope() Envelope
	// Generate sends the prompt and returns the raw response body.
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Result is the normalized output of one generation call.
type Result struct {
	Provider string `json:"provider"`
	Text     string `json:"response"`
}

// Dispatcher routes prompts to adapters by provider name. The adapter set is
// fixed at construction.
type Dispatcher struct {
	adapters map[string]Adapter
	names    []string
}

// NewDispatcher registers adapters under their lowercased names.
func NewDispatcher(adapters ...Adapter) (*Dispatcher, error) {
	d := &Dispatcher{adapters: make(map[string]Adapter, len(adapters))}

	for _, a := range adapters {
		if a == nil {
			return nil, errors.New("nil adapter")
		}
		name := strings.ToLower(strings.TrimSpace(a.Name()))
		if name == "" {
			return nil, errors.New("adapter has an empty name")
		}
		if _, exists := d.adapters[name]; exists {
			return nil, fmt.Errorf("duplicate provider %q", name)
		}
		d.adapters[name] = a
		d.names = append(d.names, name)
	}

	sort.Strings(d.names)
	return d, nil
}

// Names returns the configured provider names in sorted order.
func (d *Dispatcher) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Dispatch sends prompt to the named provider and normalizes its response.
// The prompt is checked before the provider name. Faults from the provider
// come back as *ProviderError and are never retried.
func (d *Dispatcher) Dispatch(ctx context.Context, provider, prompt string) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrInvalidRequest
	}

	name := strings.ToLower(provider)
	adapter, ok := d.adapters[name]
	if !ok {
		return nil, &UnknownProviderError{Name: provider}
	}

	logger := logging.FromContext(ctx).WithField("provider", name)

	body, err := generate(ctx, adapter, prompt)
	if err != nil {
		logger.WithError(err).Warn("provider call failed")
		return nil, &ProviderError{Provider: name, Cause: err}
	}

	text, err := normalize(adapter.Envelope(), body)
	if err != nil {
		logger.WithError(err).Warn("provider returned an unusable response")
		return nil, &ProviderError{Provider: name, Cause: err}
	}

	logger.Debugf("provider answered with %d characters", len(text))
	return &Result{Provider: name, Text: text}, nil
}

// generate shields the process from a panicking adapter.
func generate(ctx context.Context, adapter Adapter, prompt string) (body []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("adapter panic: %v", r)
		}
	}()
	return adapter.Generate(ctx, prompt)
}

func normalize(env Envelope, body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", errors.New("response is not valid JSON")
	}

	if env.ErrorPath != "" {
		if e := gjson.GetBytes(body, env.ErrorPath); e.Exists() && e.String() != "" {
			return "", fmt.Errorf("provider reported error: %s", e.String())
		}
	}

	res := gjson.GetBytes(body, env.TextPath)
	var text string
	if res.IsArray() {
		parts := make([]string, 0, len(res.Array()))
		for _, p := range res.Array() {
			parts = append(parts, p.String())
		}
		text = strings.Join(parts, "")
	} else {
		text = res.String()
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text at %q", env.TextPath)
	}
	return text, nil
}
