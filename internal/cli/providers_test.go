package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/llm-aggregator/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Providers: config.Providers{
			Gemini:  config.Provider{APIKey: "g", Model: "gemini-1.5-flash", BaseURL: config.DefaultGeminiBaseURL},
			Mistral: config.Provider{Model: "mistral-small-latest", BaseURL: config.DefaultMistralBaseURL},
			OpenAI:  config.Provider{Model: "gpt-4o-mini", BaseURL: config.DefaultOpenAIBaseURL},
		},
	}
}

func TestProvidersCommand_Table(t *testing.T) {
	var out bytes.Buffer
	cmd := &ProvidersCommand{out: &out}
	require.NoError(t, cmd.ParseFlags(nil))

	require.NoError(t, cmd.Run(testConfig()))

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Contains(t, string(lines[1]), "gemini")
	assert.Contains(t, string(lines[1]), "true")
	assert.Contains(t, string(lines[2]), "false")
	assert.NotContains(t, out.String(), "No providers enabled")
}

func TestProvidersCommand_JSON(t *testing.T) {
	var out bytes.Buffer
	cmd := &ProvidersCommand{out: &out}
	require.NoError(t, cmd.ParseFlags([]string{"-json"}))

	require.NoError(t, cmd.Run(testConfig()))

	var statuses []providerStatus
	require.NoError(t, json.Unmarshal(out.Bytes(), &statuses))
	require.Len(t, statuses, 3)
	assert.True(t, statuses[0].Enabled)
	assert.False(t, statuses[1].Enabled)
	assert.False(t, statuses[2].Enabled)
	assert.NotContains(t, out.String(), `"g"`, "API keys are never printed")
}

func TestProvidersCommand_NoneEnabled(t *testing.T) {
	var out bytes.Buffer
	cmd := &ProvidersCommand{out: &out}

	require.NoError(t, cmd.Run(&config.Config{}))
	assert.Contains(t, out.String(), "No providers enabled")
}

func TestProvidersCommand_UnknownFlag(t *testing.T) {
	cmd := NewProvidersCommand()
	assert.Error(t, cmd.ParseFlags([]string{"-verbose"}))
}
