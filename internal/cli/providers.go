package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mrlokans/llm-aggregator/internal/config"
	"github.com/mrlokans/llm-aggregator/internal/providers"
)

// ProvidersCommand prints which providers the current environment enables.
type ProvidersCommand struct {
	JSON bool

	out io.Writer
}

type providerStatus struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url"`
}

func NewProvidersCommand() *ProvidersCommand {
	return &ProvidersCommand{out: os.Stdout}
}

func (cmd *ProvidersCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("providers", flag.ContinueOnError)

	fs.BoolVar(&cmd.JSON, "json", false, "Print the provider list as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s providers [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List the text-generation providers enabled by the environment.\n")
		fmt.Fprintf(os.Stderr, "A provider is enabled when its API key variable is set.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ProvidersCommand) Run(cfg *config.Config) error {
	dispatcher, err := providers.FromConfig(cfg.Providers)
	if err != nil {
		return fmt.Errorf("failed to configure providers: %w", err)
	}

	enabled := make(map[string]bool)
	for _, name := range dispatcher.Names() {
		enabled[name] = true
	}

	statuses := []providerStatus{
		{Name: "gemini", Model: cfg.Providers.Gemini.Model, BaseURL: cfg.Providers.Gemini.BaseURL},
		{Name: "mistral", Model: cfg.Providers.Mistral.Model, BaseURL: cfg.Providers.Mistral.BaseURL},
		{Name: "openai", Model: cfg.Providers.OpenAI.Model, BaseURL: cfg.Providers.OpenAI.BaseURL},
	}
	for i := range statuses {
		statuses[i].Enabled = enabled[statuses[i].Name]
	}

	if cmd.JSON {
		enc := json.NewEncoder(cmd.out)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	w := tabwriter.NewWriter(cmd.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tENABLED\tMODEL\tBASE URL")
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%t\t%s\t%s\n", s.Name, s.Enabled, s.Model, s.BaseURL)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(enabled) == 0 {
		fmt.Fprintln(cmd.out, "\nNo providers enabled. Set GOOGLE_API_KEY, MISTRAL_API_KEY or OPENAI_API_KEY.")
	}
	return nil
}
