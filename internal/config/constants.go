package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default sqlite file for identities and sessions
	DefaultDatabasePath = "./llm-aggregator.db"
)

// Default provider endpoints
const (
	DefaultGeminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	DefaultMistralBaseURL = "https://api.mistral.ai/v1"
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1"
)
