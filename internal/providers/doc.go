// Package providers proxies prompts to external text-generation APIs.
//
// Each backend is an Adapter that knows how to send a prompt and where its
// response keeps the text (Envelope). The Dispatcher picks the adapter by
// name and turns the raw body into a Result, so callers never see a
// provider-specific schema.
//
// Configured through the environment; a provider is enabled by its key:
//
//	GOOGLE_API_KEY / GEMINI_MODEL / GEMINI_BASE_URL
//	MISTRAL_API_KEY / MISTRAL_MODEL / MISTRAL_BASE_URL
//	OPENAI_API_KEY / OPENAI_MODEL / OPENAI_BASE_URL
//	PROVIDER_TIMEOUT=0   # per-call client timeout, 0 disables it
package providers
