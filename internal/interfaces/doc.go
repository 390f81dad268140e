// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - IdentityStore: create and look up identities (internal/auth/service.go)
//   - IdentityFinder: restore an identity from a session (internal/auth/sessions.go)
//   - DatabasePinger: health check connectivity (internal/http/stores.go)
//
// ## Provider Interfaces
//
//   - Adapter: one upstream text-generation API (internal/providers/dispatcher.go)
//   - Dispatcher: routes a prompt to a named adapter (internal/http/stores.go)
//
// ## Background Job Interfaces
//
//   - Purger: removes expired sessions (internal/scheduler/session_cleanup.go)
//   - CleanupStatus: purge schedule shown by /health (internal/http/stores.go)
//
// # Adding a New Provider
//
// Implement Adapter in internal/providers/:
//
//	type AnthropicAdapter struct {
//		apiKey string
//		client *http.Client
//	}
//
//	func (a *AnthropicAdapter) Name() string { return "anthropic" }
//	func (a *AnthropicAdapter) Envelope() Envelope {
//		return Envelope{TextPath: "content.0.text", ErrorPath: "error.message"}
//	}
//	func (a *AnthropicAdapter) Generate(ctx context.Context, prompt string) ([]byte, error)
//
// Then register it in FromConfig (internal/providers/registry.go) behind its
// API key and add a compile-time check to checks.go.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
