package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/llm-aggregator/internal/auth"
	"github.com/mrlokans/llm-aggregator/internal/database"
	"github.com/mrlokans/llm-aggregator/internal/database/identities"
	"github.com/mrlokans/llm-aggregator/internal/http"
	"github.com/mrlokans/llm-aggregator/internal/providers"
	"github.com/mrlokans/llm-aggregator/internal/scheduler"
	"github.com/mrlokans/llm-aggregator/internal/sessionstore"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Credential store implementations
var _ auth.IdentityStore = (*identities.Repository)(nil)
var _ auth.IdentityFinder = (*identities.Repository)(nil)

// Health check
var _ http.DatabasePinger = (*database.Database)(nil)

// =============================================================================
// Providers
// =============================================================================

// Adapter implementations
var _ providers.Adapter = (*providers.GeminiAdapter)(nil)
var _ providers.Adapter = (*providers.ChatCompletionsAdapter)(nil)

// Dispatcher used by the generate controller
var _ http.Dispatcher = (*providers.Dispatcher)(nil)

// =============================================================================
// Background Jobs
// =============================================================================

// Purger implementations
var _ scheduler.Purger = (*sessionstore.Store)(nil)

// Purge schedule reported by the health check
var _ http.CleanupStatus = (*scheduler.SessionCleanupScheduler)(nil)
