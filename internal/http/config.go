package http

import (
	"github.com/mrlokans/llm-aggregator/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database       DatabasePinger
	Dispatcher     Dispatcher
	SessionCleanup CleanupStatus // nil when the session store expires entries itself

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	FrontendURL    string // Login redirect target

	// Browser security
	AllowedOrigins []string // CORS allow-list, credentials enabled
	CSRFSecret     []byte   // CSRF protection is enabled when set
	SecureCookies  bool

	// Application info
	Version string
}
