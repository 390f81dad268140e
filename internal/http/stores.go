package http

import (
	"context"
	"time"

	"github.com/mrlokans/llm-aggregator/internal/providers"
)

// Dispatcher routes a prompt to a named provider.
type Dispatcher interface {
	Dispatch(ctx context.Context, provider, prompt string) (*providers.Result, error)
	Names() []string
}

// DatabasePinger checks database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// CleanupStatus reports the expired-session purge schedule.
type CleanupStatus interface {
	IsRunning() bool
	NextRun() *time.Time
}
