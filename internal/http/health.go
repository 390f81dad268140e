package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	// WelcomeMessage is served at the root path.
	WelcomeMessage = "Welcome to the LLM Aggregator API"

	healthPingTimeout = 2 * time.Second
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Time      string            `json:"time"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks"`
	Providers []string          `json:"providers"`

	NextSessionCleanup string `json:"next_session_cleanup,omitempty"`
}

type HealthController struct {
	db         DatabasePinger
	dispatcher Dispatcher
	cleanup    CleanupStatus
	version    string
}

func NewHealthController(db DatabasePinger, dispatcher Dispatcher, cleanup CleanupStatus, version string) *HealthController {
	return &HealthController{
		db:         db,
		dispatcher: dispatcher,
		cleanup:    cleanup,
		version:    version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			log.WithError(err).Warn("Health check: database ping failed")
			checks["database"] = "error"
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	configured := []string{}
	if h.dispatcher != nil {
		if names := h.dispatcher.Names(); len(names) > 0 {
			configured = names
		}
	}
	if len(configured) == 0 {
		checks["providers"] = "none configured"
	} else {
		checks["providers"] = "ok"
	}

	health := HealthResponse{
		Status:    status,
		Time:      time.Now().Format(time.RFC3339),
		Version:   h.version,
		Checks:    checks,
		Providers: configured,
	}

	// A stopped purge does not make the service unhealthy.
	if h.cleanup != nil {
		if h.cleanup.IsRunning() {
			checks["session_cleanup"] = "ok"
			if next := h.cleanup.NextRun(); next != nil {
				health.NextSessionCleanup = next.Format(time.RFC3339)
			}
		} else {
			checks["session_cleanup"] = "stopped"
		}
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

// Welcome answers GET / with a plain-text greeting.
func Welcome(c *gin.Context) {
	c.String(http.StatusOK, WelcomeMessage)
}
