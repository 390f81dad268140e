package entrypoint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/llm-aggregator/internal/auth"
	"github.com/mrlokans/llm-aggregator/internal/config"
	"github.com/mrlokans/llm-aggregator/internal/database"
	"github.com/mrlokans/llm-aggregator/internal/database/identities"
	http_controllers "github.com/mrlokans/llm-aggregator/internal/http"
	"github.com/mrlokans/llm-aggregator/internal/logging"
	"github.com/mrlokans/llm-aggregator/internal/providers"
	"github.com/mrlokans/llm-aggregator/internal/scheduler"
	"github.com/mrlokans/llm-aggregator/internal/sessionstore"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// within the configured timeout.
func Serve(ctx context.Context, router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("Starting server at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Infof("Shutdown Server, waiting %v before killing", timeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if onShutdown != nil {
			onShutdown(shutdownCtx)
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server exiting")
	return nil
}

// csrfKey turns SESSION_SECRET into the 32-byte key gorilla/csrf expects.
// A hex-encoded 32-byte secret is used as is; anything else is hashed.
// An empty secret yields a random key that does not survive restarts.
func csrfKey(secret string) ([]byte, bool, error) {
	if secret == "" {
		generated, err := auth.GenerateSessionSecret()
		if err != nil {
			return nil, false, err
		}
		key, err := hex.DecodeString(generated)
		return key, true, err
	}
	if key, err := hex.DecodeString(secret); err == nil && len(key) == 32 {
		return key, false, nil
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:], false, nil
}

func Run(cfg *config.Config, version string) {
	if err := logging.ConfigureLogOutput(cfg.Logging); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	defer logging.Close()

	log.Infof("Starting LLM Aggregator v%s", version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repo := identities.NewRepository(db.DB)
	if count, err := repo.Count(ctx); err == nil {
		log.Infof("Credential store has %d registered identities", count)
	}

	verifier, err := auth.NewPasswordVerifier(cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("Invalid AUTH_BCRYPT_COST: %v", err)
	}

	store, err := sessionstore.Open(ctx, cfg.Session, cfg.Redis, db)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	log.Infof("Session store: %s", store.Backend())

	sessionManager := auth.NewSessionManager(store.Sessions, repo, cfg.Session)

	dispatcher, err := providers.FromConfig(cfg.Providers)
	if err != nil {
		log.Fatalf("Failed to configure providers: %v", err)
	}

	var csrfSecret []byte
	if cfg.Auth.CSRFEnabled {
		var generated bool
		csrfSecret, generated, err = csrfKey(cfg.Session.Secret)
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		if generated {
			log.Warn("Generated session secret (set SESSION_SECRET to persist CSRF tokens across restarts)")
		}
	}

	var cleanup *scheduler.SessionCleanupScheduler
	var cleanupStatus http_controllers.CleanupStatus
	if store.CanPurge() {
		cleanup = scheduler.NewSessionCleanupScheduler(store, cfg.Session.CleanupSchedule)
		if removed, err := cleanup.RunNow(ctx); err != nil {
			log.WithError(err).Warn("Startup session cleanup failed")
		} else if removed > 0 {
			log.Infof("Startup session cleanup removed %d expired sessions", removed)
		}
		if err := cleanup.Start(ctx); err != nil {
			log.Fatalf("Failed to start session cleanup: %v", err)
		}
		cleanupStatus = cleanup
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Dispatcher:     dispatcher,
		SessionCleanup: cleanupStatus,
		AuthService:    auth.NewService(repo, verifier),
		SessionManager: sessionManager,
		FrontendURL:    cfg.Auth.FrontendURL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Session.SecureCookies,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		if cleanup != nil {
			cleanup.Stop()
		}
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("Failed to close session store")
		}
	}

	if err := Serve(ctx, router, cfg, onShutdown); err != nil {
		log.Errorf("Server stopped with error: %v", err)
		logging.Close()
		os.Exit(1)
	}
}
