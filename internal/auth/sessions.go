package auth

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/llm-aggregator/internal/config"
	"github.com/mrlokans/llm-aggregator/internal/database/identities"
	"github.com/mrlokans/llm-aggregator/internal/entities"
)

// Session data keys
const (
	SessionKeyIdentityID = "identity_id"
	SessionKeyUsername   = "username"
	SessionKeyLoginAt    = "login_at"
)

func init() {
	// Register types that will be stored in sessions
	gob.Register(time.Time{})
}

// IdentityFinder resolves the identity a session points at.
type IdentityFinder interface {
	FindByID(ctx context.Context, id string) (*entities.Identity, error)
}

// SessionManager wraps scs.SessionManager with the serialize/restore pair
// used by login and by every authenticated handler.
type SessionManager struct {
	*scs.SessionManager
	identities IdentityFinder
}

// NewSessionManager creates a configured session manager on top of any scs
// store (see the sessionstore package).
func NewSessionManager(store scs.Store, identities IdentityFinder, cfg config.Session) *SessionManager {
	sm := scs.New()
	sm.Store = store

	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2 // Half of lifetime for inactivity

	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "session"
	}
	sm.Cookie.Name = cookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	// Lax: the login form posts from the frontend origin and is answered
	// with a top-level redirect back to it.
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm, identities: identities}
}

// Serialize binds the identity to the current session. The token is renewed
// first to prevent session fixation.
func (sm *SessionManager) Serialize(ctx context.Context, identity *entities.Identity) error {
	if identity == nil || identity.ID == "" {
		return errors.New("cannot serialize an empty identity")
	}
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renew session token: %w", err)
	}

	sm.Put(ctx, SessionKeyIdentityID, identity.ID)
	sm.Put(ctx, SessionKeyUsername, identity.Username)
	sm.Put(ctx, SessionKeyLoginAt, time.Now())

	return nil
}

// IdentityID returns the identity id stored in the session, or "".
func (sm *SessionManager) IdentityID(ctx context.Context) string {
	return sm.GetString(ctx, SessionKeyIdentityID)
}

// Restore loads the full identity referenced by the session.
// Returns ErrNotAuthenticated when the session is anonymous and
// ErrStaleSession (after destroying the session) when the identity is gone.
func (sm *SessionManager) Restore(ctx context.Context) (*entities.Identity, error) {
	id := sm.IdentityID(ctx)
	if id == "" {
		return nil, ErrNotAuthenticated
	}

	identity, err := sm.identities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, identities.ErrNotFound) {
			if derr := sm.Destroy(ctx); derr != nil {
				log.WithError(derr).Warn("failed to destroy stale session")
			}
			return nil, ErrStaleSession
		}
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return identity, nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// SessionData holds the session information for a request.
type SessionData struct {
	IdentityID string
	Username   string
	LoginAt    time.Time
}

// GetSessionData retrieves all session data at once, or nil when anonymous.
func (sm *SessionManager) GetSessionData(ctx context.Context) *SessionData {
	id := sm.IdentityID(ctx)
	if id == "" {
		return nil
	}

	loginAt, _ := sm.Get(ctx, SessionKeyLoginAt).(time.Time)

	return &SessionData{
		IdentityID: id,
		Username:   sm.GetString(ctx, SessionKeyUsername),
		LoginAt:    loginAt,
	}
}
