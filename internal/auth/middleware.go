package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/llm-aggregator/internal/entities"
)

// Context keys for identity data
const (
	ContextKeyIdentity = "auth_identity"
)

// Middleware guards routes that need an authenticated identity.
type Middleware struct {
	sessions *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(sessions *SessionManager) *Middleware {
	return &Middleware{sessions: sessions}
}

// RequireIdentity restores the session's identity or aborts. Anonymous and
// stale sessions get the same 401 body so nothing about the identity leaks.
func (m *Middleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := m.sessions.Restore(c.Request.Context())
		if err != nil {
			if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrStaleSession) {
				if errors.Is(err, ErrStaleSession) {
					log.Info("rejected request with stale session")
				}
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"message": "not authenticated",
				})
				return
			}

			log.WithError(err).Error("failed to restore session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "internal error",
			})
			return
		}

		c.Set(ContextKeyIdentity, identity)
		c.Next()
	}
}

// GetIdentity retrieves the restored identity from the context, or nil.
func GetIdentity(c *gin.Context) *entities.Identity {
	if v, exists := c.Get(ContextKeyIdentity); exists {
		if identity, ok := v.(*entities.Identity); ok {
			return identity
		}
	}
	return nil
}

// GetIdentityID returns the restored identity's id, or "".
func GetIdentityID(c *gin.Context) string {
	if identity := GetIdentity(c); identity != nil {
		return identity.ID
	}
	return ""
}
