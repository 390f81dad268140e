package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/llm-aggregator/internal/database/identities"
)

type signupRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Email    string `form:"email" json:"email"`
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// IdentityResponse is the public view of an identity.
type IdentityResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthController handles signup, login, logout and the current identity.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	frontendURL    string
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service, sessionManager *SessionManager, frontendURL string) *AuthController {
	if frontendURL == "" {
		frontendURL = "/"
	}
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		frontendURL:    frontendURL,
	}
}

// RegisterRoutes registers authentication routes on the router. requireIdentity
// guards the routes that need a restored session.
func (ac *AuthController) RegisterRoutes(router gin.IRouter, requireIdentity gin.HandlerFunc) {
	router.POST("/signup", ac.Signup)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
	router.GET("/me", requireIdentity, ac.Me)
}

// Signup registers a new identity from a JSON or form body.
func (ac *AuthController) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	identity, err := ac.service.Signup(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		var dup *identities.DuplicateKeyError
		switch {
		case errors.As(err, &dup):
			c.JSON(http.StatusBadRequest, gin.H{"message": duplicateMessage(dup.Field)})
		case errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password exceeds maximum length of 72 bytes"})
		case errors.Is(err, ErrInvalidSignup):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username, password and email are required"})
		default:
			log.WithError(err).Error("error registering user")
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Error registering user",
				"error":   "internal error",
			})
		}
		return
	}

	log.WithField("identity_id", identity.ID).Infof("registered user %s", identity.Username)
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func duplicateMessage(field string) string {
	switch field {
	case identities.FieldUsername:
		return "Username already exists"
	case identities.FieldEmail:
		return "Email already exists"
	default:
		return "Username or email already exists"
	}
}

// Login authenticates a form (or JSON) submission and redirects to the
// frontend once the session is established.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	outcome := ac.service.Authenticate(ctx, req.Username, req.Password)
	if !outcome.Accepted() {
		if outcome.Reason == ReasonInternal {
			log.WithError(outcome.Err).Error("login failed with internal error")
			c.JSON(http.StatusInternalServerError, gin.H{"message": string(ReasonInternal)})
			return
		}
		log.WithField("reason", outcome.Reason).Infof("rejected login for %q", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"message": string(outcome.Reason)})
		return
	}

	if err := ac.sessionManager.Serialize(ctx, outcome.Identity); err != nil {
		log.WithError(err).Error("failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create session"})
		return
	}

	c.Redirect(http.StatusFound, ac.frontendURL)
}

// Logout destroys the session. Anonymous callers get the same response.
func (ac *AuthController) Logout(c *gin.Context) {
	session := ac.sessionManager.GetSessionData(c.Request.Context())
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		log.WithError(err).Error("failed to destroy session")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	if session != nil {
		entry := log.WithFields(log.Fields{
			"identity_id": session.IdentityID,
			"username":    session.Username,
		})
		if !session.LoginAt.IsZero() {
			entry = entry.WithField("session_age", time.Since(session.LoginAt).Round(time.Second).String())
		}
		entry.Info("Logged out")
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the identity restored from the session.
func (ac *AuthController) Me(c *gin.Context) {
	identity := GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, IdentityResponse{
		ID:       identity.ID,
		Username: identity.Username,
		Email:    identity.Email,
	})
}
