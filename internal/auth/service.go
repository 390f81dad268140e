package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/llm-aggregator/internal/entities"
)

var (
	ErrInvalidSignup    = errors.New("invalid signup")
	ErrUsernameRequired = fmt.Errorf("%w: username is required", ErrInvalidSignup)
	ErrEmailRequired    = fmt.Errorf("%w: email is required", ErrInvalidSignup)
	ErrPasswordRequired = fmt.Errorf("%w: password is required", ErrInvalidSignup)

	ErrNotAuthenticated = errors.New("not authenticated")
	ErrStaleSession     = errors.New("session references an identity that no longer exists")
)

// IdentityStore is the credential store used for signup, login and session restore.
type IdentityStore interface {
	Create(ctx context.Context, username, passwordHash, email string) (*entities.Identity, error)
	FindByUsername(ctx context.Context, username string) (*entities.Identity, error)
	FindByID(ctx context.Context, id string) (*entities.Identity, error)
}

// Service handles signup and login.
type Service struct {
	store    IdentityStore
	verifier *PasswordVerifier
	strategy *Strategy
}

// NewService creates a new authentication service.
func NewService(store IdentityStore, verifier *PasswordVerifier) *Service {
	return &Service{
		store:    store,
		verifier: verifier,
		strategy: NewStrategy(store, verifier),
	}
}

// Signup registers a new identity. Duplicate usernames or emails surface as
// identities.ErrDuplicateKey from the store.
func (s *Service) Signup(ctx context.Context, username, password, email string) (*entities.Identity, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, ErrUsernameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	passwordHash, err := s.verifier.Hash(password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSignup, err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.store.Create(ctx, username, passwordHash, email)
}

// Authenticate runs the login state machine for one attempt.
func (s *Service) Authenticate(ctx context.Context, username, password string) Outcome {
	return s.strategy.Authenticate(ctx, username, password)
}
