package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/llm-aggregator/internal/database/identities"
	"github.com/mrlokans/llm-aggregator/internal/entities"
)

// State is a step of a single login attempt.
type State int

const (
	StateLookingUp State = iota
	StateVerifying
	StateAccepted
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateLookingUp:
		return "looking_up"
	case StateVerifying:
		return "verifying"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Reason explains a rejection. The text is safe to show to the client.
type Reason string

const (
	ReasonNotRegistered     Reason = "You are not registered"
	ReasonIncorrectPassword Reason = "Incorrect password"
	ReasonInternal          Reason = "internal error"
)

// Outcome is the terminal result of a login attempt. Err carries the cause
// of a ReasonInternal rejection for logging only.
type Outcome struct {
	State    State
	Identity *entities.Identity
	Reason   Reason
	Err      error
}

// Accepted reports whether the attempt produced an identity.
func (o Outcome) Accepted() bool {
	return o.State == StateAccepted && o.Identity != nil
}

// Strategy authenticates a username/password pair against the credential store.
type Strategy struct {
	store    IdentityStore
	verifier *PasswordVerifier
}

// NewStrategy creates a local username/password strategy.
func NewStrategy(store IdentityStore, verifier *PasswordVerifier) *Strategy {
	return &Strategy{store: store, verifier: verifier}
}

// Authenticate walks LookingUp -> Verifying -> Accepted, stopping at
// Rejected on the first failure.
func (s *Strategy) Authenticate(ctx context.Context, username, password string) Outcome {
	state := StateLookingUp
	var identity *entities.Identity

	for {
		switch state {
		case StateLookingUp:
			found, err := s.store.FindByUsername(ctx, username)
			if errors.Is(err, identities.ErrNotFound) {
				// Same bcrypt cost as a real check so timing does not reveal
				// whether the username exists.
				s.verifier.Equalize(password)
				return rejected(ReasonNotRegistered, nil)
			}
			if err != nil {
				return rejected(ReasonInternal, fmt.Errorf("lookup %q: %w", username, err))
			}
			identity = found
			state = StateVerifying

		case StateVerifying:
			ok, err := s.verifier.Verify(password, identity.PasswordHash)
			if err != nil {
				return rejected(ReasonInternal, fmt.Errorf("verify %q: %w", identity.Username, err))
			}
			if !ok {
				return rejected(ReasonIncorrectPassword, nil)
			}
			state = StateAccepted

		case StateAccepted:
			return Outcome{State: StateAccepted, Identity: identity}

		default:
			return rejected(ReasonInternal, fmt.Errorf("unexpected login state %s", state))
		}
	}
}

func rejected(reason Reason, err error) Outcome {
	return Outcome{State: StateRejected, Reason: reason, Err: err}
}
