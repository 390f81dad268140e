package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategy_Authenticate(t *testing.T) {
	ctx := context.Background()
	verifier := newTestVerifier(t)

	hash, err := verifier.Hash("p@ss1")
	require.NoError(t, err)

	newStore := func() *fakeStore {
		s := &fakeStore{}
		_, err := s.Create(ctx, "alice", hash, "a@x.com")
		require.NoError(t, err)
		return s
	}

	t.Run("accepts correct password", func(t *testing.T) {
		outcome := NewStrategy(newStore(), verifier).Authenticate(ctx, "alice", "p@ss1")

		assert.True(t, outcome.Accepted())
		assert.Equal(t, StateAccepted, outcome.State)
		require.NotNil(t, outcome.Identity)
		assert.Equal(t, "alice", outcome.Identity.Username)
		assert.Empty(t, outcome.Reason)
	})

	t.Run("rejects unknown username", func(t *testing.T) {
		outcome := NewStrategy(newStore(), verifier).Authenticate(ctx, "bob", "p@ss1")

		assert.False(t, outcome.Accepted())
		assert.Equal(t, StateRejected, outcome.State)
		assert.Equal(t, ReasonNotRegistered, outcome.Reason)
		assert.Nil(t, outcome.Identity)
		assert.NoError(t, outcome.Err)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		outcome := NewStrategy(newStore(), verifier).Authenticate(ctx, "alice", "wrong")

		assert.Equal(t, StateRejected, outcome.State)
		assert.Equal(t, ReasonIncorrectPassword, outcome.Reason)
		assert.Nil(t, outcome.Identity)
	})

	t.Run("username match is exact", func(t *testing.T) {
		outcome := NewStrategy(newStore(), verifier).Authenticate(ctx, "Alice", "p@ss1")
		assert.Equal(t, ReasonNotRegistered, outcome.Reason)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		store := newStore()
		store.findErr = errStoreDown

		outcome := NewStrategy(store, verifier).Authenticate(ctx, "alice", "p@ss1")

		assert.Equal(t, StateRejected, outcome.State)
		assert.Equal(t, ReasonInternal, outcome.Reason)
		assert.ErrorIs(t, outcome.Err, errStoreDown)
	})

	t.Run("malformed stored hash is internal", func(t *testing.T) {
		store := newStore()
		store.identity.PasswordHash = "not-a-bcrypt-hash"

		outcome := NewStrategy(store, verifier).Authenticate(ctx, "alice", "p@ss1")

		assert.Equal(t, ReasonInternal, outcome.Reason)
		assert.ErrorIs(t, outcome.Err, ErrVerification)
	})

	t.Run("looks up exactly once", func(t *testing.T) {
		store := newStore()
		NewStrategy(store, verifier).Authenticate(ctx, "alice", "p@ss1")
		assert.Equal(t, 1, store.lookups)
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "looking_up", StateLookingUp.String())
	assert.Equal(t, "verifying", StateVerifying.String())
	assert.Equal(t, "accepted", StateAccepted.String())
	assert.Equal(t, "rejected", StateRejected.String())
	assert.Equal(t, "state(42)", State(42).String())
}
