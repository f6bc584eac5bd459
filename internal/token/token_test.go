package token

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	issuer := NewIssuer("test-secret", time.Hour).WithClock(func() time.Time { return now })

	tok, err := issuer.Issue(42, "hash|false")
	require.NoError(t, err)

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, issuer.Verify(tok, 42, "hash|false"))
	})

	t.Run("WrongUser", func(t *testing.T) {
		assert.ErrorIs(t, issuer.Verify(tok, 43, "hash|false"), ErrInvalidToken)
	})

	t.Run("AlreadyUsed", func(t *testing.T) {
		// a conta foi ativada depois da emissão
		assert.ErrorIs(t, issuer.Verify(tok, 42, "hash|true"), ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		later := issuer.WithClock(func() time.Time { return now.Add(2 * time.Hour) })
		err := later.Verify(tok, 42, "hash|false")
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("OtherSecret", func(t *testing.T) {
		other := NewIssuer("other-secret", time.Hour).WithClock(func() time.Time { return now })
		assert.ErrorIs(t, other.Verify(tok, 42, "hash|false"), ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		assert.ErrorIs(t, issuer.Verify("not-a-token", 42, "hash|false"), ErrInvalidToken)
	})
}
