package passpolicy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suinership/auth/pkg/passpolicy"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	policy := passpolicy.Default()

	t.Run("accepts a reasonable password", func(t *testing.T) {
		require.NoError(t, policy.Check("Pw12345!", "a@x.com", "Alice Example"))
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		require.ErrorIs(t, policy.Check("Pw1!"), passpolicy.ErrTooShort)
	})

	t.Run("rejects numeric-only passwords", func(t *testing.T) {
		require.ErrorIs(t, policy.Check("4815162342"), passpolicy.ErrNumericOnly)
	})

	t.Run("rejects common passwords case-insensitively", func(t *testing.T) {
		require.ErrorIs(t, policy.Check("Password123"), passpolicy.ErrTooCommon)
		require.ErrorIs(t, policy.Check("qwertyuiop"), passpolicy.ErrTooCommon)
	})

	t.Run("rejects passwords similar to email or name", func(t *testing.T) {
		err := policy.Check("alice2024", "alice@example.com", "Alice Smith")
		require.ErrorIs(t, err, passpolicy.ErrTooSimilar)

		err = policy.Check("SmithSmith1", "alice@example.com", "Alice Smith")
		require.ErrorIs(t, err, passpolicy.ErrTooSimilar)
	})

	t.Run("short attribute fragments do not trip similarity", func(t *testing.T) {
		// "al" and "x" are too short to count as personal info.
		require.NoError(t, policy.Check("Normal-Pass9", "al@x.com"))
	})
}
