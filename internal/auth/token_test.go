package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/user-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)

	claims := map[string]any{
		ClaimSubject: "user-123",
		ClaimRole:    "ADMIN",
		"nickname":   "alice",
	}
	token, expiresAt, err := tm.Issue(claims, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 2*time.Second)

	decoded, err := tm.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", decoded[ClaimSubject])
	require.Equal(t, "ADMIN", decoded[ClaimRole])
	require.Equal(t, "alice", decoded["nickname"])
	require.Contains(t, decoded, ClaimExpires)
	require.Contains(t, decoded, ClaimIssuedAt)

	// the input map is not mutated
	require.Equal(t, 3, len(claims))
}

func TestTokenRoleNormalization(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)

	token, _, err := tm.Issue(map[string]any{ClaimSubject: "u1", ClaimRole: "admin"}, time.Minute)
	require.NoError(t, err)

	decoded, err := tm.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "ADMIN", decoded[ClaimRole])
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	current := base
	tm := NewTokenManagerWithClock("test-secret", 15*time.Minute, 24*time.Hour, func() time.Time {
		return current
	})

	token, expiresAt, err := tm.Issue(map[string]any{ClaimSubject: "u1"}, 10*time.Minute)
	require.NoError(t, err)
	require.Equal(t, base.Add(10*time.Minute), expiresAt)

	_, err = tm.Verify(token)
	require.NoError(t, err)

	current = base.Add(10*time.Minute + time.Second)
	_, err = tm.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenInvalid(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	other := NewTokenManager("other-secret", 15*time.Minute, 24*time.Hour)

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.Verify("not-a-token")
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := other.Issue(map[string]any{ClaimSubject: "u1"}, time.Minute)
		require.NoError(t, err)

		_, err = tm.Verify(token)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, _, err := tm.Issue(map[string]any{ClaimSubject: "u1"}, time.Minute)
		require.NoError(t, err)

		_, err = tm.Verify(token + "x")
		require.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestAccessAndRefreshLifetimes(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tm := NewTokenManagerWithClock("test-secret", 15*time.Minute, 24*time.Hour, func() time.Time {
		return base
	})

	user := &domain.User{ID: "user-1", Role: domain.RoleAuthenticated}

	_, accessExp, err := tm.IssueAccessToken(user)
	require.NoError(t, err)
	require.Equal(t, base.Add(15*time.Minute), accessExp)

	refresh, refreshExp, err := tm.IssueRefreshToken(user)
	require.NoError(t, err)
	require.Equal(t, base.Add(24*time.Hour), refreshExp)

	decoded, err := tm.Verify(refresh)
	require.NoError(t, err)
	require.Equal(t, "user-1", decoded[ClaimSubject])
	require.Equal(t, string(domain.RoleAuthenticated), decoded[ClaimRole])
}
