package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/user-service/internal/auth"
	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/events"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:              "test-secret",
			AccessTokenTTLMinutes:  15,
			RefreshTokenTTLMinutes: 1440,
			MaxLoginAttempts:       3,
			VerificationTTLMinutes: 60,
			BcryptCost:             bcrypt.MinCost,
		},
	}
}

type authFixture struct {
	users         *memoryUserRepo
	verifications *memoryVerificationRepo
	dispatcher    *recordingDispatcher
	auth          *AuthService
}

func newAuthFixture() *authFixture {
	users := newMemoryUserRepo()
	verifications := newMemoryVerificationRepo()
	dispatcher := &recordingDispatcher{}
	return &authFixture{
		users:         users,
		verifications: verifications,
		dispatcher:    dispatcher,
		auth: NewAuthService(testConfig(), AuthDependencies{
			UserRepo:         users,
			VerificationRepo: verifications,
			Dispatcher:       dispatcher,
		}),
	}
}

// registerVerified registers an account and marks it verified so login tests
// get past the verification gate.
func (f *authFixture) registerVerified(t *testing.T, email, password string) *domain.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), "tester", email, password)
	require.NoError(t, err)
	if !user.EmailVerified {
		user.EmailVerified = true
		require.NoError(t, f.users.Update(context.Background(), user))
	}
	return user
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	ctx := context.Background()

	first, err := f.auth.Register(ctx, "alice", "alice@example.com", "Secret123!")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, first.Role)
	require.True(t, first.EmailVerified)

	second, err := f.auth.Register(ctx, "bob", "bob@example.com", "Secret123!")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAuthenticated, second.Role)
	require.False(t, second.EmailVerified)

	registered := f.dispatcher.byType(events.EventUserRegistered)
	require.Len(t, registered, 2)
	payload, ok := registered[1].Payload.(events.UserRegisteredPayload)
	require.True(t, ok)
	require.NotEmpty(t, payload.VerificationToken)

	// the emitted token is consumable exactly once
	userID, err := f.verifications.Consume(ctx, payload.VerificationToken)
	require.NoError(t, err)
	require.Equal(t, second.ID, userID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.auth.Register(ctx, "alice", "alice@example.com", "Secret123!")
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, "alice2", "alice@example.com", "Secret123!")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesTokensForStoredRole(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	ctx := context.Background()
	registered := f.registerVerified(t, "alice@example.com", "Secret123!")

	user, tokens, err := f.auth.Login(ctx, "alice@example.com", "Secret123!")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.NotEmpty(t, tokens.RefreshToken)

	claims, err := f.auth.TokenManager().Verify(tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims[auth.ClaimSubject])
	require.Equal(t, string(registered.Role), claims[auth.ClaimRole])

	stored, err := f.users.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	require.Zero(t, stored.FailedLoginCount)
}

func TestLoginFailureModes(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	ctx := context.Background()
	f.registerVerified(t, "alice@example.com", "Secret123!")

	t.Run("unknown account and wrong password are indistinguishable", func(t *testing.T) {
		_, unknownErr := f.auth.Authenticate(ctx, "ghost@example.com", "whatever")
		_, wrongErr := f.auth.Authenticate(ctx, "alice@example.com", "wrong-password")
		require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
		require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	})

	t.Run("unverified account", func(t *testing.T) {
		_, err := f.auth.Register(ctx, "bob", "bob@example.com", "Secret123!")
		require.NoError(t, err)

		_, err = f.auth.Authenticate(ctx, "bob@example.com", "Secret123!")
		require.ErrorIs(t, err, ErrAccountUnverified)
	})
}

func TestLockoutTakesPrecedenceOverCorrectPassword(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	ctx := context.Background()
	f.registerVerified(t, "alice@example.com", "Secret123!")

	for i := 0; i < 3; i++ {
		_, err := f.auth.Authenticate(ctx, "alice@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// fourth attempt with the correct password still fails: the account is
	// locked before the password is examined
	_, err := f.auth.Authenticate(ctx, "alice@example.com", "Secret123!")
	require.ErrorIs(t, err, ErrAccountLocked)

	require.Len(t, f.dispatcher.byType(events.EventUserLocked), 1)
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	f := newAuthFixture()
	ctx := context.Background()
	registered := f.registerVerified(t, "alice@example.com", "Secret123!")

	_, tokens, err := f.auth.Login(ctx, "alice@example.com", "Secret123!")
	require.NoError(t, err)

	access, _, err := f.auth.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)

	claims, err := f.auth.TokenManager().Verify(access)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims[auth.ClaimSubject])

	t.Run("garbage refresh token", func(t *testing.T) {
		_, _, err := f.auth.Refresh(ctx, "garbage")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("locked account cannot refresh", func(t *testing.T) {
		stored, err := f.users.GetByID(ctx, registered.ID)
		require.NoError(t, err)
		stored.IsLocked = true
		require.NoError(t, f.users.Update(ctx, stored))

		_, _, err = f.auth.Refresh(ctx, tokens.RefreshToken)
		require.ErrorIs(t, err, ErrAccountLocked)
	})
}
