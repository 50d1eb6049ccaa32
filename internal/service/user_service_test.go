package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/events"
)

type userFixture struct {
	users         *memoryUserRepo
	verifications *memoryVerificationRepo
	dispatcher    *recordingDispatcher
	svc           *UserService
}

func newUserFixture() *userFixture {
	users := newMemoryUserRepo()
	verifications := newMemoryVerificationRepo()
	dispatcher := &recordingDispatcher{}
	return &userFixture{
		users:         users,
		verifications: verifications,
		dispatcher:    dispatcher,
		svc:           NewUserService(users, verifications, dispatcher),
	}
}

func TestUserGetNotFound(t *testing.T) {
	t.Parallel()

	f := newUserFixture()
	_, err := f.svc.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserListPagination(t *testing.T) {
	t.Parallel()

	f := newUserFixture()
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		seedUser(t, f.users, fmt.Sprintf("user%d@example.com", i), nil)
	}

	page, total, err := f.svc.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 10)
	require.EqualValues(t, 25, total)

	last, _, err := f.svc.List(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, last, 5)

	t.Run("out of range parameters fall back to defaults", func(t *testing.T) {
		page, _, err := f.svc.List(ctx, 0, -1)
		require.NoError(t, err)
		require.Len(t, page, 20)
	})
}

func TestUserUpdate(t *testing.T) {
	t.Parallel()

	f := newUserFixture()
	ctx := context.Background()
	user := seedUser(t, f.users, "alice@example.com", nil)

	role := domain.RoleManager
	nickname := "renamed"
	updated, err := f.svc.Update(ctx, user.ID, UserUpdate{Nickname: &nickname, Role: &role})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Nickname)
	require.Equal(t, domain.RoleManager, updated.Role)

	t.Run("unlocking resets the failure counter", func(t *testing.T) {
		locked := seedUser(t, f.users, "locked@example.com", func(u *domain.User) {
			u.IsLocked = true
			u.FailedLoginCount = 3
		})

		unlock := false
		updated, err := f.svc.Update(ctx, locked.ID, UserUpdate{IsLocked: &unlock})
		require.NoError(t, err)
		require.False(t, updated.IsLocked)
		require.Zero(t, updated.FailedLoginCount)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		bad := domain.UserRole("SUPERUSER")
		_, err := f.svc.Update(ctx, user.ID, UserUpdate{Role: &bad})
		require.Error(t, err)
	})
}

func TestUserProfileUpdatePartial(t *testing.T) {
	t.Parallel()

	f := newUserFixture()
	ctx := context.Background()
	user := seedUser(t, f.users, "alice@example.com", func(u *domain.User) {
		u.FirstName = "Alice"
	})

	bio := "Test Bio"
	updated, err := f.svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, "Test Bio", updated.Bio)
	require.Equal(t, "Alice", updated.FirstName)
}

func TestUserDelete(t *testing.T) {
	t.Parallel()

	f := newUserFixture()
	ctx := context.Background()
	user := seedUser(t, f.users, "alice@example.com", nil)

	require.NoError(t, f.svc.Delete(ctx, user.ID))
	require.ErrorIs(t, f.svc.Delete(ctx, user.ID), ErrUserNotFound)
}

func TestUpgradeProfessionalIdempotent(t *testing.T) {
	t.Parallel()

	f := newUserFixture()
	ctx := context.Background()
	user := seedUser(t, f.users, "alice@example.com", nil)

	first, err := f.svc.UpgradeProfessional(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, first.IsProfessional)

	second, err := f.svc.UpgradeProfessional(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, second.IsProfessional)

	// event fires only on the first transition
	require.Len(t, f.dispatcher.byType(events.EventProfessionalUpgraded), 1)
}

func TestVerifyEmailOneShot(t *testing.T) {
	t.Parallel()

	f := newUserFixture()
	ctx := context.Background()
	user := seedUser(t, f.users, "alice@example.com", func(u *domain.User) {
		u.EmailVerified = false
	})
	require.NoError(t, f.verifications.Store(ctx, "tok-1", user.ID, 0))

	verified, err := f.svc.VerifyEmail(ctx, "tok-1")
	require.NoError(t, err)
	require.True(t, verified.EmailVerified)
	require.Len(t, f.dispatcher.byType(events.EventEmailVerified), 1)

	_, err = f.svc.VerifyEmail(ctx, "tok-1")
	require.ErrorIs(t, err, ErrInvalidToken)
}
