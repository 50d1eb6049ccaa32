package service

import (
	"context"
	"time"

	"github.com/spec-kit/user-service/internal/repository"
)

// LockoutTracker counts failed login attempts per account and flags lockout
// once the configured threshold is reached. Every call performs a
// read-increment-write against the persisted record; concurrent requests for
// the same account may race on the counter, which is accepted — the count is
// best-effort telemetry, not an exact attempt ledger.
//
// A locked account stays locked until a successful credential check clears
// it; there is no unlock timer.
type LockoutTracker struct {
	users     repository.UserRepository
	threshold int
}

// NewLockoutTracker builds a tracker with the given failure threshold.
func NewLockoutTracker(users repository.UserRepository, threshold int) *LockoutTracker {
	if threshold <= 0 {
		threshold = 3
	}
	return &LockoutTracker{users: users, threshold: threshold}
}

// RecordFailure increments the persisted failure counter and sets the lock
// flag when the counter reaches the threshold. Returns whether the account
// ended up locked.
func (t *LockoutTracker) RecordFailure(ctx context.Context, email string) (bool, error) {
	user, err := t.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}

	user.FailedLoginCount++
	if user.FailedLoginCount >= t.threshold {
		user.IsLocked = true
	}
	if err := t.users.Update(ctx, user); err != nil {
		return false, err
	}
	return user.IsLocked, nil
}

// RecordSuccess zeroes the failure counter, clears the lock, and stamps the
// successful login time.
func (t *LockoutTracker) RecordSuccess(ctx context.Context, email string) error {
	user, err := t.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user.FailedLoginCount = 0
	user.IsLocked = false
	user.LastLoginAt = &now
	return t.users.Update(ctx, user)
}

// IsLocked reports the persisted lock flag for the account.
func (t *LockoutTracker) IsLocked(ctx context.Context, email string) (bool, error) {
	user, err := t.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user.IsLocked, nil
}

// Threshold returns the configured failure threshold.
func (t *LockoutTracker) Threshold() int {
	return t.threshold
}
