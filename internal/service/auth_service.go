package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/user-service/internal/auth"
	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/events"
	"github.com/spec-kit/user-service/internal/repository"
)

// Terminal authentication outcomes. None are retried; handlers map them to
// their HTTP classification.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrAccountUnverified  = errors.New("account unverified")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthService coordinates registration and the credential verification flow.
type AuthService struct {
	users           repository.UserRepository
	verifications   repository.VerificationTokenRepository
	tokenMgr        *auth.TokenManager
	lockout         *LockoutTracker
	dispatcher      events.Dispatcher
	bcryptCost      int
	verificationTTL time.Duration
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	VerificationRepo repository.VerificationTokenRepository
	Dispatcher       events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:           deps.UserRepo,
		verifications:   deps.VerificationRepo,
		tokenMgr:        auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
		lockout:         NewLockoutTracker(deps.UserRepo, cfg.Auth.MaxLoginAttempts),
		dispatcher:      deps.Dispatcher,
		bcryptCost:      cfg.Auth.BcryptCost,
		verificationTTL: cfg.Auth.VerificationTTL(),
	}
}

// Register creates a new account with the AUTHENTICATED role and issues an
// email verification token. The very first account becomes a verified ADMIN,
// so a fresh deployment is administrable.
func (s *AuthService) Register(ctx context.Context, nickname, email, password string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Nickname:     nickname,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAuthenticated,
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		user.Role = domain.RoleAdmin
		user.EmailVerified = true
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	verificationToken := ""
	if !user.EmailVerified && s.verifications != nil {
		verificationToken = uuid.NewString()
		if err := s.verifications.Store(ctx, verificationToken, user.ID, s.verificationTTL); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Payload: events.UserRegisteredPayload{
			Email:             user.Email,
			Nickname:          user.Nickname,
			VerificationToken: verificationToken,
		},
	})
	return user, nil
}

// Authenticate verifies credentials against the stored record and account
// state. Unknown account and wrong password resolve to the same outcome so a
// login attempt cannot probe for account existence. A locked account fails
// before the password is ever compared.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsLocked {
		return nil, ErrAccountLocked
	}
	if !user.EmailVerified {
		return nil, ErrAccountUnverified
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		locked, trackErr := s.lockout.RecordFailure(ctx, user.Email)
		if trackErr == nil && locked {
			s.publish(ctx, events.Event{
				Type:   events.EventUserLocked,
				UserID: user.ID,
				Payload: events.UserLockedPayload{
					Email:          user.Email,
					FailedAttempts: user.FailedLoginCount + 1,
				},
			})
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.lockout.RecordSuccess(ctx, user.Email); err != nil {
		return nil, err
	}
	return user, nil
}

// Login runs the full credential verification flow and mints an access and a
// refresh token for the authenticated account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	access, expiresAt, err := s.tokenMgr.IssueAccessToken(user)
	if err != nil {
		return nil, nil, err
	}
	refresh, _, err := s.tokenMgr.IssueRefreshToken(user)
	if err != nil {
		return nil, nil, err
	}

	return user, &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

// Refresh exchanges a valid refresh token for a fresh access token. The role
// is re-read from the stored record so a role change takes effect at the next
// refresh rather than at token expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.tokenMgr.Verify(refreshToken)
	if err != nil {
		return "", time.Time{}, ErrInvalidToken
	}

	subject, _ := claims[auth.ClaimSubject].(string)
	if subject == "" {
		return "", time.Time{}, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", time.Time{}, ErrInvalidToken
		}
		return "", time.Time{}, err
	}
	if user.IsLocked {
		return "", time.Time{}, ErrAccountLocked
	}

	return s.tokenMgr.IssueAccessToken(user)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Lockout exposes the tracker, mainly for tests and admin tooling.
func (s *AuthService) Lockout() *LockoutTracker {
	return s.lockout
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
