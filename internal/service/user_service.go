package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/events"
	"github.com/spec-kit/user-service/internal/repository"
)

// ErrUserNotFound indicates the target user record does not exist.
var ErrUserNotFound = errors.New("user not found")

// UserUpdate carries the administrative update fields; nil pointers are left
// unchanged.
type UserUpdate struct {
	Nickname      *string
	FirstName     *string
	LastName      *string
	Email         *string
	Role          *domain.UserRole
	EmailVerified *bool
	IsLocked      *bool
}

// ProfileUpdate carries the self-service profile fields; nil pointers are
// left unchanged.
type ProfileUpdate struct {
	FirstName         *string
	LastName          *string
	Bio               *string
	ProfilePictureURL *string
	LinkedInURL       *string
	GitHubURL         *string
}

// UserService implements CRUD and profile self-service on user records.
type UserService struct {
	users         repository.UserRepository
	verifications repository.VerificationTokenRepository
	dispatcher    events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, verifications repository.VerificationTokenRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, verifications: verifications, dispatcher: dispatcher}
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns one page of users plus the total count.
func (s *UserService) List(ctx context.Context, page, perPage int) ([]*domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	users, err := s.users.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update applies an administrative update to a user record.
func (s *UserService) Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Nickname != nil {
		user.Nickname = *update.Nickname
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Role != nil {
		if !domain.ValidRole(*update.Role) {
			return nil, errors.New("unknown role")
		}
		user.Role = *update.Role
	}
	if update.EmailVerified != nil {
		user.EmailVerified = *update.EmailVerified
	}
	if update.IsLocked != nil {
		user.IsLocked = *update.IsLocked
		if !user.IsLocked {
			user.FailedLoginCount = 0
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial self-service profile update.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.ProfilePictureURL != nil {
		user.ProfilePictureURL = update.ProfilePictureURL
	}
	if update.LinkedInURL != nil {
		user.LinkedInURL = update.LinkedInURL
	}
	if update.GitHubURL != nil {
		user.GitHubURL = update.GitHubURL
	}

	if err := s.users.Update(ctx, user); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Delete removes a user record.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// UpgradeProfessional marks the user as a professional-tier account.
// Idempotent; the event fires only on the first transition.
func (s *UserService) UpgradeProfessional(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsProfessional {
		return user, nil
	}

	user.IsProfessional = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventProfessionalUpgraded,
		UserID:  user.ID,
		Payload: events.ProfessionalUpgradedPayload{Email: user.Email},
	})
	return user, nil
}

// VerifyEmail consumes a one-shot verification token and marks the account
// verified.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.verifications.Consume(ctx, token)
	if err != nil {
		if err == repository.ErrVerificationNotFound {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.EmailVerified {
		return user, nil
	}

	user.EmailVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventEmailVerified,
		UserID:  user.ID,
		Payload: events.EmailVerifiedPayload{Email: user.Email},
	})
	return user, nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
