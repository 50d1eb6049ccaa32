package dto

import (
	"time"

	"github.com/spec-kit/user-service/internal/domain"
)

// UserResponse is the public view of a user record. The password hash and
// lockout counters never leave the service.
type UserResponse struct {
	ID                string     `json:"id"`
	Nickname          string     `json:"nickname"`
	FirstName         string     `json:"first_name,omitempty"`
	LastName          string     `json:"last_name,omitempty"`
	Bio               string     `json:"bio,omitempty"`
	ProfilePictureURL *string    `json:"profile_picture_url,omitempty"`
	LinkedInURL       *string    `json:"linkedin_profile_url,omitempty"`
	GitHubURL         *string    `json:"github_profile_url,omitempty"`
	Email             string     `json:"email"`
	Role              string     `json:"role"`
	EmailVerified     bool       `json:"email_verified"`
	IsProfessional    bool       `json:"is_professional"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                user.ID,
		Nickname:          user.Nickname,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Bio:               user.Bio,
		ProfilePictureURL: user.ProfilePictureURL,
		LinkedInURL:       user.LinkedInURL,
		GitHubURL:         user.GitHubURL,
		Email:             user.Email,
		Role:              string(user.Role),
		EmailVerified:     user.EmailVerified,
		IsProfessional:    user.IsProfessional,
		LastLoginAt:       user.LastLoginAt,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}

// UserListResponse is one page of users.
type UserListResponse struct {
	Items   []UserResponse `json:"items"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// UserUpdateRequest carries the administrative update; omitted fields are
// left unchanged.
type UserUpdateRequest struct {
	Nickname      *string `json:"nickname"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Email         *string `json:"email"`
	Role          *string `json:"role"`
	EmailVerified *bool   `json:"email_verified"`
	IsLocked      *bool   `json:"is_locked"`
}

// ProfileUpdateRequest carries the self-service profile update; omitted
// fields are left unchanged.
type ProfileUpdateRequest struct {
	FirstName         *string `json:"first_name"`
	LastName          *string `json:"last_name"`
	Bio               *string `json:"bio"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	LinkedInURL       *string `json:"linkedin_profile_url"`
	GitHubURL         *string `json:"github_profile_url"`
}
