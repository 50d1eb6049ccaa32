package domain

import "time"

// UserRole enumerates privilege categories. Authorization is evaluated as
// set membership against these values, never as a rank comparison.
type UserRole string

const (
	RoleAnonymous     UserRole = "ANONYMOUS"
	RoleAuthenticated UserRole = "AUTHENTICATED"
	RoleManager       UserRole = "MANAGER"
	RoleAdmin         UserRole = "ADMIN"
)

// ValidRole reports whether r is a known role value.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAnonymous, RoleAuthenticated, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User is the credential record and profile for one account.
type User struct {
	ID                string
	Nickname          string
	FirstName         string
	LastName          string
	Bio               string
	ProfilePictureURL *string
	LinkedInURL       *string
	GitHubURL         *string
	Email             string
	PasswordHash      string
	Role              UserRole
	EmailVerified     bool
	IsLocked          bool
	FailedLoginCount  int
	IsProfessional    bool
	LastLoginAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
