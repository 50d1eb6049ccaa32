package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered       EventType = "user_registered"
	EventUserLocked           EventType = "user_locked"
	EventEmailVerified        EventType = "email_verified"
	EventProfessionalUpgraded EventType = "professional_status_upgraded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email             string `json:"email"`
	Nickname          string `json:"nickname"`
	VerificationToken string `json:"verification_token"`
}

// UserLockedPayload payload.
type UserLockedPayload struct {
	Email          string `json:"email"`
	FailedAttempts int    `json:"failed_attempts"`
}

// EmailVerifiedPayload payload.
type EmailVerifiedPayload struct {
	Email string `json:"email"`
}

// ProfessionalUpgradedPayload payload.
type ProfessionalUpgradedPayload struct {
	Email string `json:"email"`
}
