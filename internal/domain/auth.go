package domain

// Principal is the authenticated identity derived from a valid token.
// It lives for one request and is never persisted.
type Principal struct {
	UserID string
	Role   UserRole
}

// HasRole reports whether the principal's role is in the allowed set.
func (p Principal) HasRole(allowed ...UserRole) bool {
	for _, role := range allowed {
		if p.Role == role {
			return true
		}
	}
	return false
}

// Owns reports whether the principal is the owner of the given resource id.
func (p Principal) Owns(resourceID string) bool {
	return resourceID != "" && p.UserID == resourceID
}
