package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/user-service/internal/domain"
)

// Codec-level failures. The HTTP layer never surfaces these directly; the
// middleware collapses both into a single unauthorized response.
var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// Claim keys carried in the signed payload.
const (
	ClaimSubject  = "sub"
	ClaimRole     = "role"
	ClaimIssuedAt = "iat"
	ClaimExpires  = "exp"
)

// TokenManager issues and verifies signed HS256 tokens. Verification is
// stateless: no session store, revocation only via expiry.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a manager using the wall clock.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return NewTokenManagerWithClock(secret, accessTTL, refreshTTL, time.Now)
}

// NewTokenManagerWithClock builds a manager with an injectable clock,
// used by tests to exercise expiry.
func NewTokenManagerWithClock(secret string, accessTTL, refreshTTL time.Duration, now func() time.Time) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
	}
}

// Issue signs the given claims with an expiry of now+lifetime. A role claim,
// if present, is upper-cased before signing so verification always yields the
// canonical role spelling. The input map is not modified.
func (tm *TokenManager) Issue(claims map[string]any, lifetime time.Duration) (string, time.Time, error) {
	payload := make(jwt.MapClaims, len(claims)+2)
	for k, v := range claims {
		payload[k] = v
	}
	if role, ok := payload[ClaimRole].(string); ok {
		payload[ClaimRole] = strings.ToUpper(role)
	}

	issuedAt := tm.now()
	expiresAt := issuedAt.Add(lifetime)
	payload[ClaimIssuedAt] = jwt.NewNumericDate(issuedAt)
	payload[ClaimExpires] = jwt.NewNumericDate(expiresAt)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// IssueAccessToken mints a short-lived token for the user.
func (tm *TokenManager) IssueAccessToken(user *domain.User) (string, time.Time, error) {
	return tm.Issue(subjectClaims(user), tm.accessTTL)
}

// IssueRefreshToken mints a long-lived token for the user. Same encoding as
// the access token, only the lifetime differs.
func (tm *TokenManager) IssueRefreshToken(user *domain.User) (string, time.Time, error) {
	return tm.Issue(subjectClaims(user), tm.refreshTTL)
}

// Verify checks signature and expiry and returns the decoded claims.
// Fails with ErrTokenExpired when the signature is valid but the token has
// expired, ErrTokenInvalid for everything else.
func (tm *TokenManager) Verify(tokenStr string) (map[string]any, error) {
	parsed, err := jwt.Parse(tokenStr,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return tm.secret, nil
		},
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func subjectClaims(user *domain.User) map[string]any {
	return map[string]any{
		ClaimSubject: user.ID,
		ClaimRole:    string(user.Role),
	}
}
