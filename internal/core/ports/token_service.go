package ports

import (
	"time"

	"github.com/sentiserve/ml-api/internal/core/domain"
)

// TokenService issues and validates signed, time-bounded session tokens. It
// owns no state beyond the signing key and never reads the user store; it
// only encodes and decodes claims handed to it.
type TokenService interface {
	// Issue signs claims for the user and returns the token with its expiry.
	Issue(user *domain.User) (token string, expiresAt time.Time, err error)
	// Validate verifies signature and expiry. Failures are one of
	// domain.ErrTokenExpired, domain.ErrTokenMalformed, or
	// domain.ErrTokenSignature, all wrapping domain.ErrUnauthorized.
	Validate(token string) (*domain.Claims, error)
}
