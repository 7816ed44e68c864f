// Package password provides one-way salted hashing and verification of
// credentials, plus the password strength policy enforced before hashing.
package password

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/sentiserve/ml-api/internal/core/domain"
)

// MaxPlaintextLen bounds hash input. bcrypt errors on any input longer
// than 72 bytes, so the limit is enforced here as a ValidationError.
const MaxPlaintextLen = 72

// MinLen is the minimum password length accepted by the policy.
const MinLen = 8

// Hasher produces and verifies bcrypt digests. The cost factor is the
// throughput/security tradeoff knob: cost 10 keeps p99 verify latency in the
// tens of milliseconds on current hardware while remaining expensive enough
// to resist offline brute force.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Out-of-range costs
// fall back to bcrypt.DefaultCost (10).
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted one-way digest of plain. Each call salts freshly, so
// equal inputs yield distinct digests.
func (h *Hasher) Hash(plain string) (string, error) {
	if len(plain) > MaxPlaintextLen {
		return "", domain.NewValidationError("password", "must be at most 72 bytes")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest. Malformed digests verify
// false, never error. The comparison is constant-time within bcrypt.
func (h *Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// ValidatePolicy checks password strength: minimum 8 characters with at
// least one uppercase letter, one lowercase letter, and one digit.
func ValidatePolicy(plain string) error {
	if len(plain) < MinLen {
		return domain.NewValidationError("password", "must be at least 8 characters")
	}
	if len(plain) > MaxPlaintextLen {
		return domain.NewValidationError("password", "must be at most 72 bytes")
	}
	var upper, lower, digit bool
	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return domain.NewValidationError("password", "must contain at least one uppercase letter")
	}
	if !lower {
		return domain.NewValidationError("password", "must contain at least one lowercase letter")
	}
	if !digit {
		return domain.NewValidationError("password", "must contain at least one digit")
	}
	return nil
}
