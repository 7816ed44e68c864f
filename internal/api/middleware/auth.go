package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sentiserve/ml-api/internal/api/metrics"
	"github.com/sentiserve/ml-api/internal/core/domain"
	"github.com/sentiserve/ml-api/internal/core/ports"
)

// claimsKey is the context key under which validated claims are stored.
const claimsKey = "auth_claims"

// Auth validates the bearer token and injects the decoded claims into the
// request context. The validation failure kind feeds metrics and internal
// logs only; clients always see the same 401.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenValidationsTotal.WithLabelValues("malformed").Inc()
				return domain.ErrTokenMalformed
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenValidationsTotal.WithLabelValues("malformed").Inc()
				return domain.ErrTokenMalformed
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues(validationResult(err)).Inc()
				return err
			}
			metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom extracts the claims stored by Auth. Returns nil when the
// middleware did not run (unauthenticated route).
func ClaimsFrom(c echo.Context) *domain.Claims {
	claims, _ := c.Get(claimsKey).(*domain.Claims)
	return claims
}

// SetClaims stores claims on the context. Exposed for handler tests.
func SetClaims(c echo.Context, claims *domain.Claims) {
	c.Set(claimsKey, claims)
}

func validationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
