package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sentiserve/ml-api/internal/api/metrics"
	"github.com/sentiserve/ml-api/internal/core/domain"
	"github.com/sentiserve/ml-api/internal/core/policy"
)

// Require gates a route on the authorization table for the given action.
// Must run after Auth; missing claims are treated as Guest, so only public
// actions pass without a token.
func Require(action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := domain.RoleGuest
			if claims := ClaimsFrom(c); claims != nil {
				role = claims.Role
			}

			if !policy.IsAllowed(role, action) {
				metrics.AuthzDeniedTotal.WithLabelValues(string(action)).Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
