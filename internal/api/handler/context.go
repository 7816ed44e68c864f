package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sentiserve/ml-api/internal/api/middleware"
	"github.com/sentiserve/ml-api/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware and performs
// a fast-fail check before any service call: a protected handler running
// without claims means the middleware chain is miswired.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
