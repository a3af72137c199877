package handlers

import (
	"errors"
	"net/http"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/ardenlow/pulsegram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext extracts the authenticated user's ID from JWT
// claims stored by the auth middleware; zero means unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// isAdminFromContext reports whether the authenticated user carries the
// elevated role.
func isAdminFromContext(c echo.Context) bool {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return false
	}
	return claims.Role == "admin"
}

// serviceError maps service-layer sentinel errors to HTTP errors.
// Anything unrecognized surfaces as a generic internal error.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized")
	case errors.Is(err, services.ErrSelfFollow):
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
