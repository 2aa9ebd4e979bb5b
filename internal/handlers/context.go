package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/tahmidul512/linkloop/backend/internal/models"
)

// getUserIDFromContext extracts the authenticated user's id from the
// JWT claims stored by the auth middleware. Returns 0 when missing.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// isAdminFromContext reports whether the JWT claims carry the admin
// flag.
func isAdminFromContext(c echo.Context) bool {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	return ok && claims != nil && claims.IsAdmin
}
