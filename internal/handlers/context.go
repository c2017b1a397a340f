package handlers

import (
	"errors"
	"net/http"

	"github.com/explorenow/backend/internal/stores"
	"github.com/labstack/echo/v4"
)

// currentUID returns the authenticated uid placed in the context by the auth
// middleware, or "" when the request is unauthenticated.
func currentUID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}

// storeError translates store sentinels into HTTP errors.
func storeError(err error) error {
	switch {
	case errors.Is(err, stores.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, stores.ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, "Username is already taken")
	case errors.Is(err, stores.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "Email is already registered")
	case errors.Is(err, stores.ErrRequestNotPending):
		return echo.NewHTTPError(http.StatusBadRequest, "Friend request is not pending")
	case errors.Is(err, stores.ErrBlocked):
		return echo.NewHTTPError(http.StatusForbidden, "Interaction is blocked between these users")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
