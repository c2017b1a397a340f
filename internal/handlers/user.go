package handlers

import (
	"net/http"

	"github.com/explorenow/backend/internal/models"
	"github.com/explorenow/backend/internal/stores"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile and settings HTTP requests
type UserHandler struct {
	userStore stores.UserStore
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userStore stores.UserStore) *UserHandler {
	return &UserHandler{userStore: userStore}
}

// RegisterProfileRoutes registers profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/me", h.GetMe)
	g.PUT("/me", h.UpdateProfile)
	g.GET("/me/settings", h.GetSettings)
	g.PUT("/me/settings", h.UpdateSettings)
	g.GET("/users/:uid", h.GetUser)
}

// GetMe returns the authenticated user's profile
func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.userStore.GetUser(c.Request().Context(), currentUID(c))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUser returns a user's public profile
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userStore.GetUser(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile merges profile changes into the authenticated user's record
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	uid := currentUID(c)
	if err := h.userStore.UpdateProfile(c.Request().Context(), uid, &req); err != nil {
		return storeError(err)
	}
	user, err := h.userStore.GetUser(c.Request().Context(), uid)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetSettings returns the authenticated user's settings
func (h *UserHandler) GetSettings(c echo.Context) error {
	settings, err := h.userStore.Settings(c.Request().Context(), currentUID(c))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings updates the authenticated user's settings
func (h *UserHandler) UpdateSettings(c echo.Context) error {
	var req models.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	uid := currentUID(c)
	if err := h.userStore.UpdateSettings(c.Request().Context(), uid, *req.Public); err != nil {
		return storeError(err)
	}
	settings, err := h.userStore.Settings(c.Request().Context(), uid)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, settings)
}
