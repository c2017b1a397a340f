package handlers

import (
	"net/http"

	"github.com/explorenow/backend/internal/stores"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationStore stores.NotificationStore
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationStore stores.NotificationStore) *NotificationHandler {
	return &NotificationHandler{notificationStore: notificationStore}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread", h.GetUnread)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetNotifications returns the authenticated user's notifications, newest
// first, with resolved messages and post previews attached.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	uid := currentUID(c)

	notifications, err := h.notificationStore.ListForReceiver(ctx, uid)
	if err != nil {
		return storeError(err)
	}
	enriched := h.notificationStore.Enrich(ctx, notifications)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"notifications": enriched},
	})
}

// GetUnread reports whether any notification is unread
func (h *NotificationHandler) GetUnread(c echo.Context) error {
	hasUnread, err := h.notificationStore.HasUnread(c.Request().Context(), currentUID(c))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"hasUnread": hasUnread}})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	if err := h.notificationStore.MarkAllRead(c.Request().Context(), currentUID(c)); err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
