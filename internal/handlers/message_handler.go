package handlers

import (
	"net/http"

	"github.com/explorenow/backend/internal/models"
	"github.com/explorenow/backend/internal/stores"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles direct-message HTTP requests
type MessageHandler struct {
	messageStore stores.MessageStore
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageStore stores.MessageStore) *MessageHandler {
	return &MessageHandler{messageStore: messageStore}
}

// RegisterMessageRoutes registers messaging routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages", h.SendMessage)
	g.GET("/messages/:uid", h.GetConversation)
}

// SendMessage sends a direct message; delivery is refused between blocked users
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message, err := h.messageStore.Send(c.Request().Context(), currentUID(c), req.ReceiverID, req.Text)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusCreated, message)
}

// GetConversation returns the message thread with another user in timestamp order
func (h *MessageHandler) GetConversation(c echo.Context) error {
	messages, err := h.messageStore.Conversation(c.Request().Context(), currentUID(c), c.Param("uid"))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, messages)
}
