package handlers

import (
	"errors"
	"net/http"

	"github.com/explorenow/backend/internal/models"
	"github.com/explorenow/backend/internal/stores"
	"github.com/labstack/echo/v4"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	relationshipStore stores.RelationshipStore
	userStore         stores.UserStore
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(relationshipStore stores.RelationshipStore, userStore stores.UserStore) *FriendshipHandler {
	return &FriendshipHandler{
		relationshipStore: relationshipStore,
		userStore:         userStore,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendFriendRequest)
	g.GET("/friends/requests/pending", h.GetPendingFriendRequests)
	g.POST("/friends/request/:uid/accept", h.AcceptFriendRequest)
	g.DELETE("/friends/request/:uid", h.DeleteFriendRequest)
	g.GET("/friends", h.GetFriends)
	g.DELETE("/friends/:uid", h.RemoveFriend) // Unfriend
}

// SendFriendRequest handles sending a friend request
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	senderID := currentUID(c)

	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if senderID == req.ReceiverID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a friend request to yourself")
	}

	ctx := c.Request().Context()
	if _, err := h.userStore.GetUser(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Receiver user not found")
		}
		return storeError(err)
	}

	if err := h.relationshipStore.SendFriendRequest(ctx, senderID, req.ReceiverID); err != nil {
		return storeError(err)
	}

	request, err := h.relationshipStore.Request(ctx, senderID, req.ReceiverID)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusCreated, request)
}

// GetPendingFriendRequests retrieves pending friend requests for the authenticated user
func (h *FriendshipHandler) GetPendingFriendRequests(c echo.Context) error {
	requests, err := h.relationshipStore.PendingRequestsFor(c.Request().Context(), currentUID(c))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

// AcceptFriendRequest accepts the pending request sent by :uid to the
// authenticated user
func (h *FriendshipHandler) AcceptFriendRequest(c echo.Context) error {
	receiverID := currentUID(c)
	senderID := c.Param("uid")

	ctx := c.Request().Context()
	if err := h.relationshipStore.AcceptFriendRequest(ctx, receiverID, senderID); err != nil {
		return storeError(err)
	}

	request, err := h.relationshipStore.Request(ctx, senderID, receiverID)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, request)
}

// DeleteFriendRequest deletes a friend request between the authenticated user
// and :uid. By default the outbound request (current user as sender) is
// deleted; ?direction=incoming deletes the inbound one instead.
func (h *FriendshipHandler) DeleteFriendRequest(c echo.Context) error {
	uid := currentUID(c)
	otherID := c.Param("uid")

	senderID, receiverID := uid, otherID
	if c.QueryParam("direction") == "incoming" {
		senderID, receiverID = otherID, uid
	}

	if err := h.relationshipStore.DeleteFriendRequest(c.Request().Context(), senderID, receiverID); err != nil {
		return storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetFriends retrieves the list of friends for the authenticated user
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	friends, err := h.relationshipStore.Friends(c.Request().Context(), currentUID(c))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, friends)
}

// RemoveFriend handles unfriending
func (h *FriendshipHandler) RemoveFriend(c echo.Context) error {
	if err := h.relationshipStore.RemoveFriend(c.Request().Context(), currentUID(c), c.Param("uid")); err != nil {
		if errors.Is(err, stores.ErrMalformedFriendList) {
			return echo.NewHTTPError(http.StatusConflict, "Friend list is missing or malformed")
		}
		return storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
