package handlers

import (
	"net/http"

	"github.com/explorenow/backend/internal/models"
	"github.com/explorenow/backend/internal/stores"
	"github.com/labstack/echo/v4"
)

// BlockHandler handles block-list HTTP requests
type BlockHandler struct {
	blockStore stores.BlockStore
}

// NewBlockHandler creates a new BlockHandler
func NewBlockHandler(blockStore stores.BlockStore) *BlockHandler {
	return &BlockHandler{blockStore: blockStore}
}

// RegisterBlockRoutes registers block-related routes
func (h *BlockHandler) RegisterBlockRoutes(g *echo.Group) {
	g.GET("/blocks", h.GetBlockList)
	g.POST("/blocks", h.BlockUser)
	g.DELETE("/blocks/:uid", h.UnblockUser)
}

// GetBlockList returns both directions of the authenticated user's block list
func (h *BlockHandler) GetBlockList(c echo.Context) error {
	list, err := h.blockStore.BlockList(c.Request().Context(), currentUID(c))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// BlockUser blocks another user. Blocking an already-blocked user succeeds.
func (h *BlockHandler) BlockUser(c echo.Context) error {
	var req models.BlockUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	uid := currentUID(c)
	if uid == req.UserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot block yourself")
	}
	if err := h.blockStore.Block(c.Request().Context(), uid, req.UserID); err != nil {
		return storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UnblockUser removes a block. Unblocking a non-blocked user succeeds.
func (h *BlockHandler) UnblockUser(c echo.Context) error {
	if err := h.blockStore.Unblock(c.Request().Context(), currentUID(c), c.Param("uid")); err != nil {
		return storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
