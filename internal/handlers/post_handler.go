package handlers

import (
	"net/http"

	"github.com/explorenow/backend/internal/models"
	"github.com/explorenow/backend/internal/stores"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post, like and comment HTTP requests
type PostHandler struct {
	postStore stores.PostStore
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postStore stores.PostStore) *PostHandler {
	return &PostHandler{postStore: postStore}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/users/:uid/posts", h.GetUserPosts)
	g.POST("/posts/:id/like", h.LikePost)
	g.GET("/posts/:id/comments", h.GetComments)
	g.POST("/posts/:id/comments", h.CreateComment)
	g.POST("/comments/:id/like", h.LikeComment)
}

// CreatePost creates a location-tagged photo post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postStore.CreatePost(c.Request().Context(), currentUID(c), &req)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post with its location
func (h *PostHandler) GetPost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := h.postStore.GetPost(ctx, c.Param("id"))
	if err != nil {
		return storeError(err)
	}
	location, err := h.postStore.GetLocation(ctx, post.LocationID)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"post": post, "location": location})
}

// GetUserPosts lists a user's posts, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	posts, err := h.postStore.PostsByUser(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// LikePost likes a post and notifies its author
func (h *PostHandler) LikePost(c echo.Context) error {
	if err := h.postStore.LikePost(c.Request().Context(), currentUID(c), c.Param("id")); err != nil {
		return storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetComments lists a post's comments, oldest first
func (h *PostHandler) GetComments(c echo.Context) error {
	comments, err := h.postStore.Comments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment comments on a post and notifies its author
func (h *PostHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.postStore.CommentPost(c.Request().Context(), currentUID(c), c.Param("id"), req.Text)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// LikeComment likes a comment and notifies its author
func (h *PostHandler) LikeComment(c echo.Context) error {
	if err := h.postStore.LikeComment(c.Request().Context(), currentUID(c), c.Param("id")); err != nil {
		return storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
