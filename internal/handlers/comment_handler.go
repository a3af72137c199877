package handlers

import (
	"net/http"
	"strconv"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/ardenlow/pulsegram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers the routes that require authentication
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments", h.CreateComment)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// RegisterPublicCommentRoutes registers the comment listing, readable
// without authentication.
func (h *CommentHandler) RegisterPublicCommentRoutes(g *echo.Group) {
	g.GET("/comments/post/:post_id", h.GetCommentsByPostID)
}

// CreateComment creates a new comment on a post, optionally as a reply
// to an existing comment.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.comments.Create(c.Request().Context(), currentUserID, &req)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPostID retrieves a page of threaded comments for a post
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID := c.Param("post_id")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.comments.ListByPost(c.Request().Context(), postID, getUserIDFromContext(c), page, limit)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// UpdateComment updates an existing comment; author only
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.comments.Edit(currentUserID, uint(commentID), req.Body)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, comment)
}

// DeleteComment soft-deletes a comment; owner or admin only
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	if err := h.comments.Delete(currentUserID, isAdminFromContext(c), uint(commentID)); err != nil {
		return serviceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
