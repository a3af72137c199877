package handlers

import (
	"net/http"
	"strconv"

	"github.com/ardenlow/pulsegram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to post and comment likes
type LikeHandler struct {
	engagement *services.EngagementService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(engagement *services.EngagementService) *LikeHandler {
	return &LikeHandler{engagement: engagement}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like", h.TogglePostLike)
	g.POST("/comments/:id/like", h.ToggleCommentLike)
	g.GET("/posts/:post_id/like/status", h.GetPostLikeStatus)
}

// TogglePostLike likes the post if not yet liked, unlikes otherwise, and
// returns the resulting state with the live count.
func (h *LikeHandler) TogglePostLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	result, err := h.engagement.TogglePostLike(c.Request().Context(), currentUserID, postID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// ToggleCommentLike likes or unlikes a comment; deleted comments are not
// found.
func (h *LikeHandler) ToggleCommentLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	result, err := h.engagement.ToggleCommentLike(currentUserID, uint(commentID))
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// GetPostLikeStatus reports whether the authenticated user has liked the
// post.
func (h *LikeHandler) GetPostLikeStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	hasLiked, err := h.engagement.HasLikedPost(postID, currentUserID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "isLiked": hasLiked})
}
