package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stacta-app/backend/internal/apperrors"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stacta-app/backend/internal/repositories"
	"github.com/stacta-app/backend/internal/services"
)

// ReviewHandler handles review and engagement HTTP requests
type ReviewHandler struct {
	viewerResolver
	reviewService  *services.ReviewService
	commentService *services.CommentService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(userRepo repositories.UserRepository, reviewService *services.ReviewService, commentService *services.CommentService) *ReviewHandler {
	return &ReviewHandler{
		viewerResolver: viewerResolver{userRepository: userRepo},
		reviewService:  reviewService,
		commentService: commentService,
	}
}

// RegisterReviewRoutes registers review-related routes
func (h *ReviewHandler) RegisterReviewRoutes(g *echo.Group) {
	g.POST("/reviews", h.SubmitReview)
	g.DELETE("/reviews/:id", h.DeleteReview)
	g.GET("/reviews/:id", h.GetThread)
	g.POST("/reviews/:id/like", h.LikeReview)
	g.DELETE("/reviews/:id/like", h.UnlikeReview)
	g.POST("/reviews/:id/repost", h.RepostReview)
	g.DELETE("/reviews/:id/repost", h.UnrepostReview)
	g.GET("/reviews/:id/comments", h.ListComments)
	g.POST("/reviews/:id/comments", h.CreateComment)
	g.DELETE("/reviews/:id/comments/:commentId", h.DeleteComment)
	g.POST("/reviews/:id/comments/:commentId/report", h.ReportComment)
}

// SubmitReview creates a new review
func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var req models.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperrors.ErrInvalidReview)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, apperrors.ErrInvalidReview)
	}
	item, err := h.reviewService.Submit(c.Request().Context(), viewer, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// DeleteReview deletes the viewer's review and everything hanging off it
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.reviewService.Delete(c.Request().Context(), viewer, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetThread returns a review with its comments
func (h *ReviewHandler) GetThread(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.commentService.GetThread(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// LikeReview records the viewer's like on a review
func (h *ReviewHandler) LikeReview(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.reviewService.Like(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// UnlikeReview removes the viewer's like from a review
func (h *ReviewHandler) UnlikeReview(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.reviewService.Unlike(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// RepostReview reposts a review into the viewer's feed
func (h *ReviewHandler) RepostReview(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.reviewService.Repost(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// UnrepostReview removes the viewer's repost
func (h *ReviewHandler) UnrepostReview(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.reviewService.Unrepost(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListComments returns a review's comments
func (h *ReviewHandler) ListComments(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	comments, err := h.commentService.ListComments(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

// CreateComment adds a comment or reply to a review
func (h *ReviewHandler) CreateComment(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperrors.ErrInvalidComment)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, apperrors.ErrInvalidComment)
	}
	item, err := h.commentService.Create(c.Request().Context(), viewer, c.Param("id"), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// DeleteComment deletes the viewer's comment and its replies
func (h *ReviewHandler) DeleteComment(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.commentService.Delete(c.Request().Context(), viewer, c.Param("id"), c.Param("commentId")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ReportComment flags a comment for moderation
func (h *ReviewHandler) ReportComment(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var req models.ReportCommentRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperrors.ErrInvalidComment)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, apperrors.ErrInvalidComment)
	}
	if err := h.commentService.Report(c.Request().Context(), viewer, c.Param("id"), c.Param("commentId"), &req); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
