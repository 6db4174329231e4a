package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stacta-app/backend/internal/repositories"
	"github.com/stacta-app/backend/internal/services"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	viewerResolver
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(userRepo repositories.UserRepository, feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{
		viewerResolver: viewerResolver{userRepository: userRepo},
		feedService:    feedService,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/reviews/mine", h.GetMyReviews)
	g.GET("/users/:username/reviews", h.GetUserReviews)
}

// GetFeed returns one page of the viewer's feed
func (h *FeedHandler) GetFeed(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.feedService.GetFeed(
		c.Request().Context(),
		viewer,
		c.QueryParam("tab"),
		c.QueryParam("filter"),
		c.QueryParam("cursor"),
		queryLimit(c),
	)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetMyReviews returns one page of the viewer's own reviews
func (h *FeedHandler) GetMyReviews(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.feedService.GetMyReviews(c.Request().Context(), viewer, c.QueryParam("cursor"), queryLimit(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetUserReviews returns one page of another user's reviews
func (h *FeedHandler) GetUserReviews(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.feedService.GetUserReviews(
		c.Request().Context(),
		viewer,
		c.Param("username"),
		c.QueryParam("cursor"),
		queryLimit(c),
	)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
