package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stacta-app/backend/internal/apperrors"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stacta-app/backend/internal/repositories"
	"github.com/stacta-app/backend/internal/services"
)

// ActivityHandler handles collection/wishlist activity HTTP requests
type ActivityHandler struct {
	viewerResolver
	activityService *services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(userRepo repositories.UserRepository, activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		viewerResolver:  viewerResolver{userRepository: userRepo},
		activityService: activityService,
	}
}

// RegisterActivityRoutes registers collection/wishlist activity routes
func (h *ActivityHandler) RegisterActivityRoutes(g *echo.Group) {
	g.POST("/collection-events", h.RecordCollectionItem)
	g.POST("/wishlist-events", h.RecordWishlistItem)
}

// RecordCollectionItem records a collection-add feed event
func (h *ActivityHandler) RecordCollectionItem(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var req models.RecordActivityRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperrors.ErrInvalidReview)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, apperrors.ErrInvalidReview)
	}
	item, err := h.activityService.RecordCollectionItemAdded(c.Request().Context(), viewer, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// RecordWishlistItem records a wishlist-add feed event
func (h *ActivityHandler) RecordWishlistItem(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var req models.RecordActivityRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperrors.ErrInvalidReview)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, apperrors.ErrInvalidReview)
	}
	item, err := h.activityService.RecordWishlistItemAdded(c.Request().Context(), viewer, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}
