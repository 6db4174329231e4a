package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stacta-app/backend/internal/repositories"
	"github.com/stacta-app/backend/internal/services"
)

// FollowHandler handles follow-related HTTP requests
type FollowHandler struct {
	viewerResolver
	followService *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(userRepo repositories.UserRepository, followService *services.FollowService) *FollowHandler {
	return &FollowHandler{
		viewerResolver: viewerResolver{userRepository: userRepo},
		followService:  followService,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:username/follow", h.Follow)
	g.DELETE("/users/:username/follow", h.Unfollow)
	g.GET("/users/:username/follow", h.IsFollowing)
	g.GET("/follow-requests", h.PendingRequests)
	g.POST("/follow-requests/:id/accept", h.AcceptRequest)
	g.POST("/follow-requests/:id/decline", h.DeclineRequest)
}

// Follow requests or establishes a follow onto the named user
func (h *FollowHandler) Follow(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.followService.Follow(c.Request().Context(), viewer, c.Param("username"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Unfollow removes the viewer's follow onto the named user
func (h *FollowHandler) Unfollow(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.followService.Unfollow(c.Request().Context(), viewer, c.Param("username")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// IsFollowing reports whether the viewer follows the named user
func (h *FollowHandler) IsFollowing(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	following, err := h.followService.IsFollowing(c.Request().Context(), viewer, c.Param("username"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"following": following})
}

// PendingRequests pages through follow requests awaiting the viewer's answer
func (h *FollowHandler) PendingRequests(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.followService.PendingRequests(c.Request().Context(), viewer, c.QueryParam("cursor"), queryLimit(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// AcceptRequest approves a pending follow request
func (h *FollowHandler) AcceptRequest(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.followService.AcceptRequest(c.Request().Context(), viewer, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeclineRequest drops a pending follow request
func (h *FollowHandler) DeclineRequest(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.followService.DeclineRequest(c.Request().Context(), viewer, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
