package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stacta-app/backend/internal/repositories"
	"github.com/stacta-app/backend/internal/services"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	viewerResolver
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(userRepo repositories.UserRepository, notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		viewerResolver:      viewerResolver{userRepository: userRepo},
		notificationService: notificationService,
	}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.ListNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.DELETE("/notifications/:id", h.DeleteNotification)
	g.POST("/notifications/clear-read", h.ClearRead)
}

// ListNotifications returns one page and advances the seen watermark
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.notificationService.List(c.Request().Context(), viewer, c.QueryParam("cursor"), queryLimit(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetUnreadCount returns the number of notifications above the watermark
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.notificationService.UnreadCount(c.Request().Context(), viewer)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteNotification dismisses a single notification
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.notificationService.Delete(c.Request().Context(), viewer, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearRead dismisses everything at or below the viewer's watermark
func (h *NotificationHandler) ClearRead(c echo.Context) error {
	viewer, err := h.currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	cleared, err := h.notificationService.ClearRead(c.Request().Context(), viewer)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cleared": cleared})
}
