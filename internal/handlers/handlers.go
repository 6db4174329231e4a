package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/stacta-app/backend/internal/apperrors"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stacta-app/backend/internal/repositories"
)

// viewerResolver loads the authenticated user's profile from the token
// subject set by the JWT middleware. A valid token whose subject has no
// profile row yet is NotOnboarded, not Unauthorized.
type viewerResolver struct {
	userRepository repositories.UserRepository
}

func (r viewerResolver) currentUser(c echo.Context) (*models.User, error) {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if ok && claims.Subject != "" {
		user, err := r.userRepository.GetByAuthSub(c.Request().Context(), claims.Subject)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}
	return nil, apperrors.ErrNotOnboarded
}

// writeError maps coded service errors to their HTTP status; anything else is
// a 500 with the message hidden from the client.
func writeError(c echo.Context, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, echo.Map{
			"code":    appErr.Code,
			"message": appErr.Message,
		})
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func queryLimit(c echo.Context) int {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return limit
}
