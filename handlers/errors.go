package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/minisocial/services/autherr"
	"github.com/tech-arch1tect/minisocial/services/password"
	"github.com/tech-arch1tect/minisocial/services/posts"
	"github.com/tech-arch1tect/minisocial/services/users"
	"go.uber.org/zap"
)

var errInvalidID = errors.New("invalid id")

// fail maps a service error onto the HTTP reply. Authentication failures
// carry a WWW-Authenticate challenge and a generic message.
func (h *Handler) fail(c echo.Context, err error) error {
	var (
		he *echo.HTTPError
		ve validator.ValidationErrors
	)

	switch {
	case errors.As(err, &he):
		return he
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, validationMessage(ve))

	case errors.Is(err, autherr.ErrInactiveUser):
		return echo.NewHTTPError(http.StatusBadRequest, "Inactive user")
	case errors.Is(err, autherr.ErrInvalidCredentials):
		return unauthorized(c, "Incorrect username or password")
	case errors.Is(err, autherr.ErrInvalidOrExpiredToken):
		return unauthorized(c, "Invalid or expired refresh token")
	case errors.Is(err, autherr.ErrInvalidToken), errors.Is(err, autherr.ErrUnauthorized):
		return unauthorized(c, "Could not validate credentials")

	case errors.Is(err, users.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, posts.ErrPostNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	case errors.Is(err, posts.ErrCommentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	case errors.Is(err, users.ErrForbidden), errors.Is(err, posts.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, users.ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, "User already exist")

	case errors.Is(err, users.ErrInvalidInput),
		errors.Is(err, posts.ErrInvalidInput),
		errors.Is(err, password.ErrPasswordTooShort),
		errors.Is(err, password.ErrPasswordTooLong),
		errors.Is(err, errInvalidID):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, autherr.ErrStorageUnavailable):
		h.logger.Error("storage unavailable", zap.String("route", c.Path()), zap.Error(err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Service temporarily unavailable")

	default:
		h.logger.Error("request failed", zap.String("route", c.Path()), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
}

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}

func paramUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", errInvalidID, name)
	}
	return id, nil
}
