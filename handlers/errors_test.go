package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/minisocial/services/autherr"
	"github.com/tech-arch1tect/minisocial/services/password"
	"github.com/tech-arch1tect/minisocial/services/posts"
	"github.com/tech-arch1tect/minisocial/services/users"
)

func TestFail(t *testing.T) {
	h := New(nil, nil, nil, nil, nil, nil)

	tests := []struct {
		name      string
		err       error
		status    int
		message   string
		challenge bool
	}{
		{"http error passes through", echo.NewHTTPError(http.StatusTeapot, "tea"), http.StatusTeapot, "tea", false},
		{"inactive", autherr.ErrInactiveUser, http.StatusBadRequest, "Inactive user", false},
		{"bad credentials", autherr.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect username or password", true},
		{"stale refresh", autherr.ErrInvalidOrExpiredToken, http.StatusUnauthorized, "Invalid or expired refresh token", true},
		{"bad token", fmt.Errorf("%w: %w", autherr.ErrUnauthorized, autherr.ErrInvalidToken), http.StatusUnauthorized, "Could not validate credentials", true},
		{"user missing", users.ErrNotFound, http.StatusNotFound, "User not found", false},
		{"post missing", posts.ErrPostNotFound, http.StatusNotFound, "Post not found", false},
		{"comment missing", posts.ErrCommentNotFound, http.StatusNotFound, "Comment not found", false},
		{"other user", users.ErrForbidden, http.StatusForbidden, users.ErrForbidden.Error(), false},
		{"other owner", posts.ErrForbidden, http.StatusForbidden, posts.ErrForbidden.Error(), false},
		{"taken", users.ErrUsernameTaken, http.StatusConflict, "User already exist", false},
		{"user input", fmt.Errorf("%w: username is required", users.ErrInvalidInput), http.StatusUnprocessableEntity, "invalid user data: username is required", false},
		{"short password", password.ErrPasswordTooShort, http.StatusUnprocessableEntity, "password is too short", false},
		{"bad id", fmt.Errorf("%w: id", errInvalidID), http.StatusUnprocessableEntity, "invalid id: id", false},
		{"storage", fmt.Errorf("failed to load post: %w", autherr.Storage(errors.New("disk I/O error"))), http.StatusServiceUnavailable, "Service temporarily unavailable", false},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			err := h.fail(c, tt.err)

			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tt.status, he.Code)
			assert.Equal(t, tt.message, he.Message)
			if tt.challenge {
				assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			} else {
				assert.Empty(t, rec.Header().Get(echo.HeaderWWWAuthenticate))
			}
		})
	}
}
