// Package jwt reads bearer credentials off incoming requests.
package jwt

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/minisocial/services/autherr"
)

const bearerScheme = "Bearer"

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively. A missing header, another
// scheme or an empty token all yield autherr.ErrUnauthorized.
func ExtractBearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", autherr.ErrUnauthorized
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", autherr.ErrUnauthorized
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", autherr.ErrUnauthorized
	}

	return token, nil
}
