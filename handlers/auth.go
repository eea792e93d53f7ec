package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/minisocial/middleware/device"
)

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Message: "Hello World!"})
}

func (h *Handler) login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	pair, err := h.auth.Login(c.Request().Context(), req.Username, req.Password, device.Label(c.Request()))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, pair)
}

// refresh rotates the presented refresh token. The device label is only
// compared when the client names itself explicitly.
func (h *Handler) refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	deviceName := c.Request().Header.Get(device.HeaderDeviceName)
	pair, err := h.auth.RefreshSession(c.Request().Context(), req.RefreshToken, deviceName)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, pair)
}

func (h *Handler) logout(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	if err := h.auth.EndSession(c.Request().Context(), req.RefreshToken); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, OKResponse{OK: true})
}

func (h *Handler) logoutAll(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.auth.EndAllSessions(c.Request().Context(), user.ID); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, OKResponse{OK: true})
}

func (h *Handler) sessions(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}

	rows, err := h.auth.ListSessions(c.Request().Context(), user.ID)
	if err != nil {
		return h.fail(c, err)
	}

	resp := SessionsResponse{Sessions: make([]SessionResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Sessions = append(resp.Sessions, newSessionResponse(row))
	}
	return c.JSON(http.StatusOK, resp)
}
