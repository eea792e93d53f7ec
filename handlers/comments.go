package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) getComment(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	comment, err := h.posts.GetComment(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, comment)
}

func (h *Handler) updateComment(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	comment, err := h.posts.UpdateComment(c.Request().Context(), user.ID, id, req.Content)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, comment)
}

func (h *Handler) deleteComment(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.posts.DeleteComment(c.Request().Context(), user.ID, id); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, OKResponse{OK: true})
}
