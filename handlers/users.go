package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/minisocial/services/users"
)

func (h *Handler) createUser(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	user, err := h.users.Register(c.Request().Context(), users.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		IsActive: req.IsActive,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, newUserPublic(user))
}

func (h *Handler) listUsers(c echo.Context) error {
	var q PageQuery
	if err := bindAndValidate(c, &q); err != nil {
		return h.fail(c, err)
	}

	list, err := h.users.List(c.Request().Context(), q.Offset, q.Limit)
	if err != nil {
		return h.fail(c, err)
	}

	resp := UsersResponse{Users: make([]UserPublic, 0, len(list))}
	for i := range list {
		resp.Users = append(resp.Users, newUserPublic(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) me(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, newUserPublic(user))
}

// getUser returns the user together with their posts.
func (h *Handler) getUser(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	ctx := c.Request().Context()
	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}

	owned, err := h.posts.ListByOwner(ctx, user.ID)
	if err != nil {
		return h.fail(c, err)
	}

	resp := newUserPublic(user)
	resp.Posts = owned
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) updateUser(c echo.Context) error {
	actor, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	user, err := h.users.UpdateSelf(c.Request().Context(), actor.ID, id, users.UpdateInput{
		Username: req.Username,
		FullName: req.FullName,
		IsActive: req.IsActive,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, newUserPublic(user))
}

func (h *Handler) deleteUser(c echo.Context) error {
	actor, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.users.DeleteSelf(c.Request().Context(), actor.ID, id); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, OKResponse{OK: true})
}
