package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/minisocial/services/posts"
)

func (h *Handler) createPost(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	ctx := c.Request().Context()
	post, err := h.posts.CreatePost(ctx, user.ID, posts.PostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, posts.PostDetail{Post: *post})
}

func (h *Handler) listPosts(c echo.Context) error {
	var q PageQuery
	if err := bindAndValidate(c, &q); err != nil {
		return h.fail(c, err)
	}

	list, err := h.posts.ListPosts(c.Request().Context(), q.Offset, q.Limit)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, PostsResponse{Posts: list})
}

func (h *Handler) getPost(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	post, err := h.posts.GetPost(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, post)
}

func (h *Handler) updatePost(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	post, err := h.posts.UpdatePost(c.Request().Context(), user.ID, id, posts.PostUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, post)
}

func (h *Handler) deletePost(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.posts.DeletePost(c.Request().Context(), user.ID, id); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, OKResponse{OK: true})
}

func (h *Handler) createComment(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}

	postID, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	comment, err := h.posts.CreateComment(c.Request().Context(), user.ID, postID, req.Content)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, comment)
}

func (h *Handler) listComments(c echo.Context) error {
	postID, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var q PageQuery
	if err := bindAndValidate(c, &q); err != nil {
		return h.fail(c, err)
	}

	comments, err := h.posts.ListComments(c.Request().Context(), postID, q.Offset, q.Limit)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, comments)
}

func (h *Handler) getPostComment(c echo.Context) error {
	postID, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}
	commentID, err := paramUUID(c, "comment_id")
	if err != nil {
		return h.fail(c, err)
	}

	comment, err := h.posts.GetPostComment(c.Request().Context(), postID, commentID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, comment)
}

func (h *Handler) like(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}

	postID, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	ctx := c.Request().Context()
	like, err := h.posts.Like(ctx, user.ID, postID)
	if err != nil {
		return h.fail(c, err)
	}

	post, err := h.posts.GetPost(ctx, postID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, LikeResponse{
		UserID:  like.UserID,
		PostID:  like.PostID,
		LikedAt: like.LikedAt,
		Post:    *post,
	})
}

func (h *Handler) unlike(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.fail(c, err)
	}

	postID, err := paramUUID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.posts.Unlike(c.Request().Context(), user.ID, postID); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, OKResponse{OK: true})
}
