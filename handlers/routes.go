package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/minisocial/middleware/device"
	"github.com/tech-arch1tect/minisocial/openapi"
	"github.com/tech-arch1tect/minisocial/server"
	"github.com/tech-arch1tect/minisocial/services/auth"
	"github.com/tech-arch1tect/minisocial/services/posts"
)

type router struct {
	srv *server.Server
	doc *openapi.Document
}

// add registers the handler and starts its documentation entry; callers
// finish with Build.
func (r router) add(method, path string, handler echo.HandlerFunc, m ...echo.MiddlewareFunc) *openapi.Route {
	r.srv.Add(method, path, handler, m...)
	return r.doc.Route(method, path)
}

// Register mounts every route on srv. loginLimiter may be nil.
func (h *Handler) Register(srv *server.Server, doc *openapi.Document, loginLimiter echo.MiddlewareFunc) {
	r := router{srv: srv, doc: doc}

	doc.Tag("auth", "Login and device sessions").
		Tag("users", "Accounts").
		Tag("posts", "Posts, comments and likes").
		Tag("comments", "Comments")

	var loginMiddleware []echo.MiddlewareFunc
	if loginLimiter != nil {
		loginMiddleware = append(loginMiddleware, loginLimiter)
	}

	errorBody := server.ErrorResponse{}

	r.add(http.MethodGet, "/", h.health).
		Summary("Health check").
		Response(http.StatusOK, HealthResponse{}).
		Build()

	r.add(http.MethodPost, "/auth/token", h.login, loginMiddleware...).
		Summary("Log in and receive an access and refresh token").
		Tags("auth").
		Header(device.HeaderDeviceName, "Device label; derived from User-Agent when absent").
		Body(LoginRequest{}, echo.MIMEApplicationForm).
		Response(http.StatusOK, auth.SessionPair{}).
		Response(http.StatusBadRequest, errorBody).
		Response(http.StatusUnauthorized, errorBody).
		Response(http.StatusTooManyRequests, errorBody).
		Build()

	r.add(http.MethodPost, "/auth/refresh", h.refresh).
		Summary("Exchange a refresh token for a new pair").
		Tags("auth").
		Body(RefreshRequest{}).
		Response(http.StatusOK, auth.SessionPair{}).
		Response(http.StatusUnauthorized, errorBody).
		Build()

	r.add(http.MethodPost, "/auth/logout", h.logout).
		Summary("Revoke a refresh token").
		Tags("auth").
		Body(RefreshRequest{}).
		Response(http.StatusOK, OKResponse{}).
		Response(http.StatusUnauthorized, errorBody).
		Build()

	r.add(http.MethodPost, "/auth/logout-all", h.logoutAll).
		Summary("Revoke every refresh token of the caller").
		Tags("auth").
		Secured().
		Response(http.StatusOK, OKResponse{}).
		Response(http.StatusUnauthorized, errorBody).
		Build()

	r.add(http.MethodGet, "/auth/sessions", h.sessions).
		Summary("List the caller's device sessions").
		Tags("auth").
		Secured().
		Response(http.StatusOK, SessionsResponse{}).
		Response(http.StatusUnauthorized, errorBody).
		Build()

	r.add(http.MethodPost, "/users/create", h.createUser).
		Summary("Register a user").
		Tags("users").
		Body(RegisterRequest{}).
		Response(http.StatusCreated, UserPublic{}).
		Response(http.StatusConflict, errorBody).
		Response(http.StatusUnprocessableEntity, errorBody).
		Build()

	r.add(http.MethodGet, "/users", h.listUsers).
		Summary("List users").
		Tags("users").
		QueryInt("offset", "Rows to skip", 0, float64(1<<31-1)).
		QueryInt("limit", "Page size", 1, 100).
		Response(http.StatusOK, UsersResponse{}).
		Build()

	r.add(http.MethodGet, "/users/me", h.me).
		Summary("Current user").
		Tags("users").
		Secured().
		Response(http.StatusOK, UserPublic{}).
		Response(http.StatusUnauthorized, errorBody).
		Build()

	r.add(http.MethodGet, "/users/:id", h.getUser).
		Summary("User with their posts").
		Tags("users").
		Response(http.StatusOK, UserPublic{}).
		Response(http.StatusNotFound, errorBody).
		Build()

	r.add(http.MethodPut, "/users/:id", h.updateUser).
		Summary("Update own account").
		Tags("users").
		Secured().
		Body(UpdateUserRequest{}).
		Response(http.StatusOK, UserPublic{}).
		Response(http.StatusForbidden, errorBody).
		Response(http.StatusConflict, errorBody).
		Build()

	r.add(http.MethodDelete, "/users/:id", h.deleteUser).
		Summary("Delete own account with everything it owns").
		Tags("users").
		Secured().
		Response(http.StatusOK, OKResponse{}).
		Response(http.StatusForbidden, errorBody).
		Build()

	r.add(http.MethodPost, "/posts/create", h.createPost).
		Summary("Create a post").
		Tags("posts").
		Secured().
		Body(CreatePostRequest{}).
		Response(http.StatusCreated, posts.PostDetail{}).
		Response(http.StatusUnprocessableEntity, errorBody).
		Build()

	r.add(http.MethodGet, "/posts", h.listPosts).
		Summary("List posts, newest first").
		Tags("posts").
		QueryInt("offset", "Rows to skip", 0, float64(1<<31-1)).
		QueryInt("limit", "Page size", 1, 100).
		Response(http.StatusOK, PostsResponse{}).
		Build()

	r.add(http.MethodGet, "/posts/:id", h.getPost).
		Summary("Post with like and comment counts").
		Tags("posts").
		Response(http.StatusOK, posts.PostDetail{}).
		Response(http.StatusNotFound, errorBody).
		Build()

	r.add(http.MethodPut, "/posts/:id", h.updatePost).
		Summary("Update own post").
		Tags("posts").
		Secured().
		Body(UpdatePostRequest{}).
		Response(http.StatusOK, posts.PostDetail{}).
		Response(http.StatusForbidden, errorBody).
		Build()

	r.add(http.MethodDelete, "/posts/:id", h.deletePost).
		Summary("Delete own post").
		Tags("posts").
		Secured().
		Response(http.StatusOK, OKResponse{}).
		Response(http.StatusForbidden, errorBody).
		Build()

	r.add(http.MethodPost, "/posts/:id/comment", h.createComment).
		Summary("Comment on a post").
		Tags("posts", "comments").
		Secured().
		Body(CommentRequest{}).
		Response(http.StatusCreated, posts.Comment{}).
		Response(http.StatusNotFound, errorBody).
		Build()

	r.add(http.MethodGet, "/posts/:id/comment", h.listComments).
		Summary("Comments of a post, oldest first").
		Tags("posts", "comments").
		QueryInt("offset", "Rows to skip", 0, float64(1<<31-1)).
		QueryInt("limit", "Page size", 1, 100).
		Response(http.StatusOK, []posts.Comment{}).
		Response(http.StatusNotFound, errorBody).
		Build()

	r.add(http.MethodGet, "/posts/:id/comment/:comment_id", h.getPostComment).
		Summary("One comment of a post").
		Tags("posts", "comments").
		Response(http.StatusOK, posts.Comment{}).
		Response(http.StatusNotFound, errorBody).
		Build()

	r.add(http.MethodPost, "/posts/:id/like", h.like).
		Summary("Like a post").
		Tags("posts").
		Secured().
		Response(http.StatusOK, LikeResponse{}).
		Response(http.StatusNotFound, errorBody).
		Build()

	r.add(http.MethodDelete, "/posts/:id/like", h.unlike).
		Summary("Remove a like").
		Tags("posts").
		Secured().
		Response(http.StatusOK, OKResponse{}).
		Response(http.StatusNotFound, errorBody).
		Build()

	r.add(http.MethodGet, "/comments/:id", h.getComment).
		Summary("Get a comment").
		Tags("comments").
		Response(http.StatusOK, posts.Comment{}).
		Response(http.StatusNotFound, errorBody).
		Build()

	r.add(http.MethodPut, "/comments/:id", h.updateComment).
		Summary("Edit own comment").
		Tags("comments").
		Secured().
		Body(CommentRequest{}).
		Response(http.StatusOK, posts.Comment{}).
		Response(http.StatusForbidden, errorBody).
		Build()

	r.add(http.MethodDelete, "/comments/:id", h.deleteComment).
		Summary("Delete own comment").
		Tags("comments").
		Secured().
		Response(http.StatusOK, OKResponse{}).
		Response(http.StatusForbidden, errorBody).
		Build()

	srv.Add(http.MethodGet, "/openapi.json", doc.JSONHandler())
	srv.Add(http.MethodGet, "/openapi.yaml", doc.YAMLHandler())
	srv.Add(http.MethodGet, "/docs", doc.DocsHandler("/openapi.json"))
}
