package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/middleware/ratelimit"
	"github.com/tech-arch1tect/minisocial/server"
	"github.com/tech-arch1tect/minisocial/services/auth"
	"github.com/tech-arch1tect/minisocial/services/jwt"
	"github.com/tech-arch1tect/minisocial/services/metrics"
	"github.com/tech-arch1tect/minisocial/services/password"
	"github.com/tech-arch1tect/minisocial/services/posts"
	"github.com/tech-arch1tect/minisocial/services/refreshtoken"
	"github.com/tech-arch1tect/minisocial/services/session"
	"github.com/tech-arch1tect/minisocial/services/users"
	"github.com/tech-arch1tect/minisocial/testutils"
	"gorm.io/gorm"
)

const testPassword = "correcthorse123"

type testApp struct {
	t       *testing.T
	e       *echo.Echo
	db      *gorm.DB
	users   *users.Service
	metrics *metrics.Service
}

func setupApp(t *testing.T, configure ...func(*config.Config)) *testApp {
	t.Helper()

	cfg := testutils.GetTestConfig()
	for _, fn := range configure {
		fn(cfg)
	}

	db := testutils.SetupTestDB(t, &users.User{}, &refreshtoken.RefreshToken{}, &posts.Post{}, &posts.Comment{}, &posts.Like{})

	hasher := password.NewHasher(cfg.Auth, nil)
	userService := users.NewService(db, hasher, nil)
	tokens := jwt.NewService(cfg.JWT, nil)
	refresh := refreshtoken.NewService(db, cfg.RefreshToken, nil)
	metricsService := metrics.NewService()

	authService, err := auth.NewService(userService, hasher, tokens, refresh, metricsService, nil)
	require.NoError(t, err)

	store := ratelimit.NewMemoryStore(time.Hour)
	t.Cleanup(func() { store.Close() })

	srv := server.New(cfg, nil, metricsService)
	h := New(authService, userService, posts.NewService(db, nil), session.NewResolver(tokens, userService, nil), metricsService, nil)
	h.Register(srv, ProvideDocument(cfg), LoginLimiter(cfg, store, nil))

	return &testApp{t: t, e: srv.Echo(), db: db, users: userService, metrics: metricsService}
}

type requestOption func(*http.Request)

func bearer(token string) requestOption {
	return func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
}

func header(name, value string) requestOption {
	return func(r *http.Request) {
		r.Header.Set(name, value)
	}
}

func (a *testApp) do(method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	a.t.Helper()

	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) postForm(path string, form url.Values, opts ...requestOption) *httptest.ResponseRecorder {
	a.t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[server.ErrorResponse](t, rec).Detail
}

func (a *testApp) register(username string) UserPublic {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/users/create", RegisterRequest{Username: username, Password: testPassword})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[UserPublic](a.t, rec)
}

func (a *testApp) login(username, deviceName string) auth.SessionPair {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/auth/token",
		LoginRequest{Username: username, Password: testPassword},
		header("X-Device-Name", deviceName))
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[auth.SessionPair](a.t, rec)
}

func (a *testApp) postRaw(path, body string) *httptest.ResponseRecorder {
	a.t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}
