package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"useraccounts/internal/auth"
	"useraccounts/internal/config"
	"useraccounts/internal/handler"
	"useraccounts/internal/logger"
	"useraccounts/internal/model"
	"useraccounts/internal/service"
)

// recordingService answers every lookup with an empty result and records
// which operation served the request.
type recordingService struct {
	called string
	arg    string
}

func (s *recordingService) Create(_ context.Context, in service.CreateUserInput) (string, *model.User, error) {
	s.called = "Create"
	return "token", &model.User{ID: uuid.New(), Email: in.Email, UserName: in.UserName}, nil
}

func (s *recordingService) Authenticate(_ context.Context, email, _ string) (string, *model.User, error) {
	s.called, s.arg = "Authenticate", email
	return "token", &model.User{Email: email}, nil
}

func (s *recordingService) GetByEmail(_ context.Context, email string) ([]model.User, error) {
	s.called, s.arg = "GetByEmail", email
	return []model.User{}, nil
}

func (s *recordingService) GetByUserName(_ context.Context, userName string) ([]model.User, error) {
	s.called, s.arg = "GetByUserName", userName
	return []model.User{}, nil
}

func (s *recordingService) GetByID(_ context.Context, id string) ([]model.User, error) {
	s.called, s.arg = "GetByID", id
	return []model.User{}, nil
}

func (s *recordingService) List(context.Context, int, int) ([]model.User, error) {
	s.called = "List"
	return []model.User{}, nil
}

func (s *recordingService) Search(_ context.Context, query string, _, _ int) ([]model.User, error) {
	s.called, s.arg = "Search", query
	return []model.User{}, nil
}

func (s *recordingService) Update(_ context.Context, email string, _ map[string]any) (*model.User, error) {
	s.called, s.arg = "Update", email
	return &model.User{Email: email}, nil
}

func (s *recordingService) Delete(_ context.Context, email string) (uuid.UUID, error) {
	s.called, s.arg = "Delete", email
	return uuid.New(), nil
}

func newTestServer(t *testing.T) (*echo.Echo, *recordingService, *auth.JWTService) {
	t.Helper()
	svc := &recordingService{}
	jwtService := auth.NewJWTService("router-test-secret", 0)
	cfg := &config.Config{FrontendOrigin: "http://localhost:5173"}

	e := echo.New()
	Register(e, cfg, handler.NewUserHandler(svc, logger.NewNop()), jwtService, logger.NewNop())
	return e, svc, jwtService
}

func serve(e *echo.Echo, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Dispatch(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantCall   string
		wantArg    string
	}{
		{name: "list", method: http.MethodGet, target: "/api/v1/user", wantStatus: http.StatusOK, wantCall: "List"},
		{name: "list trailing slash", method: http.MethodGet, target: "/api/v1/user/", wantStatus: http.StatusOK, wantCall: "List"},
		{name: "search is not an id", method: http.MethodGet, target: "/api/v1/user/search?query=jo", wantStatus: http.StatusOK, wantCall: "Search", wantArg: "jo"},
		{name: "id", method: http.MethodGet, target: "/api/v1/user/abc", wantStatus: http.StatusOK, wantCall: "GetByID", wantArg: "abc"},
		{name: "by email", method: http.MethodPost, target: "/api/v1/user/email", body: `{"email":"a@b.c"}`, wantStatus: http.StatusOK, wantCall: "GetByEmail", wantArg: "a@b.c"},
		{name: "by user name", method: http.MethodPost, target: "/api/v1/user/user_name", body: `{"user_name":"ada"}`, wantStatus: http.StatusOK, wantCall: "GetByUserName", wantArg: "ada"},
		{name: "create", method: http.MethodPost, target: "/api/v1/user", body: `{"user_name":"ada","email":"a@b.c","password":"pw"}`, wantStatus: http.StatusCreated, wantCall: "Create"},
		{name: "login", method: http.MethodPost, target: "/api/v1/user/login", body: `{"email":"a@b.c","password":"pw"}`, wantStatus: http.StatusOK, wantCall: "Authenticate", wantArg: "a@b.c"},
		{name: "update", method: http.MethodPut, target: "/api/v1/user", body: `{"email":"a@b.c","update":{"bio":"x"}}`, wantStatus: http.StatusCreated, wantCall: "Update", wantArg: "a@b.c"},
		{name: "delete", method: http.MethodDelete, target: "/api/v1/user", body: `{"email":"a@b.c"}`, wantStatus: http.StatusCreated, wantCall: "Delete", wantArg: "a@b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, svc, _ := newTestServer(t)

			rec := serve(e, tt.method, tt.target, tt.body, nil)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCall, svc.called)
			assert.Equal(t, tt.wantArg, svc.arg)
		})
	}
}

func TestRoutes_Me(t *testing.T) {
	e, svc, jwtService := newTestServer(t)

	t.Run("without token", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/api/v1/user/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
	})

	t.Run("forged token", func(t *testing.T) {
		other := auth.NewJWTService("another-secret", 0)
		token, err := other.IssueToken("ada@example.com")
		require.NoError(t, err)

		rec := serve(e, http.MethodGet, "/api/v1/user/me", "", http.Header{echo.HeaderAuthorization: {"Bearer " + token}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := jwtService.IssueToken("ada@example.com")
		require.NoError(t, err)

		rec := serve(e, http.MethodGet, "/api/v1/user/me", "", http.Header{echo.HeaderAuthorization: {"Bearer " + token}})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "GetByEmail", svc.called)
		assert.Equal(t, "ada@example.com", svc.arg)
	})
}

func TestRoutes_Health(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := serve(e, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = serve(e, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_CORS(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := serve(e, http.MethodOptions, "/api/v1/user", "", http.Header{
		echo.HeaderOrigin:                     {"http://localhost:5173"},
		echo.HeaderAccessControlRequestMethod: {http.MethodPost},
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}
