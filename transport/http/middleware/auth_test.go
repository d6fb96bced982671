package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"salon/config"
	"salon/infras/jwt"
	jwtMocks "salon/infras/jwt/mocks"
	"salon/infras/otel/mocks"
	authMocks "salon/internal/domains/auth/mocks"
	roleMocks "salon/internal/domains/role/mocks"
	"salon/permissions"
	"salon/shared/constant"
	"salon/transport/http/middleware"
)

const (
	validToken   = "valid-token"
	revokedToken = "revoked-token"
	expiredToken = "expired-token"
)

type fixture struct {
	router     chi.Router
	authorizer *roleMocks.MockAuthorizer
	seen       *string
}

func newFixture(t *testing.T, apiKey string) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	jwtService := jwtMocks.NewMockJWT(ctrl)
	jwtService.EXPECT().ValidateToken(gomock.Any(), validToken, jwt.AccessToken).Return(&jwt.Claims{
		UserID:           "user-1",
		Email:            "jane@example.com",
		TokenID:          "token-1",
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour))},
	}, nil).AnyTimes()
	jwtService.EXPECT().ValidateToken(gomock.Any(), revokedToken, jwt.AccessToken).Return(&jwt.Claims{
		UserID:  "user-1",
		Email:   "jane@example.com",
		TokenID: "token-revoked",
	}, nil).AnyTimes()
	jwtService.EXPECT().ValidateToken(gomock.Any(), expiredToken, jwt.AccessToken).Return(nil, jwt.ErrExpiredToken).AnyTimes()

	revoker := authMocks.NewMockRevoker(ctrl)
	revoker.EXPECT().IsRevoked(gomock.Any(), "token-1").Return(false).AnyTimes()
	revoker.EXPECT().IsRevoked(gomock.Any(), "token-revoked").Return(true).AnyTimes()

	authorizer := roleMocks.NewMockAuthorizer(ctrl)

	data := &permissions.PermissionData{
		Endpoints: []permissions.Permission{
			{Path: "/v1/services", Method: http.MethodGet, Skip: true},
			{Path: "/v1/bookings", Method: http.MethodPost, Optional: true},
			{Path: "/v1/auth/me", Method: http.MethodGet},
			{Path: "/v1/admin/services", Method: http.MethodPost, Admin: true},
		},
	}

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	m := middleware.NewAuthRoleMiddleware(jwtService, revoker, authorizer, mocks.NewOtel(), data, cfg)

	seen := new(string)
	capture := func(w http.ResponseWriter, r *http.Request) {
		*seen, _ = r.Context().Value(constant.ContextKeyUserID).(string)

		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Route("/v1", func(group chi.Router) {
		group.Use(m.APIKey, m.Auth, m.RBAC)

		group.Route("/services", func(services chi.Router) {
			services.Get("/", capture)
		})
		group.Post("/bookings", capture)
		group.Get("/auth/me", capture)
		group.Get("/unlisted", capture)
		group.Post("/admin/services", capture)
	})

	return fixture{router: router, authorizer: authorizer, seen: seen}
}

func (f fixture) do(method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func bearer(token string) map[string]string {
	return map[string]string{constant.RequestHeaderAuthorization: "Bearer " + token}
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		headers  map[string]string
		wantCode int
		wantUser string
	}{
		{name: "public route without token", method: http.MethodGet, path: "/v1/services", wantCode: http.StatusOK},
		{name: "public route matched through nested router", method: http.MethodGet, path: "/v1/services/", wantCode: http.StatusOK},
		{name: "optional route anonymous", method: http.MethodPost, path: "/v1/bookings", wantCode: http.StatusOK},
		{name: "optional route attaches identity", method: http.MethodPost, path: "/v1/bookings", headers: bearer(validToken), wantCode: http.StatusOK, wantUser: "user-1"},
		{name: "optional route rejects bad token", method: http.MethodPost, path: "/v1/bookings", headers: bearer(expiredToken), wantCode: http.StatusUnauthorized},
		{name: "protected route without token", method: http.MethodGet, path: "/v1/auth/me", wantCode: http.StatusUnauthorized},
		{name: "protected route with token", method: http.MethodGet, path: "/v1/auth/me", headers: bearer(validToken), wantCode: http.StatusOK, wantUser: "user-1"},
		{name: "protected route with revoked token", method: http.MethodGet, path: "/v1/auth/me", headers: bearer(revokedToken), wantCode: http.StatusUnauthorized},
		{name: "malformed header", method: http.MethodGet, path: "/v1/auth/me", headers: map[string]string{constant.RequestHeaderAuthorization: "Token abc"}, wantCode: http.StatusUnauthorized},
		{name: "unlisted route requires a token", method: http.MethodGet, path: "/v1/unlisted", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")

			rec := f.do(tt.method, tt.path, tt.headers)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, *f.seen)
		})
	}
}

func TestAuth_RevokedMessage(t *testing.T) {
	f := newFixture(t, "")

	rec := f.do(http.MethodGet, "/v1/auth/me", bearer(revokedToken))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has been revoked")
}

func TestRBAC(t *testing.T) {
	t.Run("admin passes", func(t *testing.T) {
		f := newFixture(t, "")
		f.authorizer.EXPECT().IsAdmin(gomock.Any(), "user-1").Return(true, nil)

		rec := f.do(http.MethodPost, "/v1/admin/services", bearer(validToken))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non admin is denied", func(t *testing.T) {
		f := newFixture(t, "")
		f.authorizer.EXPECT().IsAdmin(gomock.Any(), "user-1").Return(false, nil)

		rec := f.do(http.MethodPost, "/v1/admin/services", bearer(validToken))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "access denied")
	})

	t.Run("capability check failure", func(t *testing.T) {
		f := newFixture(t, "")
		f.authorizer.EXPECT().IsAdmin(gomock.Any(), "user-1").Return(false, errors.New("connection refused"))

		rec := f.do(http.MethodPost, "/v1/admin/services", bearer(validToken))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("anonymous never reaches the check", func(t *testing.T) {
		f := newFixture(t, "")

		rec := f.do(http.MethodPost, "/v1/admin/services", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non admin route skips the check", func(t *testing.T) {
		f := newFixture(t, "")

		rec := f.do(http.MethodGet, "/v1/auth/me", bearer(validToken))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAPIKey(t *testing.T) {
	t.Run("matching key skips authentication", func(t *testing.T) {
		f := newFixture(t, "internal-key")

		rec := f.do(http.MethodPost, "/v1/admin/services", map[string]string{constant.RequestHeaderAPIKey: "internal-key"})

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong key is forbidden", func(t *testing.T) {
		f := newFixture(t, "internal-key")

		rec := f.do(http.MethodGet, "/v1/services", map[string]string{constant.RequestHeaderAPIKey: "guess"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("key is rejected when none is configured", func(t *testing.T) {
		f := newFixture(t, "")

		rec := f.do(http.MethodGet, "/v1/services", map[string]string{constant.RequestHeaderAPIKey: "anything"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
