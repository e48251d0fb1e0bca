package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	tokens := NewTokenManager([]byte("handler-secret"), time.Hour, nil)
	service := NewService(newMemoryRepo(), NewHasher(4), tokens)
	handler := NewHandler(nil, service, HandlerConfig{
		CookieName: testCookieName,
		CookieTTL:  time.Hour,
	})
	guard := NewGuard(nil, tokens, testCookieName)

	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		handler.MountRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAuth)
			handler.MountProtected(r)
		})
	})
	return r
}

func uniqueEmail() string {
	return fmt.Sprintf("user-%s@example.com", uuid.NewString())
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestSignupEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	email := uniqueEmail()

	res := postJSON(t, router, "/api/auth/signup",
		fmt.Sprintf(`{"name":"Alice","email":%q,"password":"password123"}`, email))
	require.Equal(t, http.StatusCreated, res.Code)

	var body struct {
		Token string     `json:"token"`
		User  PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	require.Equal(t, "Alice", body.User.Name)
	require.Equal(t, email, body.User.Email)

	// A session cookie accompanies the JSON token.
	cookies := res.Result().Cookies()
	require.NotEmpty(t, cookies)
	require.Equal(t, testCookieName, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)

	// The raw response must not leak hash material.
	require.NotContains(t, res.Body.String(), "password")
	require.NotContains(t, res.Body.String(), "$2a$")
}

func TestSignupDuplicateEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	email := uniqueEmail()
	payload := fmt.Sprintf(`{"name":"Alice","email":%q,"password":"password123"}`, email)

	first := postJSON(t, router, "/api/auth/signup", payload)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, router, "/api/auth/signup", payload)
	require.Equal(t, http.StatusConflict, second.Code)
	require.Contains(t, second.Body.String(), "email already registered")
}

func TestSignupValidationEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	res := postJSON(t, router, "/api/auth/signup", `{"name":"A","email":"not-an-email","password":"123"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)

	var body struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Equal(t, "validation failed", body.Message)
	require.Contains(t, body.Fields, "Name")
	require.Contains(t, body.Fields, "Email")
	require.Contains(t, body.Fields, "Password")
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	email := uniqueEmail()

	res := postJSON(t, router, "/api/auth/signup",
		fmt.Sprintf(`{"name":"Alice","email":%q,"password":"password123"}`, email))
	require.Equal(t, http.StatusCreated, res.Code)

	wrongPassword := postJSON(t, router, "/api/auth/login",
		fmt.Sprintf(`{"email":%q,"password":"wrong-password"}`, email))
	unknownEmail := postJSON(t, router, "/api/auth/login",
		`{"email":"nobody@example.com","password":"password123"}`)

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestMeEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	email := uniqueEmail()

	signup := postJSON(t, router, "/api/auth/signup",
		fmt.Sprintf(`{"name":"Alice","email":%q,"password":"password123"}`, email))
	require.Equal(t, http.StatusCreated, signup.Code)

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(signup.Body.Bytes(), &session))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), email)

	// Without a token the same route rejects.
	anon := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	anonRes := httptest.NewRecorder()
	router.ServeHTTP(anonRes, anon)
	require.Equal(t, http.StatusUnauthorized, anonRes.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	res := postJSON(t, router, "/api/auth/logout", "")
	require.Equal(t, http.StatusNoContent, res.Code)

	cookies := res.Result().Cookies()
	require.NotEmpty(t, cookies)
	require.Equal(t, testCookieName, cookies[0].Name)
	require.Less(t, cookies[0].MaxAge, 0)
}
