package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"user_service/internal/config"
	"user_service/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryApp(t *testing.T) *app {
	t.Helper()
	cfg := &config.Config{
		Store:   config.StoreMemory,
		GinMode: gin.TestMode,
		JWT:     config.JWTConfig{SecretKey: "test-secret", ExpirationHours: 1, Issuer: "user-service"},
		Validation: config.ValidationConfig{
			EmailPattern:     config.DefaultEmailPattern,
			PasswordPatterns: config.DefaultPasswordPatterns,
		},
	}
	a, err := newApp(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func call(t *testing.T, a *app, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestApp_RegisterLoginAndLookup(t *testing.T) {
	a := newMemoryApp(t)
	register := model.RegisterRequest{
		Name:     "userTest",
		Email:    "email@test.org",
		Password: "Password12",
		Phones:   []model.PhoneDTO{{Number: "123467", CityCode: "1", CountryCode: "57"}},
	}

	w := call(t, a, http.MethodPost, "/api/v1/users/register", register, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var registered model.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	assert.NotEqual(t, "Password12", registered.Password)
	assert.Empty(t, registered.Token)

	w = call(t, a, http.MethodPost, "/api/v1/users/register", register, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(t, a, http.MethodPost, "/api/v1/users/login", model.LoginRequest{Email: "email@test.org", Password: "invalidPassword"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(t, a, http.MethodPost, "/api/v1/users/login", model.LoginRequest{Email: "nobody@test.org", Password: "Password12"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, a, http.MethodPost, "/api/v1/users/login", model.LoginRequest{Email: "email@test.org", Password: "Password12"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var loggedIn model.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loggedIn))
	require.NotEmpty(t, loggedIn.Token)
	assert.True(t, loggedIn.IsActive)

	w = call(t, a, http.MethodGet, "/api/v1/users", nil, loggedIn.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var all []model.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	w = call(t, a, http.MethodGet, "/api/v1/users/"+registered.ID, nil, loggedIn.Token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, a, http.MethodGet, "/api/v1/users/49414c78-f032-4226-bb7c-b95240fc8355", nil, loggedIn.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApp_LookupAcceptsAnyUUIDSpelling(t *testing.T) {
	a := newMemoryApp(t)
	register := model.RegisterRequest{
		Name:     "userTest",
		Email:    "email@test.org",
		Password: "Password12",
		Phones:   []model.PhoneDTO{{Number: "123467", CityCode: "1", CountryCode: "57"}},
	}
	w := call(t, a, http.MethodPost, "/api/v1/users/register", register, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var registered model.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))

	w = call(t, a, http.MethodPost, "/api/v1/users/login", model.LoginRequest{Email: "email@test.org", Password: "Password12"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var loggedIn model.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loggedIn))

	for _, id := range []string{
		registered.ID,
		strings.ToUpper(registered.ID),
		strings.ReplaceAll(registered.ID, "-", ""),
		"urn:uuid:" + registered.ID,
	} {
		w = call(t, a, http.MethodGet, "/api/v1/users/"+id, nil, loggedIn.Token)
		require.Equal(t, http.StatusOK, w.Code, id)
		var got model.UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, registered.ID, got.ID, id)
	}
}

func TestApp_OpsRoutes(t *testing.T) {
	a := newMemoryApp(t)

	w := call(t, a, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, a, http.MethodGet, "/ready", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	call(t, a, http.MethodPost, "/api/v1/users/login", model.LoginRequest{Email: "nobody@test.org", Password: "x"}, "")
	w = call(t, a, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `user_service_logins_total{result="not_found"} 1`))
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
}
