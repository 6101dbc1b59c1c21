package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadhub/leadhub/config"
	"github.com/leadhub/leadhub/pkg/auth"
	"github.com/leadhub/leadhub/pkg/models"
	"github.com/leadhub/leadhub/pkg/store/memory"
)

func setupAuthHandler(t *testing.T) (*AuthHandler, *memory.Store) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
	}
	mem := memory.New()
	return NewAuthHandler(mem, cfg, nil, nil), mem
}

func seedUser(t *testing.T, mem *memory.Store, username, password string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user, err := mem.CreateUser(context.Background(), models.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test User",
		PasswordHash: hash,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterCreatesUserAndToken(t *testing.T) {
	h, _ := setupAuthHandler(t)

	rec := doRequest(t, h.Register, http.MethodPost, "/api/auth/register",
		`{"username":"demo","email":"demo@example.com","password":"demo123","fullName":"Demo User"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "demo", resp.User.Username)

	claims, err := auth.ValidateJWT(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "demo", claims.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	h, _ := setupAuthHandler(t)

	rec := doRequest(t, h.Register, http.MethodPost, "/api/auth/register",
		`{"username":"demo","email":"demo@example.com","password":"demo123","fullName":"Demo User"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, h.Register, http.MethodPost, "/api/auth/register",
		`{"username":"demo","email":"other@example.com","password":"demo123","fullName":"Other User"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user_exists", resp.Error)
}

func TestRegisterValidation(t *testing.T) {
	h, _ := setupAuthHandler(t)

	rec := doRequest(t, h.Register, http.MethodPost, "/api/auth/register",
		`{"username":"demo"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginSuccess(t *testing.T) {
	h, mem := setupAuthHandler(t)
	seedUser(t, mem, "demo", "demo123")

	rec := doRequest(t, h.Login, http.MethodPost, "/api/auth/login",
		`{"username":"demo","password":"demo123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	h, mem := setupAuthHandler(t)
	seedUser(t, mem, "demo", "demo123")

	rec := doRequest(t, h.Login, http.MethodPost, "/api/auth/login",
		`{"username":"demo","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	h, _ := setupAuthHandler(t)

	rec := doRequest(t, h.Login, http.MethodPost, "/api/auth/login",
		`{"username":"nobody","password":"whatever"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsProfile(t *testing.T) {
	h, mem := setupAuthHandler(t)
	user := seedUser(t, mem, "demo", "demo123")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", user.ID)

	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SuccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestMeWithoutIdentity(t *testing.T) {
	h, _ := setupAuthHandler(t)

	rec := doRequest(t, h.Me, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
