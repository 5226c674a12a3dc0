package handlers

import (
	"Folio/internal/apperr"
	"Folio/internal/dto"
	"Folio/internal/middleware"
	"Folio/internal/models"
	"Folio/internal/services/mocks"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAuthApp(authService *mocks.MockAuthService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	handler := NewAuthHandler(authService)
	app.Post("/auth/login", handler.Login)
	app.Post("/auth/logout", middleware.RequireAuth(authService), handler.Logout)
	return app
}

func TestAuthHandler_Login(t *testing.T) {
	authService := new(mocks.MockAuthService)
	authService.On("Login", mock.Anything, "alice", "secret").
		Return(&models.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, testUser, nil)
	app := setupAuthApp(authService)

	resp, err := app.Test(authorized(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"alice","password":"secret"}`)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.JSONEq(t, `"tok"`, string(body["token"]))
	var user dto.UserGetDTO
	require.NoError(t, json.Unmarshal(body["user"], &user))
	assert.Equal(t, "alice", user.Username)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	authService := new(mocks.MockAuthService)
	authService.On("Login", mock.Anything, "alice", "wrong").Return(nil, nil, apperr.Unauthenticated("invalid username or password"))
	app := setupAuthApp(authService)

	resp, err := app.Test(authorized(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"alice","password":"wrong"}`)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(authorized(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"alice"}`)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandler_Logout(t *testing.T) {
	authService := new(mocks.MockAuthService)
	authService.On("Authenticate", mock.Anything, "tok").Return(testUser, nil)
	authService.On("Logout", mock.Anything, "tok").Return(nil)
	app := setupAuthApp(authService)

	resp, err := app.Test(authorized(http.MethodPost, "/auth/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	authService.AssertExpectations(t)
}
