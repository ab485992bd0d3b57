package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edhollow/pong-arena/models"
	"github.com/edhollow/pong-arena/services"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func authRouter(svc services.AuthService) *chi.Mux {
	h := NewAuthHandler(svc, testJWTSecret)
	router := chi.NewRouter()
	router.Post("/auth/register", h.Register)
	router.Post("/auth/login", h.Login)
	return router
}

func TestRegisterHandler(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(_ context.Context, input services.RegisterInput) (*models.User, error) {
			return &models.User{ID: 1, Nickname: input.Nickname, Email: input.Email}, nil
		},
	}
	router := authRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"nickname": "alice", "email": "alice@example.com", "password": "correct-horse"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice", user["nickname"])
	// Хеш пароля наружу не отдаётся.
	assert.NotContains(t, user, "password_hash")
}

func TestRegisterHandler_MissingFields(t *testing.T) {
	router := authRouter(&stubAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"nickname": "alice", "email": "", "password": "correct-horse"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, input services.LoginInput) (*models.User, error) {
			require.Equal(t, "alice@example.com", input.Email)
			return &models.User{ID: 7, Nickname: "alice", Email: input.Email}, nil
		},
	}
	router := authRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email": "alice@example.com", "password": "correct-horse"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	tokenString, ok := body["token"].(string)
	require.True(t, ok)

	// Токен подписан нашим секретом и несёт user_id.
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, float64(7), claims["user_id"])
	assert.Equal(t, "alice", claims["name"])
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, _ services.LoginInput) (*models.User, error) {
			return nil, services.ErrAuthInvalidCredentials
		},
	}
	router := authRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email": "alice@example.com", "password": "wrong"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
