package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto_pos_backend/internal/middleware"
	"resto_pos_backend/internal/services"
	"resto_pos_backend/pkg/utils"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	hash, err := services.HashPassword("s3cret")
	require.NoError(t, err)
	authService := services.NewAuthService("admin", hash, "")
	authHandler := NewAuthHandler(authService)

	engine := gin.New()
	engine.POST("/auth/login", authHandler.Login)
	protected := engine.Group("/protected")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("username")})
	})
	return engine
}

func TestLoginSuccess(t *testing.T) {
	engine := newAuthRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/auth/login", gin.H{"username": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "token")
}

func TestLoginWrongPassword(t *testing.T) {
	engine := newAuthRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/auth/login", gin.H{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	engine := newAuthRouter(t)

	rec := doJSON(t, engine, http.MethodGet, "/protected", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRouteAcceptsValidToken(t *testing.T) {
	engine := newAuthRouter(t)

	token, err := utils.GenerateSessionToken("admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin")
}
