package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlastours/atlas-backend/internal/app/model"
	"github.com/atlastours/atlas-backend/internal/app/repository"
	"github.com/atlastours/atlas-backend/internal/db"
	"github.com/atlastours/atlas-backend/pkg/util"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

func setupMiddlewareTest(t *testing.T) (*gin.Engine, *AuthMiddleware, repository.UserRepository) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	router := gin.New()
	authMiddleware := NewAuthMiddleware(testJWTSecret, userRepo)
	return router, authMiddleware, userRepo
}

func createTestUser(t *testing.T, userRepo repository.UserRepository, role model.UserRole) *model.User {
	t.Helper()
	hash, err := util.HashPassword("password123")
	require.NoError(t, err)

	user := &model.User{
		Name:         "Test User",
		Email:        string(role) + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, userRepo.Create(user))
	return user
}

func generateTestToken(t *testing.T, userID uint) string {
	token, err := util.GenerateToken(userID, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func protectedRoute(router *gin.Engine, authMiddleware *AuthMiddleware, extra ...gin.HandlerFunc) {
	handlers := append([]gin.HandlerFunc{authMiddleware.Authenticate()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	router.GET("/test", handlers...)
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware, userRepo := setupMiddlewareTest(t)
	user := createTestUser(t, userRepo, model.RoleUser)
	token := generateTestToken(t, user.ID)

	protectedRoute(router, authMiddleware)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":1`)
}

func TestAuthMiddleware_Authenticate_NoToken(t *testing.T) {
	router, authMiddleware, _ := setupMiddlewareTest(t)

	protectedRoute(router, authMiddleware)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "You are not logged in")
}

func TestAuthMiddleware_Authenticate_InvalidFormat(t *testing.T) {
	router, authMiddleware, userRepo := setupMiddlewareTest(t)
	user := createTestUser(t, userRepo, model.RoleUser)
	token := generateTestToken(t, user.ID)

	protectedRoute(router, authMiddleware)

	tests := []struct {
		name   string
		header string
	}{
		{"Missing Bearer prefix", token},
		{"Wrong prefix", "Basic " + token},
		{"Too many parts", "Bearer " + token + " extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "AUTH_TOKEN_INVALID")
		})
	}
}

func TestAuthMiddleware_Authenticate_InvalidToken(t *testing.T) {
	router, authMiddleware, _ := setupMiddlewareTest(t)

	protectedRoute(router, authMiddleware)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_INVALID")
}

func TestAuthMiddleware_Authenticate_ExpiredToken(t *testing.T) {
	router, authMiddleware, userRepo := setupMiddlewareTest(t)
	user := createTestUser(t, userRepo, model.RoleUser)

	expired, err := util.GenerateToken(user.ID, testJWTSecret, -time.Minute)
	require.NoError(t, err)

	protectedRoute(router, authMiddleware)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_EXPIRED")
}

func TestAuthMiddleware_Authenticate_UserGone(t *testing.T) {
	router, authMiddleware, userRepo := setupMiddlewareTest(t)
	user := createTestUser(t, userRepo, model.RoleUser)
	token := generateTestToken(t, user.ID)

	require.NoError(t, userRepo.Delete(user.ID))

	protectedRoute(router, authMiddleware)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_USER_GONE")
}

func TestAuthMiddleware_Authenticate_StalePassword(t *testing.T) {
	router, authMiddleware, userRepo := setupMiddlewareTest(t)
	user := createTestUser(t, userRepo, model.RoleUser)
	token := generateTestToken(t, user.ID)

	// Change the password after the token was issued
	changedAt := time.Now().Add(time.Minute)
	user.PasswordChangedAt = &changedAt
	require.NoError(t, userRepo.Update(user))

	protectedRoute(router, authMiddleware)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_PASSWORD_CHANGED")
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	tests := []struct {
		name       string
		userRole   model.UserRole
		required   []string
		wantStatus int
	}{
		{"Admin passes admin gate", model.RoleAdmin, []string{"admin"}, http.StatusOK},
		{"Guide passes multi-role gate", model.RoleGuide, []string{"admin", "guide"}, http.StatusOK},
		{"User blocked from admin gate", model.RoleUser, []string{"admin"}, http.StatusForbidden},
		{"Guide blocked from admin gate", model.RoleGuide, []string{"admin"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware, userRepo := setupMiddlewareTest(t)
			user := createTestUser(t, userRepo, tt.userRole)
			token := generateTestToken(t, user.ID)

			protectedRoute(router, authMiddleware, authMiddleware.RequireRole(tt.required...))

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "You do not have permission")
			}
		})
	}
}
