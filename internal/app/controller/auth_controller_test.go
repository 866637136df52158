package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlastours/atlas-backend/internal/app/repository"
	"github.com/atlastours/atlas-backend/internal/app/service"
	"github.com/atlastours/atlas-backend/internal/db"
	"github.com/atlastours/atlas-backend/internal/middleware"
)

const testSecret = "test-jwt-secret-for-controller"

type recordingMailer struct {
	bodies []string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.bodies = append(m.bodies, body)
	return nil
}

func setupAuthControllerTest(t *testing.T) (*gin.Engine, *recordingMailer) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	mailer := &recordingMailer{}

	authService := service.NewAuthService(userRepo, testSecret, time.Hour)
	resetService := service.NewPasswordResetService(userRepo, mailer, testSecret, time.Hour, 10*time.Minute)

	ctrl := NewAuthController(authService, resetService, time.Hour, false)
	authMiddleware := middleware.NewAuthMiddleware(testSecret, userRepo)

	router := gin.New()
	v1 := router.Group("/api/v1")
	users := v1.Group("/users")
	users.POST("/signup", ctrl.Signup)
	users.POST("/login", ctrl.Login)
	users.POST("/forgotPassword", ctrl.ForgotPassword)
	users.GET("/me", authMiddleware.Authenticate(), ctrl.GetMe)
	users.PATCH("/updateMyPassword", authMiddleware.Authenticate(), ctrl.UpdatePassword)
	v1.PATCH("/resetPassword/:token", ctrl.ResetPassword)

	return router, mailer
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signupUser(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, router, "POST", "/api/v1/users/signup", gin.H{
		"name":            "Test User",
		"email":           email,
		"password":        "password123",
		"passwordConfirm": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func TestAuthController_Signup(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := doJSON(t, router, "POST", "/api/v1/users/signup", gin.H{
		"name":            "Test User",
		"email":           "signup@example.com",
		"password":        "password123",
		"passwordConfirm": "password123",
	}, "")

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, string(resp.User), "signup@example.com")
	// The password hash must never leak into a response
	assert.NotContains(t, strings.ToLower(w.Body.String()), "password")

	// Token is mirrored into an HttpOnly cookie
	var jwtCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "jwt" {
			jwtCookie = c
		}
	}
	require.NotNil(t, jwtCookie)
	assert.True(t, jwtCookie.HttpOnly)
	assert.False(t, jwtCookie.Secure)
	assert.Equal(t, resp.Token, jwtCookie.Value)
}

func TestAuthController_Signup_SecureCookieInProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(userRepo, testSecret, time.Hour)
	resetService := service.NewPasswordResetService(userRepo, &recordingMailer{}, testSecret, time.Hour, 10*time.Minute)

	ctrl := NewAuthController(authService, resetService, time.Hour, true)
	router := gin.New()
	router.POST("/api/v1/users/signup", ctrl.Signup)

	w := doJSON(t, router, "POST", "/api/v1/users/signup", gin.H{
		"name":            "Test User",
		"email":           "secure@example.com",
		"password":        "password123",
		"passwordConfirm": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var jwtCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "jwt" {
			jwtCookie = c
		}
	}
	require.NotNil(t, jwtCookie)
	assert.True(t, jwtCookie.Secure)
	assert.True(t, jwtCookie.HttpOnly)
}

func TestAuthController_Signup_PasswordMismatch(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := doJSON(t, router, "POST", "/api/v1/users/signup", gin.H{
		"name":            "Test User",
		"email":           "mismatch@example.com",
		"password":        "password123",
		"passwordConfirm": "different123",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_INPUT")
}

func TestAuthController_Signup_DuplicateEmail(t *testing.T) {
	router, _ := setupAuthControllerTest(t)
	signupUser(t, router, "dup@example.com")

	w := doJSON(t, router, "POST", "/api/v1/users/signup", gin.H{
		"name":            "Another",
		"email":           "dup@example.com",
		"password":        "password123",
		"passwordConfirm": "password123",
	}, "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "This email is already in use")
}

func TestAuthController_Login(t *testing.T) {
	router, _ := setupAuthControllerTest(t)
	signupUser(t, router, "login@example.com")

	t.Run("Valid credentials", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/users/login", gin.H{
			"email":    "login@example.com",
			"password": "password123",
		}, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"token"`)
	})

	t.Run("Wrong password", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/users/login", gin.H{
			"email":    "login@example.com",
			"password": "wrong-password",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Incorrect email or password")
	})

	t.Run("Unknown email", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/users/login", gin.H{
			"email":    "ghost@example.com",
			"password": "password123",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Incorrect email or password")
	})
}

func TestAuthController_GetMe(t *testing.T) {
	router, _ := setupAuthControllerTest(t)
	token := signupUser(t, router, "me@example.com")

	w := doJSON(t, router, "GET", "/api/v1/users/me", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "me@example.com")

	w = doJSON(t, router, "GET", "/api/v1/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_UpdatePassword_InvalidatesOldToken(t *testing.T) {
	router, _ := setupAuthControllerTest(t)
	oldToken := signupUser(t, router, "rotate@example.com")

	w := doJSON(t, router, "PATCH", "/api/v1/users/updateMyPassword", gin.H{
		"passwordCurrent": "password123",
		"password":        "newpassword1",
		"passwordConfirm": "newpassword1",
	}, oldToken)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// Old token stops working, the fresh one keeps working
	w = doJSON(t, router, "GET", "/api/v1/users/me", nil, oldToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_PASSWORD_CHANGED")

	w = doJSON(t, router, "GET", "/api/v1/users/me", nil, resp.Token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthController_ForgotPassword_UnknownEmail(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := doJSON(t, router, "POST", "/api/v1/users/forgotPassword", gin.H{
		"email": "nobody@example.com",
	}, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "There is no user with that email address")
}

func TestAuthController_ResetPasswordFlow(t *testing.T) {
	router, mailer := setupAuthControllerTest(t)
	oldToken := signupUser(t, router, "flow@example.com")

	w := doJSON(t, router, "POST", "/api/v1/users/forgotPassword", gin.H{
		"email": "flow@example.com",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Token sent to email!")
	require.Len(t, mailer.bodies, 1)

	// Extract the plaintext token from the mailed link
	body := mailer.bodies[0]
	idx := strings.Index(body, "/api/v1/resetPassword/")
	require.GreaterOrEqual(t, idx, 0)
	resetToken := strings.Fields(body[idx+len("/api/v1/resetPassword/"):])[0]

	w = doJSON(t, router, "PATCH", "/api/v1/resetPassword/"+resetToken, gin.H{
		"password":        "brandnewpass1",
		"passwordConfirm": "brandnewpass1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// Login works with the new password only
	w = doJSON(t, router, "POST", "/api/v1/users/login", gin.H{
		"email":    "flow@example.com",
		"password": "brandnewpass1",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/users/login", gin.H{
		"email":    "flow@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Pre-reset tokens are invalidated, the reset-issued one works
	w = doJSON(t, router, "GET", "/api/v1/users/me", nil, oldToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/users/me", nil, resp.Token)
	assert.Equal(t, http.StatusOK, w.Code)

	// The reset token is single use
	w = doJSON(t, router, "PATCH", "/api/v1/resetPassword/"+resetToken, gin.H{
		"password":        "anotherpass1",
		"passwordConfirm": "anotherpass1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Token is invalid or has expired")
}
