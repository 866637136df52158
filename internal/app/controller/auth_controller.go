package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlastours/atlas-backend/internal/app/service"
	apperrors "github.com/atlastours/atlas-backend/internal/errors"
	"github.com/atlastours/atlas-backend/internal/middleware"
)

type AuthController struct {
	authService          service.AuthService
	passwordResetService service.PasswordResetService
	cookieMaxAge         time.Duration
	secureCookie         bool
}

func NewAuthController(authService service.AuthService, passwordResetService service.PasswordResetService, cookieMaxAge time.Duration, secureCookie bool) *AuthController {
	return &AuthController{
		authService:          authService,
		passwordResetService: passwordResetService,
		cookieMaxAge:         cookieMaxAge,
		secureCookie:         secureCookie,
	}
}

type SignupRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

// setAuthCookie mirrors the token into an HttpOnly cookie so browser clients
// do not have to store it themselves.
func (ctrl *AuthController) setAuthCookie(c *gin.Context, token string) {
	c.SetCookie("jwt", token, int(ctrl.cookieMaxAge.Seconds()), "/", "", ctrl.secureCookie, true)
}

// Signup handles user registration
// POST /api/v1/users/signup
func (ctrl *AuthController) Signup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid signup request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	user, token, err := ctrl.authService.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			log.Warn("Signup failed: email already exists", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "This email is already in use")
			return
		}
		log.Error("Signup failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, err, "signup")
		return
	}

	ctrl.setAuthCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// Login handles user login
// POST /api/v1/users/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please provide email and password")
		return
	}

	user, token, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Incorrect email or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, err, "login")
		return
	}

	ctrl.setAuthCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"token":   token,
		"user":    user,
	})
}

// GetMe returns the authenticated user's profile
// GET /api/v1/users/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apperrors.Unauthorized(c, "You are not logged in. Please log in to get access")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdatePassword changes the password of the authenticated user and issues a
// fresh token, since the old one is invalidated by the change
// PATCH /api/v1/users/updateMyPassword
func (ctrl *AuthController) UpdatePassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "You are not logged in. Please log in to get access")
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid password update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	user, token, err := ctrl.authService.UpdatePassword(userID, req.PasswordCurrent, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			log.Warn("Password update failed: wrong current password", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Your current password is wrong")
			return
		}
		log.Error("Password update failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, err, "update password")
		return
	}

	ctrl.setAuthCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated successfully",
		"token":   token,
		"user":    user,
	})
}

// ForgotPassword sends a password reset link to the given email
// POST /api/v1/users/forgotPassword
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid forgot password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please provide a valid email address")
		return
	}

	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}

	err := ctrl.passwordResetService.RequestReset(req.Email, scheme, c.Request.Host)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "There is no user with that email address")
			return
		}
		if errors.Is(err, service.ErrResetDispatchFailed) {
			log.Error("Reset email dispatch failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.AuthResetDispatchFailed, "There was an error sending the email. Try again later!")
			return
		}
		log.Error("Forgot password failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, err, "forgot password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Token sent to email!",
	})
}

// ResetPassword consumes a reset token and sets a new password
// PATCH /api/v1/resetPassword/:token
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	resetToken := c.Param("token")
	if resetToken == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Reset token is required")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reset password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	user, token, err := ctrl.passwordResetService.ResetPassword(resetToken, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			log.Warn("Reset password failed: invalid or expired token", nil)
			apperrors.BadRequest(c, apperrors.AuthResetTokenInvalid, "Token is invalid or has expired")
			return
		}
		log.Error("Reset password failed", err, nil)
		apperrors.ParseAndRespond(c, err, "reset password")
		return
	}

	ctrl.setAuthCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successfully",
		"token":   token,
		"user":    user,
	})
}
