package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/atlastours/atlas-backend/internal/app/model"
	"github.com/atlastours/atlas-backend/internal/app/repository"
	"github.com/atlastours/atlas-backend/pkg/logger"
	"github.com/atlastours/atlas-backend/pkg/mailer"
	"github.com/atlastours/atlas-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidResetToken   = errors.New("reset token is invalid or has expired")
	ErrResetDispatchFailed = errors.New("failed to send the password reset email")
)

type PasswordResetService interface {
	RequestReset(email, scheme, host string) error
	ResetPassword(token, newPassword string) (*model.User, string, error)
}

type passwordResetService struct {
	userRepo    repository.UserRepository
	mailer      mailer.Mailer
	jwtSecret   string
	tokenExpiry time.Duration
	resetTTL    time.Duration
}

func NewPasswordResetService(userRepo repository.UserRepository, m mailer.Mailer, jwtSecret string, tokenExpiry, resetTTL time.Duration) PasswordResetService {
	return &passwordResetService{
		userRepo:    userRepo,
		mailer:      m,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
		resetTTL:    resetTTL,
	}
}

func (s *passwordResetService) RequestReset(email, scheme, host string) error {
	logger.Info("Password reset requested", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for unknown email", map[string]interface{}{
				"email": email,
			})
			return ErrUserNotFound
		}
		return err
	}

	plaintext, hash, err := util.GenerateResetToken()
	if err != nil {
		logger.Error("Failed to generate reset token", err, nil)
		return err
	}

	expiresAt := time.Now().Add(s.resetTTL)
	user.ResetTokenHash = &hash
	user.ResetTokenExpiresAt = &expiresAt

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to store reset token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	resetURL := fmt.Sprintf("%s://%s/api/v1/resetPassword/%s", scheme, host, plaintext)
	body := fmt.Sprintf(
		"Forgot your password? Submit a PATCH request with your new password and passwordConfirm to: %s\nIf you didn't forget your password, please ignore this email!",
		resetURL,
	)

	if err := s.mailer.Send(user.Email, "Your password reset token (valid for 10 min)", body); err != nil {
		logger.Error("Failed to send reset email", err, map[string]interface{}{
			"user_id": user.ID,
		})

		// Token cannot reach the user, so invalidate it rather than leave
		// a dangling credential on the row.
		user.ResetTokenHash = nil
		user.ResetTokenExpiresAt = nil
		if clearErr := s.userRepo.Update(user); clearErr != nil {
			logger.Error("Failed to clear reset token after mail failure", clearErr, map[string]interface{}{
				"user_id": user.ID,
			})
		}
		return ErrResetDispatchFailed
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"user_id": user.ID,
	})

	return nil
}

func (s *passwordResetService) ResetPassword(token, newPassword string) (*model.User, string, error) {
	hash := util.HashResetToken(token)

	user, err := s.userRepo.FindByResetTokenHash(hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset with invalid or expired token", nil)
			return nil, "", ErrInvalidResetToken
		}
		return nil, "", err
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		return nil, "", err
	}

	changedAt := time.Now().Add(-time.Second)
	user.PasswordHash = hashedPassword
	user.PasswordChangedAt = &changedAt
	user.ResetTokenHash = nil
	user.ResetTokenExpiresAt = nil

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to reset password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	accessToken, err := util.GenerateToken(user.ID, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		return nil, "", err
	}

	logger.Info("Password reset completed", map[string]interface{}{
		"user_id": user.ID,
	})

	return user, accessToken, nil
}
