package repository

import (
	"time"

	"github.com/atlastours/atlas-backend/internal/app/model"
	"github.com/atlastours/atlas-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByResetTokenHash(hash string) (*model.User, error)
	Update(user *model.User) error
	Delete(id uint) error
	ClearExpiredResetTokens() (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		logger.Debug("Failed to find user by ID in database", map[string]interface{}{
			"user_id": id,
			"error":   err.Error(),
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		logger.Debug("Failed to find user by email in database", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}
	return &user, nil
}

// FindByResetTokenHash looks up a user with a matching, non-expired reset
// token hash
func (r *userRepository) FindByResetTokenHash(hash string) (*model.User, error) {
	var user model.User
	err := r.db.Where("reset_token_hash = ? AND reset_token_expires_at > ?", hash, time.Now()).
		First(&user).Error
	if err != nil {
		logger.Debug("No user with matching reset token in database", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.User{}, id).Error; err != nil {
		logger.Error("Failed to delete user from database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}
	return nil
}

// ClearExpiredResetTokens removes reset-token fields whose expiry has passed
func (r *userRepository) ClearExpiredResetTokens() (int64, error) {
	result := r.db.Model(&model.User{}).
		Where("reset_token_expires_at IS NOT NULL AND reset_token_expires_at < ?", time.Now()).
		Updates(map[string]interface{}{
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
		})
	if result.Error != nil {
		logger.Error("Failed to clear expired reset tokens in database", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
