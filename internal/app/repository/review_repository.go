package repository

import (
	"github.com/atlastours/atlas-backend/internal/app/model"
	"github.com/atlastours/atlas-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	ListByTour(tourID uint) ([]model.Review, error)
	Update(review *model.Review) error
	Delete(id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"tour_id": review.TourID,
		"user_id": review.UserID,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"tour_id": review.TourID,
			"user_id": review.UserID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.Preload("User").First(&review, id).Error; err != nil {
		logger.Debug("Failed to find review by ID in database", map[string]interface{}{
			"review_id": id,
			"error":     err.Error(),
		})
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByTour(tourID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Preload("User").Where("tour_id = ?", tourID).
		Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to list reviews from database", err, map[string]interface{}{
			"tour_id": tourID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Update(review *model.Review) error {
	if err := r.db.Save(review).Error; err != nil {
		logger.Error("Failed to update review in database", err, map[string]interface{}{
			"review_id": review.ID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Review{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete review from database", result.Error, map[string]interface{}{
			"review_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
