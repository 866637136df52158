package service

import (
	"errors"

	"github.com/atlastours/atlas-backend/internal/app/model"
	"github.com/atlastours/atlas-backend/internal/app/repository"
	"github.com/atlastours/atlas-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrReviewForbidden = errors.New("review does not belong to user")
)

type ReviewService interface {
	CreateReview(tourID, userID uint, rating int, content string) (*model.Review, error)
	ListByTour(tourID uint) ([]model.Review, error)
	UpdateReview(id, userID uint, role model.UserRole, rating int, content string) (*model.Review, error)
	DeleteReview(id, userID uint, role model.UserRole) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	tourRepo   repository.TourRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, tourRepo repository.TourRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		tourRepo:   tourRepo,
	}
}

func (s *reviewService) CreateReview(tourID, userID uint, rating int, content string) (*model.Review, error) {
	if _, err := s.tourRepo.FindByID(tourID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	review := &model.Review{
		TourID:  tourID,
		UserID:  userID,
		Rating:  rating,
		Content: content,
	}

	if err := s.reviewRepo.Create(review); err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"tour_id": tourID,
			"user_id": userID,
		})
		return nil, err
	}

	if err := s.tourRepo.RefreshRatings(tourID); err != nil {
		logger.Error("Failed to refresh tour ratings", err, map[string]interface{}{
			"tour_id": tourID,
		})
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id": review.ID,
		"tour_id":   tourID,
		"user_id":   userID,
	})

	return review, nil
}

func (s *reviewService) ListByTour(tourID uint) ([]model.Review, error) {
	reviews, err := s.reviewRepo.ListByTour(tourID)
	if err != nil {
		logger.Error("Failed to list reviews", err, map[string]interface{}{
			"tour_id": tourID,
		})
		return nil, err
	}
	return reviews, nil
}

func (s *reviewService) UpdateReview(id, userID uint, role model.UserRole, rating int, content string) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if review.UserID != userID && role != model.RoleAdmin {
		return nil, ErrReviewForbidden
	}

	if rating > 0 {
		review.Rating = rating
	}
	if content != "" {
		review.Content = content
	}

	if err := s.reviewRepo.Update(review); err != nil {
		logger.Error("Failed to update review", err, map[string]interface{}{
			"review_id": id,
		})
		return nil, err
	}

	if err := s.tourRepo.RefreshRatings(review.TourID); err != nil {
		logger.Error("Failed to refresh tour ratings", err, map[string]interface{}{
			"tour_id": review.TourID,
		})
	}

	return review, nil
}

func (s *reviewService) DeleteReview(id, userID uint, role model.UserRole) error {
	review, err := s.reviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if review.UserID != userID && role != model.RoleAdmin {
		return ErrReviewForbidden
	}

	if err := s.reviewRepo.Delete(id); err != nil {
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}

	if err := s.tourRepo.RefreshRatings(review.TourID); err != nil {
		logger.Error("Failed to refresh tour ratings", err, map[string]interface{}{
			"tour_id": review.TourID,
		})
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id": id,
	})

	return nil
}
