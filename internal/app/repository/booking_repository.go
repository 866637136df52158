package repository

import (
	"github.com/atlastours/atlas-backend/internal/app/model"
	"github.com/atlastours/atlas-backend/pkg/logger"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(booking *model.Booking) error
	FindByID(id uint) (*model.Booking, error)
	FindByReference(reference string) (*model.Booking, error)
	ListByUser(userID uint) ([]model.Booking, error)
	Update(booking *model.Booking) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(booking *model.Booking) error {
	logger.Debug("Creating booking in database", map[string]interface{}{
		"reference": booking.Reference,
		"tour_id":   booking.TourID,
		"user_id":   booking.UserID,
	})

	if err := r.db.Create(booking).Error; err != nil {
		logger.Error("Failed to create booking in database", err, map[string]interface{}{
			"reference": booking.Reference,
		})
		return err
	}
	return nil
}

func (r *bookingRepository) FindByID(id uint) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.Preload("Tour").First(&booking, id).Error; err != nil {
		logger.Debug("Failed to find booking by ID in database", map[string]interface{}{
			"booking_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByReference(reference string) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.Preload("Tour").Where("reference = ?", reference).First(&booking).Error; err != nil {
		logger.Debug("Failed to find booking by reference in database", map[string]interface{}{
			"reference": reference,
			"error":     err.Error(),
		})
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByUser(userID uint) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.Preload("Tour").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&bookings).Error
	if err != nil {
		logger.Error("Failed to list bookings from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Update(booking *model.Booking) error {
	if err := r.db.Save(booking).Error; err != nil {
		logger.Error("Failed to update booking in database", err, map[string]interface{}{
			"booking_id": booking.ID,
		})
		return err
	}
	return nil
}
