package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/atlastours/atlas-backend/internal/app/model"
	"github.com/atlastours/atlas-backend/internal/app/repository"
	"github.com/atlastours/atlas-backend/pkg/logger"
	"github.com/atlastours/atlas-backend/pkg/payment/paymob"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

// PaymentGateway is the subset of the Paymob client the booking flow uses.
type PaymentGateway interface {
	RegisterOrder(ctx context.Context, items []paymob.OrderItem, amountCents int64) (int64, error)
	PayWithCard(ctx context.Context, amountCents int64, billing paymob.BillingData, orderID int64) (string, error)
	PayWithWallet(ctx context.Context, amountCents int64, billing paymob.BillingData, orderID int64, phoneNumber string) (string, error)
}

type CheckoutResult struct {
	Booking     *model.Booking `json:"booking"`
	RedirectURL string         `json:"redirect_url"`
}

type BookingService interface {
	CheckoutCard(ctx context.Context, userID, tourID uint, participants int) (*CheckoutResult, error)
	CheckoutWallet(ctx context.Context, userID, tourID uint, participants int, phoneNumber string) (*CheckoutResult, error)
	ListMyBookings(userID uint) ([]model.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	tourRepo    repository.TourRepository
	userRepo    repository.UserRepository
	gateway     PaymentGateway
	currency    string
}

func NewBookingService(bookingRepo repository.BookingRepository, tourRepo repository.TourRepository, userRepo repository.UserRepository, gateway PaymentGateway, currency string) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		tourRepo:    tourRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		currency:    currency,
	}
}

func (s *bookingService) CheckoutCard(ctx context.Context, userID, tourID uint, participants int) (*CheckoutResult, error) {
	return s.checkout(ctx, userID, tourID, participants, model.PaymentMethodCard, "")
}

func (s *bookingService) CheckoutWallet(ctx context.Context, userID, tourID uint, participants int, phoneNumber string) (*CheckoutResult, error) {
	return s.checkout(ctx, userID, tourID, participants, model.PaymentMethodWallet, phoneNumber)
}

func (s *bookingService) checkout(ctx context.Context, userID, tourID uint, participants int, method model.PaymentMethod, phoneNumber string) (*CheckoutResult, error) {
	tour, err := s.tourRepo.FindByID(tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Round rather than truncate: 19.99 is not exactly representable and
	// 19.99*100 lands just below 1999.
	unitCents := int64(math.Round(tour.Price * 100))
	amountCents := unitCents * int64(participants)

	items := []paymob.OrderItem{
		{
			Name:        tour.Name,
			AmountCents: unitCents,
			Description: tour.Summary,
			Quantity:    participants,
		},
	}

	logger.Info("Starting checkout", map[string]interface{}{
		"user_id":      userID,
		"tour_id":      tourID,
		"method":       method,
		"amount_cents": amountCents,
	})

	orderID, err := s.gateway.RegisterOrder(ctx, items, amountCents)
	if err != nil {
		logger.Error("Failed to register payment order", err, map[string]interface{}{
			"user_id": userID,
			"tour_id": tourID,
		})
		return nil, err
	}

	billing := billingDataFor(user, phoneNumber)

	var redirectURL string
	switch method {
	case model.PaymentMethodWallet:
		redirectURL, err = s.gateway.PayWithWallet(ctx, amountCents, billing, orderID, phoneNumber)
	default:
		redirectURL, err = s.gateway.PayWithCard(ctx, amountCents, billing, orderID)
	}
	if err != nil {
		logger.Error("Failed to obtain payment redirect", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, err
	}

	booking := &model.Booking{
		Reference:     uuid.NewString(),
		TourID:        tourID,
		UserID:        userID,
		Participants:  participants,
		AmountCents:   amountCents,
		Currency:      s.currency,
		PaymentMethod: method,
		PaymobOrderID: orderID,
		Status:        model.BookingStatusPending,
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		logger.Error("Failed to persist booking", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, err
	}

	logger.Info("Checkout completed", map[string]interface{}{
		"booking_id": booking.ID,
		"reference":  booking.Reference,
		"order_id":   orderID,
	})

	return &CheckoutResult{Booking: booking, RedirectURL: redirectURL}, nil
}

func (s *bookingService) ListMyBookings(userID uint) ([]model.Booking, error) {
	bookings, err := s.bookingRepo.ListByUser(userID)
	if err != nil {
		logger.Error("Failed to list bookings", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return bookings, nil
}

func billingDataFor(user *model.User, phoneNumber string) paymob.BillingData {
	firstName := user.Name
	lastName := ""
	if parts := strings.Fields(user.Name); len(parts) > 1 {
		firstName = parts[0]
		lastName = strings.Join(parts[1:], " ")
	}

	billing := paymob.BillingData{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       user.Email,
		PhoneNumber: phoneNumber,
	}
	return billing
}
