package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlastours/atlas-backend/internal/app/model"
	"github.com/atlastours/atlas-backend/internal/app/repository"
	"github.com/atlastours/atlas-backend/internal/db"
	"github.com/atlastours/atlas-backend/pkg/payment/paymob"
)

type fakeGateway struct {
	orderID       int64
	registerErr   error
	payErr        error
	lastAmount    int64
	lastItems     []paymob.OrderItem
	lastBilling   paymob.BillingData
	lastPhone     string
	walletCalls   int
	cardCalls     int
	registerCalls int
}

func (g *fakeGateway) RegisterOrder(ctx context.Context, items []paymob.OrderItem, amountCents int64) (int64, error) {
	g.registerCalls++
	g.lastItems = items
	g.lastAmount = amountCents
	if g.registerErr != nil {
		return 0, g.registerErr
	}
	return g.orderID, nil
}

func (g *fakeGateway) PayWithCard(ctx context.Context, amountCents int64, billing paymob.BillingData, orderID int64) (string, error) {
	g.cardCalls++
	g.lastBilling = billing
	if g.payErr != nil {
		return "", g.payErr
	}
	return "https://gateway.example/iframe", nil
}

func (g *fakeGateway) PayWithWallet(ctx context.Context, amountCents int64, billing paymob.BillingData, orderID int64, phoneNumber string) (string, error) {
	g.walletCalls++
	g.lastBilling = billing
	g.lastPhone = phoneNumber
	if g.payErr != nil {
		return "", g.payErr
	}
	return "https://gateway.example/wallet-redirect", nil
}

func setupBookingServiceTest(t *testing.T, gateway *fakeGateway) (BookingService, *model.User, *model.Tour) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	tourRepo := repository.NewTourRepository(testDB)
	bookingRepo := repository.NewBookingRepository(testDB)

	authService := NewAuthService(userRepo, "test-jwt-secret", time.Hour)
	user, _, err := authService.Signup("Aya Mostafa", "aya@example.com", "password123")
	require.NoError(t, err)

	tourService := NewTourService(tourRepo)
	tour, err := tourService.CreateTour(TourInput{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 10,
		Difficulty:   "easy",
		Price:        397,
		Summary:      "Breathtaking hike",
	})
	require.NoError(t, err)

	bookingService := NewBookingService(bookingRepo, tourRepo, userRepo, gateway, "EGP")
	return bookingService, user, tour
}

func TestBookingService_CheckoutCard(t *testing.T) {
	gateway := &fakeGateway{orderID: 555}
	svc, user, tour := setupBookingServiceTest(t, gateway)

	result, err := svc.CheckoutCard(context.Background(), user.ID, tour.ID, 2)
	require.NoError(t, err)
	require.NotNil(t, result.Booking)
	assert.Equal(t, "https://gateway.example/iframe", result.RedirectURL)

	// amount = price * 100 * participants
	assert.Equal(t, int64(79400), gateway.lastAmount)
	require.Len(t, gateway.lastItems, 1)
	assert.Equal(t, "The Forest Hiker", gateway.lastItems[0].Name)
	assert.Equal(t, int64(39700), gateway.lastItems[0].AmountCents)
	assert.Equal(t, 2, gateway.lastItems[0].Quantity)

	// Billing data is derived from the account
	assert.Equal(t, "Aya", gateway.lastBilling.FirstName)
	assert.Equal(t, "Mostafa", gateway.lastBilling.LastName)
	assert.Equal(t, "aya@example.com", gateway.lastBilling.Email)

	booking := result.Booking
	assert.NotEmpty(t, booking.Reference)
	assert.Equal(t, tour.ID, booking.TourID)
	assert.Equal(t, user.ID, booking.UserID)
	assert.Equal(t, 2, booking.Participants)
	assert.Equal(t, int64(79400), booking.AmountCents)
	assert.Equal(t, "EGP", booking.Currency)
	assert.Equal(t, model.PaymentMethodCard, booking.PaymentMethod)
	assert.Equal(t, int64(555), booking.PaymobOrderID)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
}

func TestBookingService_Checkout_FractionalPrice(t *testing.T) {
	gateway := &fakeGateway{orderID: 556}
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	tourRepo := repository.NewTourRepository(testDB)
	bookingRepo := repository.NewBookingRepository(testDB)

	authService := NewAuthService(userRepo, "test-jwt-secret", time.Hour)
	user, _, err := authService.Signup("Aya Mostafa", "aya@example.com", "password123")
	require.NoError(t, err)

	// 19.99 as a float64 is slightly below the exact value, so a plain
	// truncation would charge 1998 cents.
	tour, err := NewTourService(tourRepo).CreateTour(TourInput{
		Name:         "The Budget Stroll",
		Duration:     1,
		MaxGroupSize: 8,
		Difficulty:   "easy",
		Price:        19.99,
		Summary:      "Short walk",
	})
	require.NoError(t, err)

	svc := NewBookingService(bookingRepo, tourRepo, userRepo, gateway, "EGP")
	result, err := svc.CheckoutCard(context.Background(), user.ID, tour.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(1999), gateway.lastItems[0].AmountCents)
	assert.Equal(t, int64(5997), gateway.lastAmount)
	assert.Equal(t, int64(5997), result.Booking.AmountCents)
}

func TestBookingService_CheckoutWallet(t *testing.T) {
	gateway := &fakeGateway{orderID: 777}
	svc, user, tour := setupBookingServiceTest(t, gateway)

	result, err := svc.CheckoutWallet(context.Background(), user.ID, tour.ID, 1, "+201000000000")
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example/wallet-redirect", result.RedirectURL)
	assert.Equal(t, 1, gateway.walletCalls)
	assert.Equal(t, 0, gateway.cardCalls)
	assert.Equal(t, "+201000000000", gateway.lastPhone)
	assert.Equal(t, "+201000000000", gateway.lastBilling.PhoneNumber)

	assert.Equal(t, model.PaymentMethodWallet, result.Booking.PaymentMethod)
	assert.Equal(t, int64(39700), result.Booking.AmountCents)
}

func TestBookingService_Checkout_TourNotFound(t *testing.T) {
	gateway := &fakeGateway{orderID: 1}
	svc, user, _ := setupBookingServiceTest(t, gateway)

	_, err := svc.CheckoutCard(context.Background(), user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrTourNotFound)
	assert.Equal(t, 0, gateway.registerCalls)
}

func TestBookingService_Checkout_GatewayFailure(t *testing.T) {
	gatewayErr := &paymob.Error{Status: http.StatusBadRequest, Message: "failed to register order", Err: errors.New("boom")}
	gateway := &fakeGateway{registerErr: gatewayErr}
	svc, user, tour := setupBookingServiceTest(t, gateway)

	_, err := svc.CheckoutCard(context.Background(), user.ID, tour.ID, 1)
	require.Error(t, err)

	var perr *paymob.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusBadRequest, perr.Status)

	// No booking row is written for a failed checkout
	bookings, err := svc.ListMyBookings(user.ID)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestBookingService_ListMyBookings(t *testing.T) {
	gateway := &fakeGateway{orderID: 888}
	svc, user, tour := setupBookingServiceTest(t, gateway)

	_, err := svc.CheckoutCard(context.Background(), user.ID, tour.ID, 1)
	require.NoError(t, err)
	_, err = svc.CheckoutWallet(context.Background(), user.ID, tour.ID, 3, "+201000000000")
	require.NoError(t, err)

	bookings, err := svc.ListMyBookings(user.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	// Bookings come back with their tour preloaded
	assert.Equal(t, tour.ID, bookings[0].Tour.ID)

	other, err := svc.ListMyBookings(9999)
	require.NoError(t, err)
	assert.Empty(t, other)
}
