package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlastours/atlas-backend/internal/app/service"
	apperrors "github.com/atlastours/atlas-backend/internal/errors"
	"github.com/atlastours/atlas-backend/internal/middleware"
)

type BookingController struct {
	bookingService service.BookingService
}

func NewBookingController(bookingService service.BookingService) *BookingController {
	return &BookingController{bookingService: bookingService}
}

type CheckoutCardRequest struct {
	TourID       uint `json:"tour_id" binding:"required"`
	Participants int  `json:"participants" binding:"required,min=1"`
}

type CheckoutWalletRequest struct {
	TourID       uint   `json:"tour_id" binding:"required"`
	Participants int    `json:"participants" binding:"required,min=1"`
	PhoneNumber  string `json:"phone_number" binding:"required"`
}

// CheckoutCard starts a card checkout and returns the hosted payment page URL
// POST /api/v1/bookings/checkout/card
func (ctrl *BookingController) CheckoutCard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "You are not logged in. Please log in to get access")
		return
	}

	var req CheckoutCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	result, err := ctrl.bookingService.CheckoutCard(c.Request.Context(), userID, req.TourID, req.Participants)
	if err != nil {
		ctrl.respondCheckoutError(c, err, userID, req.TourID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Checkout started",
		"booking":      result.Booking,
		"redirect_url": result.RedirectURL,
	})
}

// CheckoutWallet starts a mobile-wallet checkout and returns the gateway
// redirect URL
// POST /api/v1/bookings/checkout/wallet
func (ctrl *BookingController) CheckoutWallet(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "You are not logged in. Please log in to get access")
		return
	}

	var req CheckoutWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	result, err := ctrl.bookingService.CheckoutWallet(c.Request.Context(), userID, req.TourID, req.Participants, req.PhoneNumber)
	if err != nil {
		ctrl.respondCheckoutError(c, err, userID, req.TourID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Checkout started",
		"booking":      result.Booking,
		"redirect_url": result.RedirectURL,
	})
}

// ListMine returns the authenticated user's bookings
// GET /api/v1/bookings/me
func (ctrl *BookingController) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "You are not logged in. Please log in to get access")
		return
	}

	bookings, err := ctrl.bookingService.ListMyBookings(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, err, "list bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results":  len(bookings),
		"bookings": bookings,
	})
}

func (ctrl *BookingController) respondCheckoutError(c *gin.Context, err error, userID, tourID uint) {
	log := middleware.GetLoggerFromContext(c)

	if errors.Is(err, service.ErrTourNotFound) {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "No tour found with that ID")
		return
	}

	log.Error("Checkout failed", err, map[string]interface{}{
		"user_id": userID,
		"tour_id": tourID,
	})
	// Gateway errors carry their own status; ParseAndRespond preserves it.
	apperrors.ParseAndRespond(c, err, "checkout")
}
