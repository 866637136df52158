package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlastours/atlas-backend/internal/app/service"
	apperrors "github.com/atlastours/atlas-backend/internal/errors"
	"github.com/atlastours/atlas-backend/internal/middleware"
)

type TourController struct {
	tourService service.TourService
}

func NewTourController(tourService service.TourService) *TourController {
	return &TourController{tourService: tourService}
}

type TourRequest struct {
	Name          string      `json:"name" binding:"required"`
	Duration      int         `json:"duration" binding:"required,min=1"`
	MaxGroupSize  int         `json:"max_group_size" binding:"required,min=1"`
	Difficulty    string      `json:"difficulty" binding:"required,oneof=easy medium difficult"`
	Price         float64     `json:"price" binding:"required,gt=0"`
	PriceDiscount float64     `json:"price_discount"`
	Summary       string      `json:"summary" binding:"required"`
	Description   string      `json:"description"`
	ImageCover    string      `json:"image_cover"`
	StartDates    []time.Time `json:"start_dates"`
}

type UpdateTourRequest struct {
	Name          string      `json:"name"`
	Duration      int         `json:"duration"`
	MaxGroupSize  int         `json:"max_group_size"`
	Difficulty    string      `json:"difficulty" binding:"omitempty,oneof=easy medium difficult"`
	Price         float64     `json:"price"`
	PriceDiscount float64     `json:"price_discount"`
	Summary       string      `json:"summary"`
	Description   string      `json:"description"`
	ImageCover    string      `json:"image_cover"`
	StartDates    []time.Time `json:"start_dates"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID format")
		return 0, false
	}
	return uint(id), true
}

// ListTours returns tours with optional paging, sorting and filtering
// GET /api/v1/tours
func (ctrl *TourController) ListTours(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	opts := service.TourListOptions{
		Limit:      limit,
		Offset:     (page - 1) * limit,
		Sort:       c.Query("sort"),
		Difficulty: c.Query("difficulty"),
	}

	tours, total, err := ctrl.tourService.ListTours(opts)
	if err != nil {
		log.Error("Failed to list tours", err, nil)
		apperrors.ParseAndRespond(c, err, "list tours")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": len(tours),
		"total":   total,
		"page":    page,
		"tours":   tours,
	})
}

// GetTour returns a single tour with its start dates and reviews
// GET /api/v1/tours/:id
func (ctrl *TourController) GetTour(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tour, err := ctrl.tourService.GetTour(id)
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "No tour found with that ID")
			return
		}
		apperrors.ParseAndRespond(c, err, "get tour")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tour": tour,
	})
}

// CreateTour creates a new tour
// POST /api/v1/tours
func (ctrl *TourController) CreateTour(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req TourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid tour payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	tour, err := ctrl.tourService.CreateTour(service.TourInput{
		Name:          req.Name,
		Duration:      req.Duration,
		MaxGroupSize:  req.MaxGroupSize,
		Difficulty:    req.Difficulty,
		Price:         req.Price,
		PriceDiscount: req.PriceDiscount,
		Summary:       req.Summary,
		Description:   req.Description,
		ImageCover:    req.ImageCover,
		StartDates:    req.StartDates,
	})
	if err != nil {
		log.Error("Failed to create tour", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.ParseAndRespond(c, err, "create tour")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tour created successfully",
		"tour":    tour,
	})
}

// UpdateTour partially updates a tour
// PATCH /api/v1/tours/:id
func (ctrl *TourController) UpdateTour(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid tour payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	tour, err := ctrl.tourService.UpdateTour(id, service.TourInput{
		Name:          req.Name,
		Duration:      req.Duration,
		MaxGroupSize:  req.MaxGroupSize,
		Difficulty:    req.Difficulty,
		Price:         req.Price,
		PriceDiscount: req.PriceDiscount,
		Summary:       req.Summary,
		Description:   req.Description,
		ImageCover:    req.ImageCover,
		StartDates:    req.StartDates,
	})
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "No tour found with that ID")
			return
		}
		apperrors.ParseAndRespond(c, err, "update tour")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tour updated successfully",
		"tour":    tour,
	})
}

// DeleteTour removes a tour
// DELETE /api/v1/tours/:id
func (ctrl *TourController) DeleteTour(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.tourService.DeleteTour(id); err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "No tour found with that ID")
			return
		}
		apperrors.ParseAndRespond(c, err, "delete tour")
		return
	}

	c.Status(http.StatusNoContent)
}

// TopCheap returns the five best-value tours
// GET /api/v1/tours/top-5-cheap
func (ctrl *TourController) TopCheap(c *gin.Context) {
	tours, err := ctrl.tourService.TopCheap()
	if err != nil {
		apperrors.ParseAndRespond(c, err, "top cheap tours")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": len(tours),
		"tours":   tours,
	})
}

// Stats returns aggregate statistics grouped by difficulty
// GET /api/v1/tours/stats
func (ctrl *TourController) Stats(c *gin.Context) {
	stats, err := ctrl.tourService.Stats()
	if err != nil {
		apperrors.ParseAndRespond(c, err, "tour stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// MonthlyPlan returns how many tours start in each month of the given year
// GET /api/v1/tours/monthly-plan/:year
func (ctrl *TourController) MonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid year")
		return
	}

	plan, planErr := ctrl.tourService.MonthlyPlan(year)
	if planErr != nil {
		apperrors.ParseAndRespond(c, planErr, "monthly plan")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year": year,
		"plan": plan,
	})
}
