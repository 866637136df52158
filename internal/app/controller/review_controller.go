package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlastours/atlas-backend/internal/app/service"
	apperrors "github.com/atlastours/atlas-backend/internal/errors"
	"github.com/atlastours/atlas-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Content string `json:"content" binding:"required"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Content string `json:"content"`
}

// ListByTour returns all reviews of a tour
// GET /api/v1/tours/:id/reviews
func (ctrl *ReviewController) ListByTour(c *gin.Context) {
	tourID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.ListByTour(tourID)
	if err != nil {
		apperrors.ParseAndRespond(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": len(reviews),
		"reviews": reviews,
	})
}

// Create adds a review to a tour by the authenticated user
// POST /api/v1/tours/:id/reviews
func (ctrl *ReviewController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tourID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "You are not logged in. Please log in to get access")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid review payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	review, err := ctrl.reviewService.CreateReview(tourID, userID, req.Rating, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "No tour found with that ID")
			return
		}
		log.Error("Failed to create review", err, map[string]interface{}{
			"tour_id": tourID,
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, err, "create review")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}

// Update edits a review; only its author or an admin may do so
// PATCH /api/v1/reviews/:id
func (ctrl *ReviewController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "You are not logged in. Please log in to get access")
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid review payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	review, err := ctrl.reviewService.UpdateReview(id, userID, role, req.Rating, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "No review found with that ID")
		case errors.Is(err, service.ErrReviewForbidden):
			apperrors.Forbidden(c, "You do not have permission to perform this action")
		default:
			apperrors.ParseAndRespond(c, err, "update review")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  review,
	})
}

// Delete removes a review; only its author or an admin may do so
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "You are not logged in. Please log in to get access")
		return
	}
	role, _ := middleware.GetUserRole(c)

	if err := ctrl.reviewService.DeleteReview(id, userID, role); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "No review found with that ID")
		case errors.Is(err, service.ErrReviewForbidden):
			apperrors.Forbidden(c, "You do not have permission to perform this action")
		default:
			apperrors.ParseAndRespond(c, err, "delete review")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
