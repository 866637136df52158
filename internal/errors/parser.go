package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/atlastours/atlas-backend/pkg/payment/paymob"
	"github.com/atlastours/atlas-backend/pkg/util"
	"gorm.io/gorm"
)

// ErrorInfo is the classified form of an error
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError converts known error shapes (storage errors, token errors,
// gateway errors) into the operational taxonomy. Anything unrecognized maps
// to a generic internal error; the raw detail stays in the logs.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: "Something went wrong. Please try again later",
		}
	}

	// Gateway errors carry their own HTTP status and safe message
	var perr *paymob.Error
	if errors.As(err, &perr) {
		return ErrorInfo{
			Status:  perr.Status,
			Code:    PaymentFailed,
			Message: perr.Message,
		}
	}

	// Token errors
	if errors.Is(err, util.ErrExpiredToken) {
		return ErrorInfo{
			Status:  http.StatusUnauthorized,
			Code:    AuthTokenExpired,
			Message: "Your token has expired. Please log in again",
		}
	}
	if errors.Is(err, util.ErrInvalidToken) {
		return ErrorInfo{
			Status:  http.StatusUnauthorized,
			Code:    AuthTokenInvalid,
			Message: "Invalid token. Please log in again",
		}
	}

	// Storage errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	errStr := strings.ToLower(err.Error())

	// Unique constraint violation
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		if strings.Contains(errStr, "email") {
			return ErrorInfo{
				Status:  http.StatusConflict,
				Code:    AuthEmailAlreadyExists,
				Message: "This email is already in use",
			}
		}
		if strings.Contains(errStr, "reviews") {
			return ErrorInfo{
				Status:  http.StatusConflict,
				Code:    ResourceAlreadyExists,
				Message: "You have already reviewed this tour",
			}
		}
		return ErrorInfo{
			Status:  http.StatusConflict,
			Code:    ResourceAlreadyExists,
			Message: "Duplicate field value. Please use another value",
		}
	}

	// Foreign key constraint violation
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    ResourceNotFound,
			Message: "Referenced resource does not exist",
		}
	}

	// Not null constraint violation
	if strings.Contains(errStr, "null value") && strings.Contains(errStr, "not-null constraint") {
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// Check constraint violation
	if strings.Contains(errStr, "check constraint") {
		if strings.Contains(errStr, "rating") {
			return ErrorInfo{
				Status:  http.StatusBadRequest,
				Code:    ValidationInvalidInput,
				Message: "Rating must be between 1 and 5",
			}
		}
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    ValidationInvalidInput,
			Message: "Invalid input data",
		}
	}

	// Network errors to external collaborators
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    InternalExternalAPI,
			Message: "An external service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: "Something went wrong. Please try again later",
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "tour") {
		return "No tour found with that ID"
	}
	if strings.Contains(contextLower, "user") {
		return "No user found with that ID"
	}
	if strings.Contains(contextLower, "review") {
		return "No review found with that ID"
	}
	if strings.Contains(contextLower, "booking") {
		return "No booking found with that ID"
	}
	return "The requested resource was not found"
}
