package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// verbose controls whether responses carry internal error detail. Enabled in
// development only; configured once at startup.
var verbose = false

// SetVerbose switches on development-mode error detail in responses
func SetVerbose(v bool) {
	verbose = v
}

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error   string `json:"error"`            // machine-readable code
	Message string `json:"message"`          // safe, user-facing message
	Detail  string `json:"detail,omitempty"` // development mode only
}

// RespondWithError writes a standard error response
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shorthand responders for the common cases

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "You are not logged in. Please log in to get access"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to perform this action"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

// InternalError writes a generic failure. The underlying error is never sent
// to the caller outside development mode; operators get it from the logs.
func InternalError(c *gin.Context, err error) {
	resp := ErrorResponse{
		Error:   InternalServerError,
		Message: "Something went wrong. Please try again later",
	}
	if verbose && err != nil {
		resp.Detail = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}

// ParseAndRespond classifies err into the operational taxonomy and responds
// with the mapped status, code and message. In development mode the raw error
// detail is attached.
func ParseAndRespond(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	resp := ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	}
	if verbose && err != nil {
		resp.Detail = err.Error()
	}
	c.JSON(info.Status, resp)
}
