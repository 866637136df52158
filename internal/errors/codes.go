package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// Clients map these codes to their own messages.

const (
	// Authentication (AUTH_)
	AuthUnauthorized        = "AUTH_UNAUTHORIZED"        // not logged in
	AuthInvalidCredentials  = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired        = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid        = "AUTH_TOKEN_INVALID"
	AuthUserGone            = "AUTH_USER_GONE"        // token's user no longer exists
	AuthPasswordChanged     = "AUTH_PASSWORD_CHANGED" // password changed after token issue
	AuthEmailAlreadyExists  = "AUTH_EMAIL_EXISTS"
	AuthResetTokenInvalid   = "AUTH_RESET_TOKEN_INVALID" // invalid, used or expired reset token
	AuthResetDispatchFailed = "AUTH_RESET_DISPATCH_FAILED"

	// Authorization (AUTHZ_)
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// Validation (VALIDATION_)
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// Resources (RESOURCE_)
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Payments (PAYMENT_)
	PaymentFailed = "PAYMENT_FAILED"

	// Internal (INTERNAL_)
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
