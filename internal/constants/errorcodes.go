// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling, categorization,
// and messaging. These constants ensure consistent error reporting and handling
// throughout the application. User-facing error messages are carefully crafted to
// be informative without revealing sensitive implementation details that could aid
// in potential attacks.
package constants

// User-Facing Error Messages define standardized messages that can be safely presented to users.
const (
	// MsgAuthRequired indicates that the user must authenticate to access the resource.
	MsgAuthRequired = "Authentication required"

	// MsgPasswordsDoNotMatch indicates that the provided passwords do not match.
	MsgPasswordsDoNotMatch = "Passwords do not match"

	// MsgInvalidCredentials indicates that login credentials are incorrect.
	MsgInvalidCredentials = "Invalid email or password"

	// MsgAccessDenied indicates that the user lacks permission for the requested action.
	MsgAccessDenied = "You don't have permission to access this resource"

	// MsgInternalServerError provides a generic server error message.
	MsgInternalServerError = "An internal server error occurred"

	// MsgTokenExpired indicates that the user's authentication token has expired.
	MsgTokenExpired = "Authentication token has expired"

	// MsgInvalidToken indicates that the provided token is invalid.
	MsgInvalidToken = "Invalid token"

	// MsgInvalidResetToken indicates a password reset token is unknown or past expiry.
	MsgInvalidResetToken = "Invalid or expired password reset token"

	// MsgResetLinkSent confirms that a password reset link was dispatched.
	MsgResetLinkSent = "Password reset link sent to your email"

	// MsgPasswordResetSuccess confirms a completed password reset.
	MsgPasswordResetSuccess = "Password updated successfully. You can now log in"

	// MsgWeakPassword describes the password strength requirements.
	MsgWeakPassword = "Password must be at least 8 characters, include a digit, an uppercase letter, a lowercase letter, and a special character"

	// MsgUserNotFoundByEmail indicates no account matches the submitted email address.
	MsgUserNotFoundByEmail = "User not found with this email address"

	// MsgRequestBodyTooLarge indicates that the request payload exceeds size limits.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody indicates that a request body was expected but not provided.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates that the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgResourceNotFound indicates that the requested resource does not exist.
	MsgResourceNotFound = "The requested resource could not be found"

	// MsgResourceAlreadyExists indicates a duplicate resource conflict.
	MsgResourceAlreadyExists = "A resource with the same unique identifier already exists"

	// MsgPasswordChanged confirms successful password change.
	MsgPasswordChanged = "Password successfully changed"

	// MsgLogoutSuccess confirms successful logout.
	MsgLogoutSuccess = "Successfully logged out"

	// MsgMethodNotAllowed indicates an unsupported HTTP method.
	MsgMethodNotAllowed = "Method not allowed"

	// MsgTooManyRequests indicates the client exceeded the rate limit.
	MsgTooManyRequests = "Too many requests, please try again later"
)

// Database Error Types define constants for recognizing and handling database-specific errors.
const (
	// DBErrorDuplicateKey is the PostgreSQL error message for unique constraint violations.
	DBErrorDuplicateKey = "duplicate key value violates unique constraint"

	// PGErrorDuplicateConstraint is the PostgreSQL error code for unique constraint violations.
	PGErrorDuplicateConstraint = "23505"

	// PGErrorForeignKeyConstraint is the PostgreSQL error code for foreign key violations.
	PGErrorForeignKeyConstraint = "23503"

	// PGErrorNotNullConstraint is the PostgreSQL error code for not-null constraint violations.
	PGErrorNotNullConstraint = "23502"
)

// Logger Constants define values used for structured logging.
const (
	// LogEventLogin is the log event type for user login.
	LogEventLogin = "login"

	// LogEventRegister is the log event type for user registration.
	LogEventRegister = "register"

	// LogEventPasswordReset is the log event type for password reset operations.
	LogEventPasswordReset = "password_reset"

	// LogRedactedValue is used to replace sensitive values in logs.
	LogRedactedValue = "[REDACTED]"
)
