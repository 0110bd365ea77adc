package email

import "fmt"

// ============================================================================
// EMAIL ERROR CODES
// ============================================================================
// These constants mirror domain error codes to avoid circular imports.

const (
	codeInternal    = "internal"
	codeInvalid     = "invalid"
	codeUnavailable = "unavailable"
)

// ============================================================================
// EMAIL ERROR TYPE
// ============================================================================

// EmailError represents an email-specific error with a code and message.
// It follows the domain.Error pattern for consistent classification.
type EmailError struct {
	Code    string
	Message string
}

func (e *EmailError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for classification.
func (e *EmailError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the user-facing message.
func (e *EmailError) ErrorMessage() string {
	return e.Message
}

// newEmailError creates a new email error.
func newEmailError(code, message string) *EmailError {
	return &EmailError{Code: code, Message: message}
}

// ============================================================================
// EMAIL DOMAIN ERRORS
// ============================================================================

var (
	// ErrMissingRecipient is returned when no recipient address is present.
	ErrMissingRecipient = newEmailError(codeInvalid, "Recipient email address is required")

	// ErrMissingTemplate is returned when no template id is given.
	ErrMissingTemplate = newEmailError(codeInvalid, "Template id is required")
)

// ErrProviderRejected creates an error for a non-OK provider response.
func ErrProviderRejected(status int, body string) error {
	return &EmailError{
		Code:    codeUnavailable,
		Message: fmt.Sprintf("Email API rejected request (status %d): %s", status, body),
	}
}
