package shipping

import "fmt"

// ============================================================================
// SHIPPING ERROR CODES
// ============================================================================
// These constants mirror domain error codes to avoid circular imports.
// The service layer translates them into domain errors.

const (
	codeConflict    = "conflict"
	codeInternal    = "internal"
	codeInvalid     = "invalid"
	codeNotFound    = "not_found"
	codeNotImpl     = "not_implemented"
	codeUnavailable = "unavailable"
)

// ============================================================================
// SHIPPING ERROR TYPE
// ============================================================================

// ShippingError represents a shipping-specific error with a code and message.
type ShippingError struct {
	Code    string
	Message string
}

func (e *ShippingError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for status mapping.
func (e *ShippingError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the user-facing message.
func (e *ShippingError) ErrorMessage() string {
	return e.Message
}

func newShippingError(code, message string) *ShippingError {
	return &ShippingError{Code: code, Message: message}
}

// ============================================================================
// SHIPPING DOMAIN ERRORS
// ============================================================================

var (
	// ErrNotImplemented is returned when a provider cannot perform an operation.
	ErrNotImplemented = newShippingError(codeNotImpl, "Shipping method not implemented")

	// ErrNoRates is returned when the carrier offers no rates for a shipment.
	ErrNoRates = newShippingError(codeUnavailable, "No shipping rates available")

	// ErrInvalidRate is returned when a rate ID is unknown or expired.
	ErrInvalidRate = newShippingError(codeInvalid, "Invalid or expired rate")

	// ErrLabelNotFound is returned when a purchased shipment has no label document.
	ErrLabelNotFound = newShippingError(codeNotFound, "Label not found")

	// ErrLabelAlreadyPurchased is returned when a different rate was already bought for the shipment.
	ErrLabelAlreadyPurchased = newShippingError(codeConflict, "Label already purchased for this shipment")

	// ErrMissingAPIKey is returned when the shipping provider API key is missing.
	ErrMissingAPIKey = newShippingError(codeInternal, "Shipping provider API key is required")

	// ErrInvalidRateIDFormat is returned when the rate ID format is invalid.
	ErrInvalidRateIDFormat = newShippingError(codeInvalid, "Invalid rate ID format")

	// ErrFromAddressRequired is returned when the sender address is empty.
	ErrFromAddressRequired = newShippingError(codeInvalid, "Sender address is required")

	// ErrToAddressRequired is returned when the recipient address is empty.
	ErrToAddressRequired = newShippingError(codeInvalid, "Recipient address is required")
)

// ErrInvalidAmount creates an error for invalid amount parsing.
func ErrInvalidAmount(amount string, err error) error {
	return &ShippingError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("Invalid dollar amount %q: %v", amount, err),
	}
}
