package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeOfferNotFound    = "OFFER_NOT_FOUND"
	ErrCodeVendorNotFound   = "VENDOR_NOT_FOUND"
	ErrCodeLineNotFound     = "CART_LINE_NOT_FOUND"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeOfferUnavailable = "OFFER_UNAVAILABLE"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrOfferNotFound    = NewDomainError(ErrCodeOfferNotFound, "Offer not found")
	ErrVendorNotFound   = NewDomainError(ErrCodeVendorNotFound, "Vendor not found")
	ErrLineNotFound     = NewDomainError(ErrCodeLineNotFound, "Cart line not found")
	ErrInvalidQuantity  = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrOfferUnavailable = NewDomainError(ErrCodeOfferUnavailable, "Offer is no longer available")
)
