package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
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
	ErrNotFound     = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden    = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrValidation   = NewDomainError("VALIDATION_ERROR", "Validation failed")
)

// Tenant scoping errors
var (
	ErrNoTenantContext = NewDomainError("NO_TENANT", "User is not linked to any company")
	ErrTenantForbidden = NewDomainError("FORBIDDEN", "You do not have permission to access this company")
	ErrTenantNotFound  = NewDomainError("NOT_FOUND", "Company not found")
	ErrUnknownRole     = NewDomainError("FORBIDDEN", "Unrecognized user role")
)
