package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthRequired       = errors.New("authentication required")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminExists        = errors.New("admin with this email already exists")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryInUse      = errors.New("category is used by existing products")
	ErrCategoryExists     = errors.New("category with this slug already exists")
	ErrProductNotFound    = errors.New("product not found")
	ErrImageNotFound      = errors.New("image not found")
)

// ValidationError is returned for request payloads that fail field checks.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(message string) error {
	return &ValidationError{Message: message}
}
