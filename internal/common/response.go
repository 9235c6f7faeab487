package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes shared by every handler.
const (
	CodeAuthRequired       = "AUTH_REQUIRED"
	CodeTokenBlacklisted   = "TOKEN_BLACKLISTED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeAdminNotFound      = "ADMIN_NOT_FOUND"
	CodeAdminExists        = "ADMIN_EXISTS"
	CodeCategoryNotFound   = "CATEGORY_NOT_FOUND"
	CodeCategoryInUse      = "CATEGORY_IN_USE"
	CodeCategoryExists     = "CATEGORY_EXISTS"
	CodeProductNotFound    = "PRODUCT_NOT_FOUND"
	CodeImageNotFound      = "IMAGE_NOT_FOUND"
	CodeValidationError    = "VALIDATION_ERROR"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *APIError   `json:"error"`
}

// AppError is an error that knows its HTTP status and envelope code.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func Unauthorized(code, message string) *AppError {
	return NewAppError(http.StatusUnauthorized, code, message)
}

func BadRequest(code, message string) *AppError {
	return NewAppError(http.StatusBadRequest, code, message)
}

func NotFound(code, message string) *AppError {
	return NewAppError(http.StatusNotFound, code, message)
}

// Internal wraps an unexpected failure. The message is what the client sees.
func Internal(message string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: CodeInternalError, Message: message, Err: err}
}

func CreateErrorResponse(code, message string) *APIResponse {
	return &APIResponse{Success: false, Error: &APIError{Code: code, Message: message}}
}

// SendSuccess writes a 200 envelope.
func SendSuccess(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, &APIResponse{Success: true, Data: data})
}

// SendCreated writes a 201 envelope.
func SendCreated(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, &APIResponse{Success: true, Data: data})
}

func SendError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, CreateErrorResponse(code, message))
}

// SendAppError renders err, falling back to INTERNAL_ERROR for anything
// that is not an *AppError.
func SendAppError(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return SendError(c, appErr.Status, appErr.Code, appErr.Message)
	}
	return SendError(c, http.StatusInternalServerError, CodeInternalError, "Internal server error")
}

func SendValidationError(c echo.Context, message string) error {
	return SendError(c, http.StatusBadRequest, CodeValidationError, message)
}
