package handlers

import (
	"errors"
	"log"
	"net/http"

	"sgspadmin/internal/common"
	"sgspadmin/internal/services"

	"github.com/labstack/echo/v4"
)

// toAppError maps service sentinels onto envelope codes. Anything it does
// not recognise becomes a 500.
func toAppError(err error) *common.AppError {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validation *services.ValidationError
	if errors.As(err, &validation) {
		return common.BadRequest(common.CodeValidationError, validation.Message)
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return common.Unauthorized(common.CodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, services.ErrAuthRequired):
		return common.Unauthorized(common.CodeAuthRequired, "Authentication required")
	case errors.Is(err, services.ErrAdminNotFound):
		return common.NotFound(common.CodeAdminNotFound, "Admin not found")
	case errors.Is(err, services.ErrAdminExists):
		return common.BadRequest(common.CodeAdminExists, "Admin with this email already exists")
	case errors.Is(err, services.ErrCategoryNotFound):
		return common.NotFound(common.CodeCategoryNotFound, "Category not found")
	case errors.Is(err, services.ErrCategoryInUse):
		return common.BadRequest(common.CodeCategoryInUse, "Category is used by existing products")
	case errors.Is(err, services.ErrCategoryExists):
		return common.BadRequest(common.CodeCategoryExists, "Category with this slug already exists")
	case errors.Is(err, services.ErrProductNotFound):
		return common.NotFound(common.CodeProductNotFound, "Product not found")
	case errors.Is(err, services.ErrImageNotFound):
		return common.NotFound(common.CodeImageNotFound, "Image not found")
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErrorToAppError(httpErr)
	}

	return common.Internal("Internal server error", err)
}

func httpErrorToAppError(httpErr *echo.HTTPError) *common.AppError {
	message := http.StatusText(httpErr.Code)
	if m, ok := httpErr.Message.(string); ok && m != "" {
		message = m
	}

	code := common.CodeInternalError
	switch httpErr.Code {
	case http.StatusNotFound:
		code = common.CodeNotFound
	case http.StatusUnauthorized:
		code = common.CodeAuthRequired
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		code = common.CodeInvalidRequest
	case http.StatusMethodNotAllowed:
		code = "METHOD_NOT_ALLOWED"
	default:
		if httpErr.Code < http.StatusInternalServerError {
			code = common.CodeInvalidRequest
		}
	}
	return &common.AppError{Status: httpErr.Code, Code: code, Message: message, Err: httpErr.Internal}
}

// HTTPErrorHandler renders every error that escapes a handler in the
// standard envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(appErr.Status)
	} else {
		err = common.SendError(c, appErr.Status, appErr.Code, appErr.Message)
	}
	if err != nil {
		log.Printf("ERROR: failed to write error response: %v", err)
	}
}
