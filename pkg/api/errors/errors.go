// Package errors maps domain failures to JSON response envelopes. Every
// failure response carries success=false and a human-readable message;
// store and infrastructure errors are logged but never exposed verbatim.
package errors

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadhub/leadhub/pkg/models"
)

// ValidationError returns a 400 with the validation message
func ValidationError(c echo.Context, err error) error {
	log.Printf("[VALIDATION ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error:   "validation_error",
		Message: "Invalid request data. Please check your input and try again.",
	})
}

// ConflictError returns a 409 with a safe-to-expose message
func ConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, models.ErrorResponse{
		Success: false,
		Error:   "conflict",
		Message: message,
	})
}

// NotFoundError returns a 404 for a missing resource
func NotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Success: false,
		Error:   "not_found",
		Message: resource + " not found",
	})
}

// UnauthorizedError returns a 401
func UnauthorizedError(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Error:   "unauthorized",
		Message: message,
	})
}

// StoreError returns a generic 500 without exposing internal details
func StoreError(c echo.Context, err error) error {
	log.Printf("[STORE ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Success: false,
		Error:   "store_error",
		Message: "A storage error occurred. Please try again later.",
	})
}

// InternalError returns a generic 500
func InternalError(c echo.Context, err error) error {
	log.Printf("[INTERNAL ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Success: false,
		Error:   "internal_error",
		Message: "An internal error occurred. Please try again later.",
	})
}
