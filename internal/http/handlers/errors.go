// Package handlers defines the HTTP-layer error codes used across all API
// endpoints.
//
// Every error response carries an HTTP status and one of these codes, so
// clients can branch on the code without parsing messages:
//
//	{
//	  "success": false,
//	  "error": "farmer not found",
//	  "code": "farmer_not_found",
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/farmwise-backend/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeValidation       = "validation_failed"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeFarmerNotFound   = "farmer_not_found"
	ErrCodeLoginFailed      = "login_failed"
	ErrCodePredictionFailed = "prediction_failed"
	ErrCodeLookupFailed     = "lookup_failed"
)

// serviceError maps a service error to a status and code. fallback is the
// code used for unexpected (5xx) errors.
func serviceError(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, services.ErrFarmerNotFound):
		return http.StatusNotFound, ErrCodeFarmerNotFound
	case errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrInvalidProfile),
		errors.Is(err, services.ErrInvalidLanguage),
		errors.Is(err, services.ErrInvalidSeason),
		errors.Is(err, services.ErrInvalidArea),
		errors.Is(err, services.ErrMissingCrop),
		errors.Is(err, services.ErrInvalidCoordinates):
		return http.StatusBadRequest, ErrCodeValidation
	default:
		return http.StatusInternalServerError, fallback
	}
}

// failWith writes err through serviceError. 5xx responses hide the cause.
func failWith(c *gin.Context, err error, fallback string) {
	status, code := serviceError(err, fallback)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		msg = http.StatusText(status)
	}
	fail(c, status, code, msg)
}
