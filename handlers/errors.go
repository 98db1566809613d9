package handlers

import (
	"errors"
	"net/http"

	"maideasy/services/booking"
	"maideasy/services/catalog"
	"maideasy/services/storage"
	"maideasy/services/tracking"
	"maideasy/services/user"
	"maideasy/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps a service error onto the HTTP status the client sees.
func statusFor(err error) int {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrIncompleteBooking),
		errors.Is(err, booking.ErrInvalidMethod),
		errors.Is(err, booking.ErrInvalidStatus),
		errors.Is(err, catalog.ErrInvalidCategory),
		errors.Is(err, user.ErrInvalidChannel),
		errors.Is(err, user.ErrInvalidIdentifier),
		errors.Is(err, user.ErrInvalidName),
		errors.Is(err, user.ErrMissingField),
		errors.Is(err, storage.ErrEmptyUpload):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrInvalidOTP),
		errors.Is(err, user.ErrOTPExpired),
		errors.Is(err, user.ErrInvalidSession):
		return http.StatusUnauthorized
	case errors.Is(err, booking.ErrSessionForbidden):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrSessionNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, catalog.ErrServiceNotFound),
		errors.Is(err, catalog.ErrProviderNotFound),
		errors.Is(err, tracking.ErrTrackingNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrSubmissionInProgress),
		errors.Is(err, user.ErrIdentifierInUse):
		return http.StatusConflict
	case errors.Is(err, tracking.ErrTooManyJourneys):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the mapped status. Internal errors are
// logged and their details withheld.
func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		getLogger(c).Error(message, zap.Error(err))
		c.AbortWithStatusJSON(status, utils.ErrorResponse{Error: message})
		return
	}
	c.AbortWithStatusJSON(status, utils.ErrorResponse{Error: message, Details: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
}
