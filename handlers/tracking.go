package handlers

import (
	"errors"
	"net/http"

	"maideasy/models"
	"maideasy/services/booking"
	"maideasy/services/tracking"
	"maideasy/utils"

	"github.com/gin-gonic/gin"
)

var errNotTrackable = errors.New("booking is not active")

// Tracker runs the live maid journeys.
type Tracker interface {
	Start(bookingID, userID string) (tracking.Snapshot, error)
	Get(bookingID, userID string) (tracking.Snapshot, error)
	Stop(bookingID, userID string) error
}

// TrackingHandler serves the live tracking view of a booking.
type TrackingHandler struct {
	Tracker  Tracker
	Bookings booking.BookingHistoryService
}

func NewTrackingHandler(tracker Tracker, bookings booking.BookingHistoryService) *TrackingHandler {
	return &TrackingHandler{Tracker: tracker, Bookings: bookings}
}

// StartTracking begins, or resumes, the journey for a booking the caller
// owns.
func (h *TrackingHandler) StartTracking(c *gin.Context) {
	bookingID := c.Param("bookingID")
	userID := currentUserID(c)

	b, err := h.Bookings.GetBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		respondError(c, "Failed to start tracking", err)
		return
	}
	if b.Status == models.BookingStatusCancelled || b.Status == models.BookingStatusCompleted {
		c.AbortWithStatusJSON(http.StatusConflict, utils.ErrorResponse{Error: errNotTrackable.Error(), Details: string(b.Status)})
		return
	}

	snapshot, err := h.Tracker.Start(bookingID, userID)
	if err != nil {
		respondError(c, "Failed to start tracking", err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *TrackingHandler) GetTracking(c *gin.Context) {
	snapshot, err := h.Tracker.Get(c.Param("bookingID"), currentUserID(c))
	if err != nil {
		respondError(c, "Failed to get tracking", err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *TrackingHandler) StopTracking(c *gin.Context) {
	if err := h.Tracker.Stop(c.Param("bookingID"), currentUserID(c)); err != nil {
		respondError(c, "Failed to stop tracking", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tracking stopped"})
}
