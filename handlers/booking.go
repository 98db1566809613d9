package handlers

import (
	"net/http"
	"strings"

	"maideasy/models"
	"maideasy/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves booking sessions and the user's booking history.
type BookingHandler struct {
	Sessions booking.BookingSessionService
	History  booking.BookingHistoryService
}

func NewBookingHandler(sessions booking.BookingSessionService, history booking.BookingHistoryService) *BookingHandler {
	return &BookingHandler{Sessions: sessions, History: history}
}

// InitiateSession starts an empty booking session.
func (h *BookingHandler) InitiateSession(c *gin.Context) {
	session, err := h.Sessions.InitiateSession(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, "Failed to start booking", err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *BookingHandler) GetSession(c *gin.Context) {
	session, err := h.Sessions.GetSession(c.Request.Context(), c.Param("sessionID"), currentUserID(c))
	if err != nil {
		respondError(c, "Failed to get booking session", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *BookingHandler) SelectService(c *gin.Context) {
	var req struct {
		ServiceID string `json:"serviceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.Sessions.SelectService(c.Request.Context(), c.Param("sessionID"), currentUserID(c), req.ServiceID)
	if err != nil {
		respondError(c, "Failed to select service", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *BookingHandler) SelectProvider(c *gin.Context) {
	var req struct {
		MaidID string `json:"maidId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.Sessions.SelectProvider(c.Request.Context(), c.Param("sessionID"), currentUserID(c), req.MaidID)
	if err != nil {
		respondError(c, "Failed to select maid", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *BookingHandler) SetDateTime(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.Sessions.SetDateTime(c.Request.Context(), c.Param("sessionID"), currentUserID(c), req.Date, req.Time)
	if err != nil {
		respondError(c, "Failed to set date and time", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *BookingHandler) SetAddress(c *gin.Context) {
	var req struct {
		Address string `json:"address"`
		Notes   string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.Sessions.SetAddress(c.Request.Context(), c.Param("sessionID"), currentUserID(c), req.Address, req.Notes)
	if err != nil {
		respondError(c, "Failed to set address", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Quote returns the payment breakdown for the session as it stands.
func (h *BookingHandler) Quote(c *gin.Context) {
	breakdown, err := h.Sessions.Quote(c.Request.Context(), c.Param("sessionID"), currentUserID(c))
	if err != nil {
		respondError(c, "Failed to price booking", err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// ConfirmBooking submits the session with the chosen payment method.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var req struct {
		PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	receipt, err := h.Sessions.ConfirmBooking(c.Request.Context(), c.Param("sessionID"), currentUserID(c), req.PaymentMethod)
	if err != nil {
		respondError(c, "Failed to confirm booking", err)
		return
	}
	getLogger(c).Info("Booking confirmed", zap.String("bookingID", receipt.BookingID))
	c.JSON(http.StatusCreated, receipt)
}

func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.Sessions.CancelSession(c.Request.Context(), c.Param("sessionID"), currentUserID(c)); err != nil {
		respondError(c, "Failed to cancel booking session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking session cancelled"})
}

// ListBookings supports ?status=pending,confirmed.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var statuses []models.BookingStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, models.BookingStatus(s))
			}
		}
	}
	bookings, err := h.History.ListUserBookings(c.Request.Context(), currentUserID(c), statuses)
	if err != nil {
		respondError(c, "Failed to get bookings", err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.History.GetBooking(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, "Failed to get booking", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.History.UpdateStatus(c.Request.Context(), c.Param("id"), currentUserID(c), req.Status)
	if err != nil {
		respondError(c, "Failed to update booking", err)
		return
	}
	c.JSON(http.StatusOK, b)
}
