package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gig-booking-server/middleware"
	"gig-booking-server/models"
	"gig-booking-server/services"
)

// RegisterPaymentRoutes registers settlement routes
func RegisterPaymentRoutes(router *gin.RouterGroup) {
	bookingPayments := router.Group("/bookings/:id/payments")
	bookingPayments.Use(middleware.AuthMiddleware())
	{
		bookingPayments.POST("", recordPayment)
		bookingPayments.GET("", listBookingPayments)
	}

	payments := router.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.GET("", middleware.RequireMusician(), listMyPayments)
		payments.GET("/stats", middleware.RequireMusician(), getPaymentStats)
		payments.POST("/:id/refund", refundPayment)
		payments.PATCH("/:id/status", updatePaymentStatus)
	}
}

// bookingPartyOrAdmin loads a booking and verifies the caller may act on
// its payments
func bookingPartyOrAdmin(c *gin.Context, bookingID uint) (*models.Booking, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	booking, err := bookingService.GetBooking(bookingID)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}

	if booking.ClientID != user.ID && booking.MusicianID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"message": "You are not a party to this booking",
		})
		return nil, false
	}
	return booking, true
}

// recordPayment records a settlement against a booking
func recordPayment(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	booking, ok := bookingPartyOrAdmin(c, bookingID)
	if !ok {
		return
	}

	var req models.PaymentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	payment, err := paymentService.RecordPayment(bookingID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notifyUser(booking.MusicianID, "payment_recorded",
		"A payment was recorded on booking "+booking.EventTitle, payment)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment recorded successfully",
		"payment": payment,
	})
}

// listBookingPayments returns all payments on one booking
func listBookingPayments(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	booking, ok := bookingPartyOrAdmin(c, bookingID)
	if !ok {
		return
	}

	payments, err := paymentService.GetPaymentsByBooking(bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":       payments,
		"payment_status": booking.PaymentStatus,
	})
}

// refundPayment processes a full or partial refund of a paid payment
func refundPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Only the booked musician or an admin may issue refunds
	if !user.IsMusician() && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"message": "Only musicians or admins can issue refunds",
		})
		return
	}

	var req models.RefundCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	refund, err := paymentService.ProcessRefund(paymentID, req.Amount, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Refund processed successfully",
		"refund":  refund,
	})
}

// updatePaymentStatus marks a pending payment as paid or failed
func updatePaymentStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !user.IsMusician() && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"message": "Only musicians or admins can update payment status",
		})
		return
	}

	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.PaymentStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	payment, err := paymentService.UpdatePaymentStatus(paymentID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment status updated successfully",
		"payment": payment,
	})
}

// listMyPayments returns payments on the musician's bookings
func listMyPayments(c *gin.Context) {
	musicianID := c.GetUint("user_id")
	page, perPage := parsePagination(c)

	filter := services.PaymentFilter{
		Status:  models.PaymentStatus(c.Query("status")),
		Type:    models.PaymentType(c.Query("type")),
		Page:    page,
		PerPage: perPage,
	}

	payments, pagination, err := paymentService.ListMusicianPayments(musicianID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":   payments,
		"pagination": pagination,
	})
}

// getPaymentStats returns the musician's payment rollups
func getPaymentStats(c *gin.Context) {
	musicianID := c.GetUint("user_id")

	stats, err := paymentService.MusicianPaymentStats(musicianID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
