package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gig-booking-server/middleware"
	"gig-booking-server/models"
	"gig-booking-server/services"
)

// RegisterBookingRoutes registers booking lifecycle routes
func RegisterBookingRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.POST("", middleware.RequireRole(models.RoleClient), createBooking)
		bookings.GET("", listBookings)
		bookings.GET("/stats", getBookingStats)
		bookings.GET("/upcoming", middleware.RequireMusician(), getUpcomingBookings)
		bookings.GET("/calendar", middleware.RequireMusician(), getBookingCalendar)
		bookings.GET("/:id", getBooking)
		bookings.PATCH("/:id/status", middleware.RequireMusician(), updateBookingStatus)
		bookings.POST("/:id/cancel", middleware.RequireRole(models.RoleClient), cancelBooking)
		bookings.POST("/:id/reschedule", rescheduleBooking)
	}
}

// createBooking handles a client's booking request
func createBooking(c *gin.Context) {
	clientID := c.GetUint("user_id")

	var req models.BookingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	booking, err := bookingService.CreateBooking(clientID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notifyUser(booking.MusicianID, "booking_request",
		fmt.Sprintf("New booking request: %s on %s", booking.EventTitle, booking.EventDate.Format("2006-01-02")),
		booking)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking request created successfully",
		"booking": booking,
	})
}

// listBookings returns the caller's bookings, scoped by role
func listBookings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	filter, ok := bookingFilterFromQuery(c)
	if !ok {
		return
	}

	var (
		bookings   []models.Booking
		pagination *services.Pagination
		err        error
	)
	switch {
	case user.IsMusician():
		bookings, pagination, err = bookingService.ListMusicianBookings(user.ID, filter)
	case user.IsAdmin():
		bookings, pagination, err = bookingService.ListAllBookings(filter)
	default:
		bookings, pagination, err = bookingService.ListClientBookings(user.ID, filter)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings":   bookings,
		"pagination": pagination,
	})
}

// getBooking returns one booking, visible only to its parties and admins
func getBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := bookingService.GetBooking(bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if booking.ClientID != user.ID && booking.MusicianID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"message": "You are not a party to this booking",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// updateBookingStatus handles musician-side lifecycle transitions
func updateBookingStatus(c *gin.Context) {
	musicianID := c.GetUint("user_id")
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.BookingStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	booking, err := bookingService.UpdateStatus(bookingID, musicianID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notifyUser(booking.ClientID, "booking_status",
		fmt.Sprintf("Your booking %q is now %s", booking.EventTitle, booking.Status),
		booking)

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status updated successfully",
		"booking": booking,
	})
}

// cancelBooking handles a client-side cancellation
func cancelBooking(c *gin.Context) {
	clientID := c.GetUint("user_id")
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.BookingCancel
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	booking, err := bookingService.CancelBooking(bookingID, clientID, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notifyUser(booking.MusicianID, "booking_cancelled",
		fmt.Sprintf("Booking %q was cancelled by the client", booking.EventTitle),
		booking)

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled successfully",
		"booking": booking,
	})
}

// rescheduleBooking moves a confirmed booking to a new slot
func rescheduleBooking(c *gin.Context) {
	actorID := c.GetUint("user_id")
	bookingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.BookingReschedule
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	booking, err := bookingService.RescheduleBooking(bookingID, actorID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Notify the other party
	counterparty := booking.ClientID
	if actorID == booking.ClientID {
		counterparty = booking.MusicianID
	}
	notifyUser(counterparty, "booking_rescheduled",
		fmt.Sprintf("Booking %q was rescheduled to %s %s", booking.EventTitle,
			booking.EventDate.Format("2006-01-02"), booking.StartTime),
		booking)

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking rescheduled successfully",
		"booking": booking,
	})
}

// getBookingStats returns booking reporting for the caller
func getBookingStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	period := c.DefaultQuery("period", "all")

	var (
		stats *services.BookingStats
		err   error
	)
	if user.IsMusician() {
		stats, err = bookingService.MusicianBookingStats(user.ID, period)
	} else {
		stats, err = bookingService.ClientBookingStats(user.ID, period)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// getUpcomingBookings returns the musician's next confirmed engagements
func getUpcomingBookings(c *gin.Context) {
	musicianID := c.GetUint("user_id")

	limit := 10
	if v := c.Query("limit"); v != "" {
		if parsed, err := parsePositiveInt(v); err == nil {
			limit = parsed
		}
	}

	bookings, err := bookingService.UpcomingBookings(musicianID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// getBookingCalendar returns the musician's bookings inside a date range
func getBookingCalendar(c *gin.Context) {
	musicianID := c.GetUint("user_id")

	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	// Default to the current month
	now := time.Now().UTC()
	if from == nil {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		from = &start
	}
	if to == nil {
		end := from.AddDate(0, 1, 0)
		to = &end
	}

	bookings, err := bookingService.CalendarBookings(musicianID, *from, *to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"from":     from.Format("2006-01-02"),
		"to":       to.Format("2006-01-02"),
	})
}

// bookingFilterFromQuery builds a listing filter from query params
func bookingFilterFromQuery(c *gin.Context) (services.BookingFilter, bool) {
	page, perPage := parsePagination(c)

	from, ok := parseDateQuery(c, "date_from")
	if !ok {
		return services.BookingFilter{}, false
	}
	to, ok := parseDateQuery(c, "date_to")
	if !ok {
		return services.BookingFilter{}, false
	}

	return services.BookingFilter{
		Status:    models.BookingStatus(c.Query("status")),
		EventType: models.EventType(c.Query("event_type")),
		DateFrom:  from,
		DateTo:    to,
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		Page:      page,
		PerPage:   perPage,
	}, true
}
