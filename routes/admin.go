package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gig-booking-server/database"
	"gig-booking-server/middleware"
	"gig-booking-server/models"
	"gig-booking-server/websocket"
)

// RegisterAdminRoutes registers admin reporting routes
func RegisterAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", getAdminDashboard)
		admin.GET("/users", listUsers)
		admin.PATCH("/users/:id/active", setUserActive)
		admin.GET("/activity", getRecentActivity)
		admin.POST("/announce", announce)
	}
}

// getAdminDashboard returns platform-wide counts and totals
func getAdminDashboard(c *gin.Context) {
	db := database.DB

	var totalUsers, totalMusicians, totalClients int64
	db.Model(&models.User{}).Count(&totalUsers)
	db.Model(&models.User{}).Where("role = ?", models.RoleMusician).Count(&totalMusicians)
	db.Model(&models.User{}).Where("role = ?", models.RoleClient).Count(&totalClients)

	bookingsByStatus := make(map[string]int64)
	for _, status := range []models.BookingStatus{
		models.BookingStatusPending, models.BookingStatusConfirmed,
		models.BookingStatusInProgress, models.BookingStatusCompleted,
		models.BookingStatusRejected, models.BookingStatusCancelled,
		models.BookingStatusRescheduled,
	} {
		var count int64
		db.Model(&models.Booking{}).Where("status = ?", status).Count(&count)
		bookingsByStatus[string(status)] = count
	}

	var totalBookings, totalGigs, totalPayments int64
	db.Model(&models.Booking{}).Count(&totalBookings)
	db.Model(&models.Gig{}).Count(&totalGigs)
	db.Model(&models.Payment{}).Count(&totalPayments)

	var totalRevenue float64
	db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalRevenue)

	var onlineUsers []uint
	if wsHub != nil {
		onlineUsers = wsHub.ConnectedUsers()
	}

	c.JSON(http.StatusOK, gin.H{
		"users": gin.H{
			"total":     totalUsers,
			"musicians": totalMusicians,
			"clients":   totalClients,
		},
		"bookings": gin.H{
			"total":     totalBookings,
			"by_status": bookingsByStatus,
		},
		"gigs":          gin.H{"total": totalGigs},
		"payments":      gin.H{"total": totalPayments},
		"total_revenue": totalRevenue,
		"online_users":  onlineUsers,
	})
}

// listUsers returns all user accounts with pagination
func listUsers(c *gin.Context) {
	page, perPage := parsePagination(c)

	q := database.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		q = q.Where("username LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	q.Count(&total)

	var users []models.User
	if err := q.Preload("MusicianProfile").
		Order("created_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Storage error",
			"message": "Failed to load users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
	})
}

// setUserActive activates or deactivates a user account
func setUserActive(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "User not found",
			"message": "The requested user does not exist",
		})
		return
	}

	if err := database.DB.Model(&user).Update("is_active", *req.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Storage error",
			"message": "Failed to update user",
		})
		return
	}
	user.IsActive = *req.IsActive

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

// getRecentActivity returns the newest activity log entries
func getRecentActivity(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := parsePositiveInt(v); err == nil {
			limit = parsed
		}
	}

	var userID *uint
	if v := c.Query("user_id"); v != "" {
		if parsed, err := parsePositiveInt(v); err == nil {
			id := uint(parsed)
			userID = &id
		}
	}

	entries, err := activityRecorder.RecentActivity(userID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": entries})
}

// announce pushes a platform-wide notification to every connected client
func announce(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	if wsHub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Notifications unavailable",
			"message": "The notification hub is not running",
		})
		return
	}

	wsHub.Broadcast <- &websocket.Notification{
		Type:        "announcement",
		Description: req.Message,
		Timestamp:   time.Now().UTC(),
	}

	c.JSON(http.StatusOK, gin.H{"message": "Announcement sent"})
}
