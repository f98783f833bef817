package routes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gig-booking-server/config"
	"gig-booking-server/middleware"
	"gig-booking-server/models"
	"gig-booking-server/services"
	"gig-booking-server/websocket"
)

var (
	bookingService   *services.BookingService
	gigService       *services.GigService
	paymentService   *services.PaymentService
	activityRecorder *services.ActivityRecorder
	wsHub            *websocket.Hub
)

// RegisterRoutes wires all API routes onto the router
func RegisterRoutes(router *gin.Engine, db *gorm.DB, recorder *services.ActivityRecorder, hub *websocket.Hub) {
	activityRecorder = recorder
	wsHub = hub
	bookingService = services.NewBookingService(db, recorder)
	gigService = services.NewGigService(db, recorder)
	paymentService = services.NewPaymentService(db, recorder)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")
	{
		RegisterAuthRoutes(apiV1)
		RegisterBookingRoutes(apiV1)
		RegisterGigRoutes(apiV1)
		RegisterPaymentRoutes(apiV1)
		RegisterAdminRoutes(apiV1)

		// WebSocket endpoint for booking notifications
		apiV1.GET("/ws", middleware.WebSocketAuthMiddleware(), func(c *gin.Context) {
			userID := c.GetUint("user_id")
			role := c.GetString("user_role")
			websocket.ServeWebSocket(hub, c.Writer, c.Request, userID, role)
		})
	}
}

// respondServiceError maps a service error kind to an HTTP status
func respondServiceError(c *gin.Context, err error) {
	svcErr := services.AsServiceError(err)

	status := http.StatusInternalServerError
	title := "Internal error"
	switch svcErr.Kind {
	case services.ErrKindValidation:
		status = http.StatusBadRequest
		title = "Invalid request data"
	case services.ErrKindUnauthorized:
		status = http.StatusForbidden
		title = "Access denied"
	case services.ErrKindNotFound:
		status = http.StatusNotFound
		title = "Not found"
	case services.ErrKindConflict:
		status = http.StatusConflict
		title = "Scheduling conflict"
	case services.ErrKindInvalidTransition:
		status = http.StatusConflict
		title = "Invalid status change"
	case services.ErrKindPersistence:
		status = http.StatusInternalServerError
		title = "Storage error"
	}

	c.JSON(status, gin.H{
		"error":   title,
		"message": svcErr.Message,
	})
}

// parsePagination reads page/per_page query params with configured caps
func parsePagination(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	defaultSize := 20
	maxSize := 100
	if config.AppConfig != nil {
		defaultSize = config.AppConfig.Booking.DefaultPageSize
		maxSize = config.AppConfig.Booking.MaxPageSize
	}

	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultSize)))
	if perPage < 1 {
		perPage = defaultSize
	}
	if perPage > maxSize {
		perPage = maxSize
	}
	return page, perPage
}

// parsePositiveInt parses a positive integer query value
func parsePositiveInt(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.New("value must be positive")
	}
	return n, nil
}

// parseIDParam reads a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid ID",
			"message": "The " + name + " parameter must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid date",
			"message": "The " + name + " parameter must be in YYYY-MM-DD format",
		})
		return nil, false
	}
	t = t.UTC()
	return &t, true
}

// currentUser returns the authenticated user set by AuthMiddleware
func currentUser(c *gin.Context) (models.User, bool) {
	userValue, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authentication required",
			"message": "Please log in to access this resource",
		})
		return models.User{}, false
	}
	user, ok := userValue.(models.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Invalid user context",
			"message": "Unable to resolve the authenticated user",
		})
		return models.User{}, false
	}
	return user, true
}

// notifyUser pushes a websocket notification if the hub is running
func notifyUser(userID uint, notificationType, description string, data interface{}) {
	if wsHub == nil {
		return
	}
	wsHub.SendToUser(userID, &websocket.Notification{
		Type:        notificationType,
		Description: description,
		Data:        data,
	})
}
