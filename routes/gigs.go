package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gig-booking-server/middleware"
	"gig-booking-server/models"
	"gig-booking-server/services"
)

// GigStatusUpdate represents the request structure for a gig status change
type GigStatusUpdate struct {
	Status models.GigStatus `json:"status" binding:"required"`
}

// RegisterGigRoutes registers gig calendar routes
func RegisterGigRoutes(router *gin.RouterGroup) {
	gigs := router.Group("/gigs")
	gigs.Use(middleware.AuthMiddleware(), middleware.RequireMusician())
	{
		gigs.POST("", createGig)
		gigs.GET("", listGigs)
		gigs.GET("/stats", getGigStats)
		gigs.GET("/upcoming", getUpcomingGigs)
		gigs.GET("/calendar", getGigCalendar)
		gigs.GET("/:id", getGig)
		gigs.PUT("/:id", updateGig)
		gigs.PATCH("/:id/status", updateGigStatus)
		gigs.DELETE("/:id", deleteGig)
	}
}

// createGig adds a standalone engagement to the musician's calendar
func createGig(c *gin.Context) {
	musicianID := c.GetUint("user_id")

	var req models.GigCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	gig, err := gigService.CreateGig(musicianID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Gig created successfully",
		"gig":     gig,
	})
}

// listGigs returns the musician's gigs, filtered and paginated
func listGigs(c *gin.Context) {
	musicianID := c.GetUint("user_id")

	page, perPage := parsePagination(c)
	from, ok := parseDateQuery(c, "date_from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "date_to")
	if !ok {
		return
	}

	filter := services.GigFilter{
		Status:   models.GigStatus(c.Query("status")),
		GigType:  models.EventType(c.Query("gig_type")),
		DateFrom: from,
		DateTo:   to,
		Search:   c.Query("search"),
		Page:     page,
		PerPage:  perPage,
	}

	gigs, pagination, err := gigService.ListGigs(musicianID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gigs":       gigs,
		"pagination": pagination,
	})
}

// getGig returns one gig, visible only to its musician
func getGig(c *gin.Context) {
	musicianID := c.GetUint("user_id")
	gigID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	gig, err := gigService.GetGig(gigID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if gig.MusicianID != musicianID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"message": "This gig belongs to another musician",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"gig": gig})
}

// updateGig edits a gig's details and schedule
func updateGig(c *gin.Context) {
	musicianID := c.GetUint("user_id")
	gigID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.GigUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	gig, err := gigService.UpdateGig(gigID, musicianID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Gig updated successfully",
		"gig":     gig,
	})
}

// updateGigStatus moves a gig through its lifecycle
func updateGigStatus(c *gin.Context) {
	musicianID := c.GetUint("user_id")
	gigID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req GigStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	gig, err := gigService.UpdateGigStatus(gigID, musicianID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Gig status updated successfully",
		"gig":     gig,
	})
}

// deleteGig removes a standalone gig from the calendar
func deleteGig(c *gin.Context) {
	musicianID := c.GetUint("user_id")
	gigID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := gigService.DeleteGig(gigID, musicianID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gig deleted successfully"})
}

// getGigStats returns the musician's gig counts and earnings
func getGigStats(c *gin.Context) {
	musicianID := c.GetUint("user_id")

	stats, err := gigService.MusicianGigStats(musicianID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// getUpcomingGigs returns the musician's next scheduled gigs
func getUpcomingGigs(c *gin.Context) {
	musicianID := c.GetUint("user_id")

	limit := 10
	if v := c.Query("limit"); v != "" {
		if parsed, err := parsePositiveInt(v); err == nil {
			limit = parsed
		}
	}

	gigs, err := gigService.UpcomingGigs(musicianID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

// getGigCalendar returns the musician's gigs inside a date range
func getGigCalendar(c *gin.Context) {
	musicianID := c.GetUint("user_id")

	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	now := time.Now().UTC()
	if from == nil {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		from = &start
	}
	if to == nil {
		end := from.AddDate(0, 1, 0)
		to = &end
	}

	gigs, err := gigService.CalendarGigs(musicianID, *from, *to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gigs": gigs,
		"from": from.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
	})
}
