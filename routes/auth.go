package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gig-booking-server/config"
	"gig-booking-server/database"
	"gig-booking-server/middleware"
	"gig-booking-server/models"
	"gig-booking-server/utils"
)

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// MusicianProfileRequest represents the musician profile payload
type MusicianProfileRequest struct {
	StageName          string   `json:"stage_name" binding:"required,max=100"`
	Genres             *string  `json:"genres"`
	HourlyRate         *float64 `json:"hourly_rate"`
	Location           *string  `json:"location"`
	AvailabilityStatus string   `json:"availability_status"`
}

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware())
	{
		auth.POST("/register", register)
		auth.POST("/login", login)
		auth.GET("/me", middleware.AuthMiddleware(), getCurrentUser)
		auth.PUT("/musician-profile", middleware.AuthMiddleware(), middleware.RequireMusician(), upsertMusicianProfile)
	}
}

// register handles user registration
func register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	role := models.UserRole(req.Role)
	if req.Role == "" {
		role = models.RoleClient
	}
	// Admin accounts are provisioned out of band
	if role != models.RoleClient && role != models.RoleMusician {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid role",
			"message": "Role must be client or musician",
		})
		return
	}

	// Check if user already exists
	var existingUser models.User
	if err := database.DB.Where("email = ? OR username = ?", req.Email, req.Username).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "User already exists",
			"message": "A user with this email or username already exists",
		})
		return
	}

	// Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Password hashing failed",
			"message": "Failed to process password",
		})
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		IsActive:     true,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "User creation failed",
			"message": "Failed to create user account",
		})
		return
	}

	// Musicians start with an empty profile they can fill in later
	if role == models.RoleMusician {
		profile := models.MusicianProfile{
			UserID:             user.ID,
			StageName:          req.Username,
			AvailabilityStatus: "available",
		}
		if err := database.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Profile creation failed",
				"message": "Failed to create musician profile",
			})
			return
		}
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Token generation failed",
			"message": "Failed to generate authentication token",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "User registered successfully",
		"token":      token,
		"expires_in": config.AppConfig.JWT.ExpiryHours * 60 * 60,
		"user":       user,
	})
}

// login handles user authentication
func login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authentication failed",
			"message": "Invalid email or password",
		})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Account deactivated",
			"message": "Your account has been deactivated",
		})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authentication failed",
			"message": "Invalid email or password",
		})
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Token generation failed",
			"message": "Failed to generate authentication token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"token":      token,
		"expires_in": config.AppConfig.JWT.ExpiryHours * 60 * 60,
		"user":       user,
	})
}

// getCurrentUser returns the authenticated user with their musician profile
func getCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := database.DB.Preload("MusicianProfile").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "User not found",
			"message": "The requested user does not exist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// upsertMusicianProfile creates or updates the musician's profile
func upsertMusicianProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req MusicianProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	availability := req.AvailabilityStatus
	if availability == "" {
		availability = "available"
	}
	switch availability {
	case "available", "busy", "unavailable":
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid availability status",
			"message": "Availability must be available, busy, or unavailable",
		})
		return
	}

	var profile models.MusicianProfile
	err := database.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		profile = models.MusicianProfile{UserID: userID}
	}

	profile.StageName = req.StageName
	profile.Genres = req.Genres
	profile.HourlyRate = req.HourlyRate
	profile.Location = req.Location
	profile.AvailabilityStatus = availability

	if err := database.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Profile update failed",
			"message": "Failed to save musician profile",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}
