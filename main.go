package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gig-booking-server/config"
	"gig-booking-server/database"
	"gig-booking-server/middleware"
	"gig-booking-server/models"
	"gig-booking-server/routes"
	"gig-booking-server/services"
	ws "gig-booking-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security headers (must be first)
	router.Use(middleware.SecurityHeadersMiddleware())

	// Rate limiting
	router.Use(middleware.RateLimitMiddleware())

	// CORS
	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://localhost:8081"}
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Audit logging
	router.Use(middleware.AuditLogMiddleware())

	// WebSocket hub for booking notifications
	hub := ws.NewHub()
	go hub.Run()

	// Best-effort activity recorder, feeding the hub
	recorder := services.NewActivityRecorder(database.DB)
	recorder.SetNotifier(func(entry models.ActivityLog) {
		hub.SendToUser(entry.UserID, &ws.Notification{
			Type:        entry.ActivityType,
			Description: entry.Description,
			Timestamp:   entry.CreatedAt,
		})
	})
	defer recorder.Stop()

	// Register all API routes
	routes.RegisterRoutes(router, database.DB, recorder, hub)

	// Periodic rate limiter cleanup
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			middleware.CleanupRateLimiters()
		}
	}()

	// Optional development seed
	if os.Getenv("SEED_DATA") == "true" {
		seedUsers()
	}

	port := config.AppConfig.Server.Port
	log.Printf("🎸 Gig booking server listening on port %s", port)
	if err := router.Run(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
