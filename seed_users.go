package main

import (
	"log"

	"gig-booking-server/database"
	"gig-booking-server/models"
	"gig-booking-server/utils"
)

// seedUsers inserts a small set of development accounts. Existing rows
// are left alone so the seed is safe to run repeatedly.
func seedUsers() {
	log.Println("🌱 Seeding development users...")

	type seedAccount struct {
		username string
		email    string
		role     models.UserRole
		profile  *models.MusicianProfile
	}

	genres := "rock, blues, jazz"
	location := "Kathmandu"
	rate := 2500.0

	accounts := []seedAccount{
		{username: "admin", email: "admin@gigbooking.local", role: models.RoleAdmin},
		{username: "sita_events", email: "sita@gigbooking.local", role: models.RoleClient},
		{username: "ramesh_venue", email: "ramesh@gigbooking.local", role: models.RoleClient},
		{
			username: "the_midnight_band", email: "midnight@gigbooking.local", role: models.RoleMusician,
			profile: &models.MusicianProfile{
				StageName:          "The Midnight Band",
				Genres:             &genres,
				HourlyRate:         &rate,
				Location:           &location,
				AvailabilityStatus: "available",
			},
		},
		{
			username: "solo_sarangi", email: "sarangi@gigbooking.local", role: models.RoleMusician,
			profile: &models.MusicianProfile{
				StageName:          "Solo Sarangi",
				AvailabilityStatus: "available",
			},
		},
	}

	passwordHash, err := utils.HashPassword("ChangeMe123!")
	if err != nil {
		log.Printf("❌ Seed aborted, password hashing failed: %v", err)
		return
	}

	seeded := 0
	for _, account := range accounts {
		var existing models.User
		if err := database.DB.Where("email = ?", account.email).First(&existing).Error; err == nil {
			continue
		}

		user := models.User{
			Username:     account.username,
			Email:        account.email,
			PasswordHash: passwordHash,
			Role:         account.role,
			IsActive:     true,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("❌ Failed to seed user %s: %v", account.username, err)
			continue
		}

		if account.profile != nil {
			account.profile.UserID = user.ID
			if err := database.DB.Create(account.profile).Error; err != nil {
				log.Printf("❌ Failed to seed profile for %s: %v", account.username, err)
			}
		}
		seeded++
	}

	log.Printf("✅ Seeded %d development users", seeded)
}
