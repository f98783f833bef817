package models

import (
	"time"
)

type UserRole string

const (
	RoleClient   UserRole = "client"
	RoleMusician UserRole = "musician"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:100;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'client';check:role IN ('client','musician','admin')"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	MusicianProfile *MusicianProfile `json:"musician_profile,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsValidRole checks if the user role is valid
func (u *User) IsValidRole() bool {
	switch u.Role {
	case RoleClient, RoleMusician, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsMusician checks if the user is a musician
func (u *User) IsMusician() bool {
	return u.Role == RoleMusician
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsClient checks if the user is a client
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// MusicianProfile holds musician-specific profile data for a user
type MusicianProfile struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	UserID             uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	StageName          string    `json:"stage_name" gorm:"size:100"`
	Genres             *string   `json:"genres" gorm:"type:text"`
	HourlyRate         *float64  `json:"hourly_rate" gorm:"type:decimal(10,2)"`
	Location           *string   `json:"location" gorm:"size:255"`
	AvailabilityStatus string    `json:"availability_status" gorm:"type:varchar(20);default:'available'"` // available, busy, unavailable
	Rating             float64   `json:"rating" gorm:"type:decimal(3,2);default:0"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (MusicianProfile) TableName() string {
	return "musician_profiles"
}
