package models

import (
	"time"
)

type GigStatus string

const (
	GigStatusScheduled  GigStatus = "scheduled"
	GigStatusConfirmed  GigStatus = "confirmed"
	GigStatusInProgress GigStatus = "in_progress"
	GigStatusCompleted  GigStatus = "completed"
	GigStatusCancelled  GigStatus = "cancelled"
	GigStatusPostponed  GigStatus = "postponed"
)

// Gig is a musician-owned calendar entry for committed performance time.
// It may be derived from a confirmed booking (BookingID set) or created
// directly by the musician. A booking links to its gig by id only; the
// gig outlives the booking.
type Gig struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	MusicianID          uint      `json:"musician_id" gorm:"not null;index"`
	BookingID           *uint     `json:"booking_id" gorm:"index"` // originating booking, if any
	Title               string    `json:"title" gorm:"size:200;not null"`
	VenueName           string    `json:"venue_name" gorm:"size:200;not null"`
	VenueAddress        *string   `json:"venue_address" gorm:"size:500"`
	VenueContact        *string   `json:"venue_contact" gorm:"size:100"`
	GigDate             time.Time `json:"gig_date" gorm:"not null;index"`
	StartTime           string    `json:"start_time" gorm:"size:5;not null"` // HH:MM
	EndTime             *string   `json:"end_time" gorm:"size:5"`
	GigType             EventType `json:"gig_type" gorm:"type:varchar(30);not null;default:'other'"`
	Status              GigStatus `json:"status" gorm:"type:varchar(20);not null;default:'scheduled';index"`
	AgreedAmount        *float64  `json:"agreed_amount" gorm:"type:decimal(10,2)"`
	PaymentTerms        *string   `json:"payment_terms" gorm:"type:text"`
	EquipmentRequired   *string   `json:"equipment_required" gorm:"size:100"`
	SpecialRequirements *string   `json:"special_requirements" gorm:"type:text"`
	AudienceSize        *int      `json:"audience_size"`
	PerformanceNotes    *string   `json:"performance_notes" gorm:"type:text"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Musician User `json:"musician,omitempty" gorm:"foreignKey:MusicianID"`
}

// TableName specifies the table name for the Gig model
func (Gig) TableName() string {
	return "gigs"
}

// IsValid reports whether the status is a known gig status
func (s GigStatus) IsValid() bool {
	switch s {
	case GigStatusScheduled, GigStatusConfirmed, GigStatusInProgress,
		GigStatusCompleted, GigStatusCancelled, GigStatusPostponed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the gig no longer occupies calendar time
func (s GigStatus) IsTerminal() bool {
	return s == GigStatusCancelled || s == GigStatusCompleted
}

// GigCreate represents the request structure for creating a gig directly
type GigCreate struct {
	Title               string    `json:"title" binding:"required,max=200"`
	VenueName           string    `json:"venue_name" binding:"required,max=200"`
	VenueAddress        *string   `json:"venue_address"`
	VenueContact        *string   `json:"venue_contact"`
	GigDate             string    `json:"gig_date" binding:"required"` // YYYY-MM-DD
	StartTime           string    `json:"start_time" binding:"required"`
	EndTime             *string   `json:"end_time"`
	GigType             EventType `json:"gig_type"`
	AgreedAmount        *float64  `json:"agreed_amount"`
	PaymentTerms        *string   `json:"payment_terms"`
	EquipmentRequired   *string   `json:"equipment_required"`
	SpecialRequirements *string   `json:"special_requirements"`
	AudienceSize        *int      `json:"audience_size"`
	PerformanceNotes    *string   `json:"performance_notes"`
}

// GigUpdate represents the request structure for updating a gig
type GigUpdate struct {
	Title               *string    `json:"title"`
	VenueName           *string    `json:"venue_name"`
	VenueAddress        *string    `json:"venue_address"`
	VenueContact        *string    `json:"venue_contact"`
	GigDate             *string    `json:"gig_date"`
	StartTime           *string    `json:"start_time"`
	EndTime             *string    `json:"end_time"`
	GigType             *EventType `json:"gig_type"`
	AgreedAmount        *float64   `json:"agreed_amount"`
	PaymentTerms        *string    `json:"payment_terms"`
	EquipmentRequired   *string    `json:"equipment_required"`
	SpecialRequirements *string    `json:"special_requirements"`
	AudienceSize        *int       `json:"audience_size"`
	PerformanceNotes    *string    `json:"performance_notes"`
}
