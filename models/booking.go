package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending     BookingStatus = "pending"
	BookingStatusConfirmed   BookingStatus = "confirmed"
	BookingStatusRejected    BookingStatus = "rejected"
	BookingStatusCancelled   BookingStatus = "cancelled"
	BookingStatusCompleted   BookingStatus = "completed"
	BookingStatusInProgress  BookingStatus = "in_progress"
	BookingStatusRescheduled BookingStatus = "rescheduled"
)

type EventType string

const (
	EventWedding    EventType = "wedding"
	EventParty      EventType = "party"
	EventCorporate  EventType = "corporate"
	EventConcert    EventType = "concert"
	EventFestival   EventType = "festival"
	EventBarClub    EventType = "bar_club"
	EventRestaurant EventType = "restaurant"
	EventPrivate    EventType = "private_event"
	EventCharity    EventType = "charity"
	EventOther      EventType = "other"
)

// PaymentRollup is the derived payment state of a booking, recomputed from
// its payment records. It is a read model and never drives the booking
// lifecycle status.
type PaymentRollup string

const (
	RollupUnpaid  PaymentRollup = "unpaid"
	RollupPartial PaymentRollup = "partial"
	RollupPaid    PaymentRollup = "paid"
)

type Booking struct {
	ID                 uint          `json:"id" gorm:"primaryKey"`
	ClientID           uint          `json:"client_id" gorm:"not null;index"`
	MusicianID         uint          `json:"musician_id" gorm:"not null;index"`
	EventTitle         string        `json:"event_title" gorm:"size:200;not null"`
	EventDate          time.Time     `json:"event_date" gorm:"not null;index"`
	StartTime          string        `json:"start_time" gorm:"size:5;not null"` // HH:MM
	EndTime            *string       `json:"end_time" gorm:"size:5"`            // open-ended bookings are legal
	VenueName          string        `json:"venue_name" gorm:"size:200;not null"`
	VenueAddress       *string       `json:"venue_address" gorm:"size:500"`
	EventType          EventType     `json:"event_type" gorm:"type:varchar(30);not null;default:'other'"`
	AudienceSize       *int          `json:"audience_size"`
	GenresRequested    *string       `json:"genres_requested" gorm:"type:text"`
	SpecialRequests    *string       `json:"special_requests" gorm:"type:text"`
	EquipmentProvided  bool          `json:"equipment_provided" gorm:"default:false"`
	TotalAmount        *float64      `json:"total_amount" gorm:"type:decimal(10,2)"`
	PaymentTerms       *string       `json:"payment_terms" gorm:"type:text"`
	ContractTerms      *string       `json:"contract_terms" gorm:"type:text"`
	Status             BookingStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus      PaymentRollup `json:"payment_status" gorm:"type:varchar(10);not null;default:'unpaid'"`
	GigID              *uint         `json:"gig_id" gorm:"index"` // set once confirmed, weak link
	RejectionReason    *string       `json:"rejection_reason" gorm:"size:500"`
	CancellationReason *string       `json:"cancellation_reason" gorm:"size:500"`
	RescheduleReason   *string       `json:"reschedule_reason" gorm:"size:500"`
	CreatedAt          time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Client   User `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Musician User `json:"musician,omitempty" gorm:"foreignKey:MusicianID"`
	Gig      *Gig `json:"gig,omitempty" gorm:"foreignKey:GigID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// bookingTransitions is the adjacency table for booking status changes.
// rejected, cancelled and completed are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:     {BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusConfirmed:   {BookingStatusInProgress, BookingStatusCancelled, BookingStatusRescheduled},
	BookingStatusInProgress:  {BookingStatusCompleted},
	BookingStatusRescheduled: {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusRejected:    {},
	BookingStatusCancelled:   {},
	BookingStatusCompleted:   {},
}

// ValidBookingTransition reports whether a booking may move from one status
// to another. Re-entrant transitions are not allowed.
func ValidBookingTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0 && s.IsValid()
}

// IsValid reports whether the status is a known booking status
func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// IsValidEventType reports whether the event type is a known value
func IsValidEventType(t EventType) bool {
	switch t {
	case EventWedding, EventParty, EventCorporate, EventConcert, EventFestival,
		EventBarClub, EventRestaurant, EventPrivate, EventCharity, EventOther:
		return true
	default:
		return false
	}
}

// BookingCreate represents the request structure for creating a booking
type BookingCreate struct {
	MusicianID        uint      `json:"musician_id" binding:"required"`
	EventTitle        string    `json:"event_title" binding:"required,max=200"`
	EventDate         string    `json:"event_date" binding:"required"` // YYYY-MM-DD
	StartTime         string    `json:"start_time" binding:"required"` // HH:MM
	EndTime           *string   `json:"end_time"`
	VenueName         string    `json:"venue_name" binding:"required,max=200"`
	VenueAddress      *string   `json:"venue_address"`
	EventType         EventType `json:"event_type" binding:"required"`
	AudienceSize      *int      `json:"audience_size"`
	GenresRequested   *string   `json:"genres_requested"`
	SpecialRequests   *string   `json:"special_requests"`
	EquipmentProvided bool      `json:"equipment_provided"`
	TotalAmount       *float64  `json:"total_amount"`
	PaymentTerms      *string   `json:"payment_terms"`
	ContractTerms     *string   `json:"contract_terms"`
}

// BookingStatusUpdate represents the request structure for a musician
// status transition, with the optional fields the transition may persist
type BookingStatusUpdate struct {
	Status          BookingStatus `json:"status" binding:"required"`
	TotalAmount     *float64      `json:"total_amount"`
	PaymentTerms    *string       `json:"payment_terms"`
	ContractTerms   *string       `json:"contract_terms"`
	RejectionReason *string       `json:"rejection_reason"`
}

// BookingReschedule represents the request structure for rescheduling
type BookingReschedule struct {
	EventDate string  `json:"event_date" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   *string `json:"end_time"`
	Reason    string  `json:"reason"`
}

// BookingCancel represents the request structure for a client cancellation
type BookingCancel struct {
	Reason string `json:"reason"`
}
