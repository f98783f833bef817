package models

import (
	"time"
)

// Activity types written by the best-effort activity recorder
const (
	ActivityBookingRequest     = "booking_request"
	ActivityBookingReceived    = "booking_received"
	ActivityBookingConfirmed   = "booking_confirmed"
	ActivityBookingRejected    = "booking_rejected"
	ActivityBookingCancelled   = "booking_cancelled"
	ActivityBookingRescheduled = "booking_rescheduled"
	ActivityBookingStatus      = "booking_status_updated"
	ActivityGigCreated         = "gig_created"
	ActivityGigStatusUpdated   = "gig_status_updated"
	ActivityPaymentRecorded    = "payment_recorded"
	ActivityPaymentRefunded    = "payment_refunded"
)

// ActivityLog is a human-readable activity entry keyed by user.
// Writes are fire-and-forget; a failed write never fails the
// business operation that produced it.
type ActivityLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	ActivityType string    `json:"activity_type" gorm:"size:50;not null"`
	Description  string    `json:"description" gorm:"size:500;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the ActivityLog model
func (ActivityLog) TableName() string {
	return "activity_logs"
}
