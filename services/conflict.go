package services

import (
	"time"

	"gorm.io/gorm"

	"gig-booking-server/models"
	"gig-booking-server/utils"
)

// Statuses that occupy calendar time. Pending bookings never block a
// slot; only committed ones do.
var blockingBookingStatuses = []models.BookingStatus{
	models.BookingStatusConfirmed,
	models.BookingStatusInProgress,
}

var blockingGigStatuses = []models.GigStatus{
	models.GigStatusScheduled,
	models.GigStatusConfirmed,
	models.GigStatusInProgress,
}

// intervalsOverlap tests a proposed slot [s1,e1) against an existing
// commitment [s2,e2). With both ends present it is the canonical
// half-open test: s1 < e2 && s2 < e1. Clock strings are normalized
// HH:MM so plain string comparison orders them. A proposal without an
// end time collides only on exact start equality; an existing
// commitment without an end behaves as the instant at its start.
func intervalsOverlap(s1 string, e1 *string, s2 string, e2 *string) bool {
	switch {
	case e1 != nil && e2 != nil:
		return s1 < *e2 && s2 < *e1
	case e1 == nil:
		return s1 == s2
	default:
		return s1 <= s2 && s2 < *e1
	}
}

// ConflictChecker tests whether a proposed slot for a musician overlaps
// any existing commitment, whether it originated as a booking or as a
// standalone gig. Read-only.
type ConflictChecker struct {
	db *gorm.DB
}

func NewConflictChecker(db *gorm.DB) *ConflictChecker {
	return &ConflictChecker{db: db}
}

// HasConflict reports whether the proposed [start,end) slot on the given
// date collides with a committed booking or an active gig of the
// musician. excludeBookingID and excludeGigID let an update check itself
// out of its own prior slot.
//
// On any storage error it fails closed: the slot is reported as
// conflicting so a double-booking can never slip through an outage.
func (c *ConflictChecker) HasConflict(musicianID uint, date time.Time, start string, end *string, excludeBookingID, excludeGigID *uint) (bool, error) {
	day := utils.NormalizeDate(date)

	var bookings []models.Booking
	q := c.db.Where("musician_id = ? AND event_date = ? AND status IN ?",
		musicianID, day, blockingBookingStatuses)
	if excludeBookingID != nil {
		q = q.Where("id <> ?", *excludeBookingID)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return true, persistenceError(err)
	}

	for _, b := range bookings {
		if intervalsOverlap(start, end, b.StartTime, b.EndTime) {
			return true, nil
		}
	}

	var gigs []models.Gig
	q = c.db.Where("musician_id = ? AND gig_date = ? AND status IN ?",
		musicianID, day, blockingGigStatuses)
	if excludeGigID != nil {
		q = q.Where("id <> ?", *excludeGigID)
	}
	if err := q.Find(&gigs).Error; err != nil {
		return true, persistenceError(err)
	}

	for _, g := range gigs {
		if intervalsOverlap(start, end, g.StartTime, g.EndTime) {
			return true, nil
		}
	}

	return false, nil
}
