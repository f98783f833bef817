package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gig-booking-server/models"
)

// Cascades between a booking and its linked gig. All helpers take the
// enclosing transaction handle: any failure here aborts the whole
// booking mutation, so the two records can never diverge.

// syncGigOnConfirm creates the gig for a booking being confirmed and
// links it. Re-confirming a rescheduled booking revives its existing
// gig instead of creating a duplicate. The caller has already
// re-checked availability; the gig write itself does not validate the
// slot again.
func syncGigOnConfirm(tx *gorm.DB, booking *models.Booking) error {
	if booking.GigID != nil {
		updates := map[string]interface{}{
			"status":        models.GigStatusConfirmed,
			"gig_date":      booking.EventDate,
			"start_time":    booking.StartTime,
			"end_time":      booking.EndTime,
			"agreed_amount": booking.TotalAmount,
			"payment_terms": booking.PaymentTerms,
		}
		if err := tx.Model(&models.Gig{}).Where("id = ?", *booking.GigID).Updates(updates).Error; err != nil {
			return persistenceError(err)
		}
		return nil
	}

	equipment := "musician_brings_own"
	if booking.EquipmentProvided {
		equipment = "provided_by_venue"
	}
	notes := fmt.Sprintf("Generated from booking #%d", booking.ID)

	gig := models.Gig{
		MusicianID:          booking.MusicianID,
		BookingID:           &booking.ID,
		Title:               booking.EventTitle,
		VenueName:           booking.VenueName,
		VenueAddress:        booking.VenueAddress,
		GigDate:             booking.EventDate,
		StartTime:           booking.StartTime,
		EndTime:             booking.EndTime,
		GigType:             booking.EventType,
		Status:              models.GigStatusConfirmed,
		AgreedAmount:        booking.TotalAmount,
		PaymentTerms:        booking.PaymentTerms,
		EquipmentRequired:   &equipment,
		SpecialRequirements: booking.SpecialRequests,
		AudienceSize:        booking.AudienceSize,
		PerformanceNotes:    &notes,
	}

	if err := tx.Create(&gig).Error; err != nil {
		return persistenceError(err)
	}

	booking.GigID = &gig.ID
	return nil
}

// cancelLinkedGig moves the booking's gig to cancelled, if one is
// linked. A missing link means there is nothing to cancel and is not an
// error.
func cancelLinkedGig(tx *gorm.DB, booking *models.Booking) error {
	if booking.GigID == nil {
		return nil
	}

	var gig models.Gig
	if err := tx.First(&gig, *booking.GigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return persistenceError(err)
	}

	if gig.Status.IsTerminal() {
		return nil
	}

	if err := tx.Model(&gig).Update("status", models.GigStatusCancelled).Error; err != nil {
		return persistenceError(err)
	}
	return nil
}

// rescheduleLinkedGig propagates the booking's new schedule onto its
// gig, if one is linked
func rescheduleLinkedGig(tx *gorm.DB, booking *models.Booking) error {
	if booking.GigID == nil {
		return nil
	}

	updates := map[string]interface{}{
		"gig_date":   booking.EventDate,
		"start_time": booking.StartTime,
		"end_time":   booking.EndTime,
	}
	if err := tx.Model(&models.Gig{}).Where("id = ?", *booking.GigID).Updates(updates).Error; err != nil {
		return persistenceError(err)
	}
	return nil
}
